package bag

import "fmt"

// ShapeMismatchError reports a flat array whose length does not fit the
// expected bag layout.
type ShapeMismatchError struct {
	What     string
	Len      int
	Expected string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s has length %d, expected %s", e.What, e.Len, e.Expected)
}

// EmptyBagError reports a bag size of zero.
type EmptyBagError struct{}

func (e *EmptyBagError) Error() string {
	return "bag has no patches"
}

// ClassRangeError reports a class index outside of the probability vector.
type ClassRangeError struct {
	Class, Classes int
}

func (e *ClassRangeError) Error() string {
	return fmt.Sprintf("class %d out of range [0, %d)", e.Class, e.Classes)
}

func multipleOf(what string, n, nbrPatch int) error {
	if nbrPatch <= 0 {
		return &EmptyBagError{}
	}
	if n%nbrPatch != 0 {
		return &ShapeMismatchError{What: what, Len: n, Expected: fmt.Sprintf("a multiple of %d", nbrPatch)}
	}
	return nil
}
