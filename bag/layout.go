package bag

// Bags returns the number of bags in a flat batch of n patches.
func Bags(n, nbrPatch int) (int, error) {
	if err := multipleOf("batch", n, nbrPatch); err != nil {
		return 0, err
	}
	return n / nbrPatch, nil
}

// Elongate broadcasts one value per bag onto every patch of the bag.
func Elongate(perBag []int, nbrPatch int) []int {
	var out = make([]int, 0, len(perBag)*nbrPatch)
	for _, v := range perBag {
		for i := 0; i < nbrPatch; i++ {
			out = append(out, v)
		}
	}
	return out
}

// ReduceLabels keeps one label per bag. All patches of a bag carry the
// image label, so the first one of each block is taken.
func ReduceLabels(labels []int, nbrPatch int) ([]int, error) {
	if err := multipleOf("labels", len(labels), nbrPatch); err != nil {
		return nil, err
	}
	var out = make([]int, 0, len(labels)/nbrPatch)
	for b := 0; b < len(labels); b += nbrPatch {
		out = append(out, labels[b])
	}
	return out, nil
}

// SelectClass picks, for every patch i, the probability of class classes[i].
func SelectClass(probs [][]float64, classes []int) ([]float64, error) {
	if len(probs) != len(classes) {
		return nil, &ShapeMismatchError{What: "classes", Len: len(classes), Expected: "one class per patch"}
	}
	var out = make([]float64, len(probs))
	for i, p := range probs {
		if classes[i] < 0 || classes[i] >= len(p) {
			return nil, &ClassRangeError{Class: classes[i], Classes: len(p)}
		}
		out[i] = p[classes[i]]
	}
	return out, nil
}
