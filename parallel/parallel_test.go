package parallel

import "sync/atomic"
import "testing"
import "errors"

// foreach visits every index exactly once
func TestForEach(t *testing.T) {
	var seen = make([]int32, 1000)
	ForEach(len(seen), 7, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, v := range seen {
		if v != 1 {
			t.Errorf("index %d visited %d times", i, v)
		}
	}
	ForEach(0, 3, func(i int) {
		t.Errorf("body called for empty loop")
	})
}

// lowest failing index wins
func TestForEachErr(t *testing.T) {
	var errA = errors.New("a")
	var errB = errors.New("b")
	err := ForEachErr(100, 8, func(i int) error {
		switch i {
		case 42:
			return errB
		case 17:
			return errA
		}
		return nil
	})
	if err != errA {
		t.Errorf("expected error of index 17, got %v", err)
	}
	if err := ForEachErr(10, 0, func(int) error { return nil }); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

// digest is independent of write order
func TestDigest(t *testing.T) {
	a := NewDigest(100)
	b := NewDigest(100)
	for n := 0; n < 100; n++ {
		a.MustPut(n, uint16(n%3))
		b.MustPut(99-n, uint16((99-n)%3))
	}
	if a.Sum() != b.Sum() {
		t.Errorf("digest depends on write order: %x %x", a.Sum(), b.Sum())
	}
	c := NewDigest(100)
	for n := 0; n < 100; n++ {
		c.MustPut(n, uint16(n%2))
	}
	if a.Sum() == c.Sum() {
		t.Errorf("different predictions hash equally")
	}
	partial := NewDigest(2)
	partial.MustPut(0, 0)
	full := NewDigest(2)
	full.MustPut(0, 0)
	full.MustPut(1, 0)
	if partial.Sum() == full.Sum() {
		t.Errorf("partial digest collides with complete one")
	}
}

func TestThreads(t *testing.T) {
	if Threads() < 1 {
		t.Errorf("Threads() = %d", Threads())
	}
	if Describe() == "" {
		t.Errorf("empty cpu description")
	}
}
