package metrics

import "errors"
import "math"
import "math/rand"
import "strings"
import "testing"

func TestConfusionScores(t *testing.T) {
	c := Confusion{TP: 6, FP: 2, FN: 4}
	if c.Recall() != 0.6 {
		t.Errorf("recall %v", c.Recall())
	}
	if c.Precision() != 0.75 {
		t.Errorf("precision %v", c.Precision())
	}
	want := 2 * 0.75 * 0.6 / (0.75 + 0.6)
	if math.Abs(c.F1()-want) > 1e-12 {
		t.Errorf("F1 %v, expected %v", c.F1(), want)
	}
}

// zero denominators are NaN, never a crash
func TestConfusionUndefined(t *testing.T) {
	c := Confusion{TP: 0, FP: 0, FN: 3}
	if !math.IsNaN(c.Precision()) {
		t.Errorf("precision %v, expected NaN", c.Precision())
	}
	if c.Recall() != 0 {
		t.Errorf("recall %v", c.Recall())
	}
	if !math.IsNaN(c.F1()) {
		t.Errorf("F1 %v, expected NaN", c.F1())
	}
	var empty Confusion
	if !math.IsNaN(empty.Recall()) || !math.IsNaN(empty.Precision()) || !math.IsNaN(empty.F1()) {
		t.Errorf("empty confusion should be undefined")
	}
	zero := Confusion{FP: 1, FN: 1}
	if !math.IsNaN(zero.F1()) {
		t.Errorf("F1 with zero precision and recall %v, expected NaN", zero.F1())
	}
}

// TP+FN counts ground truth positives and TP+FP predicted positives
func TestAccumulatorInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var a Accumulator
	for batch := 0; batch < 20; batch++ {
		var labels, pred = make([]int, 15), make([]int, 15)
		for i := range labels {
			labels[i] = rng.Intn(3)
			pred[i] = rng.Intn(3)
		}
		b, err := a.Add(labels, pred)
		if err != nil {
			t.Fatal(err)
		}
		var pos, predPos, neg, predNeg int
		for i := range labels {
			if labels[i] != 0 {
				pos++
			} else {
				neg++
			}
			if pred[i] != 0 {
				predPos++
			} else {
				predNeg++
			}
		}
		if b.First.Positives() != pos || b.First.Predicted() != predPos {
			t.Errorf("batch %d first polarity %+v, positives %d predicted %d", batch, b.First, pos, predPos)
		}
		if b.Second.Positives() != neg || b.Second.Predicted() != predNeg {
			t.Errorf("batch %d second polarity %+v, positives %d predicted %d", batch, b.Second, neg, predNeg)
		}
	}
	r := a.Report()
	if r.Batches != 20 || r.Bags != 300 {
		t.Errorf("report counts %d batches %d bags", r.Batches, r.Bags)
	}
}

// binary case: the inverse polarity swaps roles
func TestAccumulatorPolarities(t *testing.T) {
	var a Accumulator
	labels := []int{1, 1, 1, 0, 0}
	pred := []int{1, 0, 1, 1, 0}
	if _, err := a.Add(labels, pred); err != nil {
		t.Fatal(err)
	}
	r := a.Report()
	if r.First.Confusion != (Confusion{TP: 2, FP: 1, FN: 1, TN: 1}) {
		t.Errorf("first %+v", r.First.Confusion)
	}
	if r.Second.Confusion != (Confusion{TP: 1, FP: 1, FN: 1, TN: 2}) {
		t.Errorf("second %+v", r.Second.Confusion)
	}
	if math.Abs(r.TotalF1-(r.First.F1+r.Second.F1)/2) > 1e-12 {
		t.Errorf("total F1 %v", r.TotalF1)
	}
	if r.Accuracy != 0.6 {
		t.Errorf("accuracy %v", r.Accuracy)
	}
	if !r.Defined() {
		t.Errorf("report should be defined")
	}
	if !strings.Contains(r.String(), "Second Class") {
		t.Errorf("report rendering:\n%s", r)
	}
}

func TestAccumulatorUndefined(t *testing.T) {
	var a Accumulator
	a.Add([]int{0, 0}, []int{0, 0})
	r := a.Report()
	if !math.IsNaN(r.First.Precision) || !math.IsNaN(r.TotalF1) {
		t.Errorf("expected undefined first polarity, got %+v", r.First)
	}
	if r.Defined() {
		t.Errorf("report should not be defined")
	}
	a.Reset()
	if a.Report().Bags != 0 {
		t.Errorf("reset did not clear batches")
	}
}

func TestAccumulatorShape(t *testing.T) {
	var a Accumulator
	var se *ShapeMismatchError
	if _, err := a.Add([]int{1, 2}, []int{1}); !errors.As(err, &se) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
}
