package metrics

import "fmt"
import "math"
import "strings"

import "github.com/neurlang/bagofpatches/bag"

// ShapeMismatchError is returned when labels and predictions differ in
// length.
type ShapeMismatchError = bag.ShapeMismatchError

// Polarity decides which labels count as positive.
type Polarity func(class int) bool

// ClassOfInterest treats every non-zero class as positive.
func ClassOfInterest(class int) bool { return class != 0 }

// Inverse treats class zero as positive.
func Inverse(class int) bool { return class == 0 }

func count(labels, predicted []int, positive Polarity) (c Confusion) {
	for i, l := range labels {
		var lp, pp = positive(l), positive(predicted[i])
		switch {
		case lp && pp:
			c.TP++
		case !lp && pp:
			c.FP++
		case lp && !pp:
			c.FN++
		default:
			c.TN++
		}
	}
	return
}

// Batch is the outcome of one evaluation batch.
type Batch struct {
	First, Second Confusion
	Correct, Bags int
}

// Accumulator keeps per batch confusion counts for the class of interest
// and its logical inverse. It is owned by a single caller.
type Accumulator struct {
	Batches []Batch
}

// Add records one batch of image level labels and predictions.
func (a *Accumulator) Add(labels, predicted []int) (b Batch, err error) {
	if len(labels) != len(predicted) {
		return b, &ShapeMismatchError{What: "predictions", Len: len(predicted),
			Expected: fmt.Sprintf("%d (one per label)", len(labels))}
	}
	b.First = count(labels, predicted, ClassOfInterest)
	b.Second = count(labels, predicted, Inverse)
	b.Bags = len(labels)
	for i := range labels {
		if labels[i] == predicted[i] {
			b.Correct++
		}
	}
	a.Batches = append(a.Batches, b)
	return b, nil
}

// Reset forgets all batches.
func (a *Accumulator) Reset() {
	a.Batches = a.Batches[:0]
}

// Scores is recall, precision and F1 of one polarity.
type Scores struct {
	Confusion
	Recall, Precision, F1 float64
}

func score(c Confusion) Scores {
	return Scores{Confusion: c, Recall: c.Recall(), Precision: c.Precision(), F1: c.F1()}
}

// Report is the summary over all accumulated batches.
type Report struct {
	First, Second Scores
	TotalF1       float64
	Accuracy      float64
	Bags, Batches int
}

// Report sums the batches and derives the scores.
func (a *Accumulator) Report() (r Report) {
	var first, second Confusion
	var correct int
	for _, b := range a.Batches {
		first = first.Add(b.First)
		second = second.Add(b.Second)
		correct += b.Correct
		r.Bags += b.Bags
	}
	r.Batches = len(a.Batches)
	r.First = score(first)
	r.Second = score(second)
	r.TotalF1 = (r.First.F1 + r.Second.F1) / 2
	r.Accuracy = ratio(float64(correct), float64(r.Bags))
	return
}

// Defined reports whether every score of the report is a number.
func (r Report) Defined() bool {
	for _, v := range []float64{r.First.Recall, r.First.Precision, r.Second.Recall, r.Second.Precision, r.TotalF1} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

func (r Report) String() string {
	var sb strings.Builder
	for _, s := range []struct {
		title string
		sc    Scores
	}{{"First Class", r.First}, {"Second Class", r.Second}} {
		fmt.Fprintln(&sb, s.title)
		fmt.Fprintf(&sb, "recall     %v\n", s.sc.Recall)
		fmt.Fprintf(&sb, "precision  %v\n", s.sc.Precision)
		fmt.Fprintf(&sb, "F1         %v\n", s.sc.F1)
	}
	fmt.Fprintln(&sb, "Total")
	fmt.Fprintf(&sb, "F1_tot     %v\n", r.TotalF1)
	fmt.Fprintf(&sb, "accuracy   %v (%d images, %d batches)\n", r.Accuracy, r.Bags, r.Batches)
	return sb.String()
}
