// Package metrics accumulates the confusion counts of image level
// predictions over evaluation batches and derives precision, recall and F1.
package metrics

import "math"

// Confusion holds binary confusion counts for one polarity.
type Confusion struct {
	TP, FP, FN, TN int
}

// Add sums two confusions.
func (c Confusion) Add(o Confusion) Confusion {
	return Confusion{TP: c.TP + o.TP, FP: c.FP + o.FP, FN: c.FN + o.FN, TN: c.TN + o.TN}
}

// Positives is the number of ground truth positives, TP+FN.
func (c Confusion) Positives() int { return c.TP + c.FN }

// Predicted is the number of predicted positives, TP+FP.
func (c Confusion) Predicted() int { return c.TP + c.FP }

// ratio is a/b, NaN when b is zero
func ratio(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	return a / b
}

// Recall is TP/(TP+FN), NaN without ground truth positives.
func (c Confusion) Recall() float64 {
	return ratio(float64(c.TP), float64(c.TP+c.FN))
}

// Precision is TP/(TP+FP), NaN without predicted positives.
func (c Confusion) Precision() float64 {
	return ratio(float64(c.TP), float64(c.TP+c.FP))
}

// F1 is the harmonic mean of precision and recall, NaN when either is
// undefined or both are zero.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if math.IsNaN(p) || math.IsNaN(r) {
		return math.NaN()
	}
	return ratio(2*p*r, p+r)
}
