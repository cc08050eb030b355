package bag

import "fmt"
import "math"

import "gonum.org/v1/gonum/floats"

// Epsilon floors the bag probability inside the logarithm.
const Epsilon = 1e-7

// Reduction combines the per-bag losses into the batch loss.
type Reduction int

const (
	Mean Reduction = iota
	Sum
)

func (r Reduction) String() string {
	switch r {
	case Mean:
		return "mean"
	case Sum:
		return "sum"
	}
	return "unknown"
}

// ParseReduction parses "mean" or "sum". Empty means Mean.
func ParseReduction(s string) (Reduction, error) {
	switch s {
	case "", "mean":
		return Mean, nil
	case "sum":
		return Sum, nil
	}
	return Mean, fmt.Errorf("unknown reduction %q, expected mean or sum", s)
}

// Loss is the multi-instance loss of a batch of bags.
type Loss struct {
	Value     float64
	Bags      int
	Reduction Reduction

	// PerBag is -log(max + Epsilon) of each bag.
	PerBag []float64

	// ArgMax is the in-bag index of the patch attaining the max.
	ArgMax []int

	// Max is the max weighted probability of each bag.
	Max []float64
}

// MILLoss computes the multi-instance loss over spatially weighted selected
// probabilities. Each bag contributes -log(max_i p_i + Epsilon), so the value
// does not depend on the order of patches within a bag and stays finite for a
// bag with no probability mass.
func MILLoss(weighted []float64, nbrPatch int, r Reduction) (l Loss, err error) {
	if err = multipleOf("weighted probabilities", len(weighted), nbrPatch); err != nil {
		return l, err
	}
	l.Bags = len(weighted) / nbrPatch
	l.Reduction = r
	l.PerBag = make([]float64, l.Bags)
	l.ArgMax = make([]int, l.Bags)
	l.Max = make([]float64, l.Bags)
	for b := 0; b < l.Bags; b++ {
		var block = weighted[b*nbrPatch : (b+1)*nbrPatch]
		var i = floats.MaxIdx(block)
		l.ArgMax[b] = i
		l.Max[b] = block[i]
		l.PerBag[b] = -math.Log(block[i] + Epsilon)
	}
	l.Value = floats.Sum(l.PerBag)
	if r == Mean && l.Bags > 0 {
		l.Value /= float64(l.Bags)
	}
	return l, nil
}

// Gradient returns dValue/dweighted for the batch the loss was computed on.
// Only the max patch of each bag receives gradient.
func (l Loss) Gradient(nbrPatch int) []float64 {
	var grad = make([]float64, l.Bags*nbrPatch)
	var scale = 1.0
	if l.Reduction == Mean && l.Bags > 0 {
		scale /= float64(l.Bags)
	}
	for b := 0; b < l.Bags; b++ {
		grad[b*nbrPatch+l.ArgMax[b]] = -scale / (l.Max[b] + Epsilon)
	}
	return grad
}
