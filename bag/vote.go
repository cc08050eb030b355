package bag

import "sort"

import "gonum.org/v1/gonum/floats"

// TotalProbEachClass sums the class probabilities over every bag. The result
// has one row per bag and one column per class.
func TotalProbEachClass(probs [][]float64, nbrPatch int) ([][]float64, error) {
	if err := multipleOf("probabilities", len(probs), nbrPatch); err != nil {
		return nil, err
	}
	var totals = make([][]float64, len(probs)/nbrPatch)
	for b := range totals {
		var block = probs[b*nbrPatch : (b+1)*nbrPatch]
		if len(block[0]) == 0 {
			return nil, &ShapeMismatchError{What: "probability vector", Len: 0, Expected: "at least one class"}
		}
		totals[b] = make([]float64, len(block[0]))
		for _, p := range block {
			if len(p) != len(totals[b]) {
				return nil, &ShapeMismatchError{What: "probability vector", Len: len(p),
					Expected: "the same class count for every patch"}
			}
			floats.Add(totals[b], p)
		}
	}
	return totals, nil
}

// MajorityVote predicts one class per bag: the class with the highest
// summed probability, the lowest class index on ties.
func MajorityVote(probs [][]float64, nbrPatch int) ([]int, error) {
	totals, err := TotalProbEachClass(probs, nbrPatch)
	if err != nil {
		return nil, err
	}
	var out = make([]int, len(totals))
	for b, t := range totals {
		out[b] = floats.MaxIdx(t)
	}
	return out, nil
}

// DiscriminativePatches returns, for every bag, the in-bag indices of the k
// patches with the highest spatially weighted probability of the bag's
// predicted class, best first. Ties keep the lower index first.
func DiscriminativePatches(probs [][]float64, predicted []int, weights []float64, k int) ([][]int, error) {
	var nbrPatch = len(weights)
	if err := multipleOf("probabilities", len(probs), nbrPatch); err != nil {
		return nil, err
	}
	if len(predicted)*nbrPatch != len(probs) {
		return nil, &ShapeMismatchError{What: "predictions", Len: len(predicted), Expected: "one prediction per bag"}
	}
	selected, err := SelectClass(probs, Elongate(predicted, nbrPatch))
	if err != nil {
		return nil, err
	}
	weighted, err := SpatialWeight(selected, weights)
	if err != nil {
		return nil, err
	}
	if k > nbrPatch {
		k = nbrPatch
	}
	if k < 1 {
		k = 1
	}
	var out = make([][]int, len(predicted))
	for b := range out {
		var block = weighted[b*nbrPatch : (b+1)*nbrPatch]
		var idx = make([]int, nbrPatch)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool {
			return block[idx[i]] > block[idx[j]]
		})
		out[b] = idx[:k]
	}
	return out, nil
}

// Decision is the decoded output of a batch of bags.
type Decision struct {
	// Predicted is the image level class per bag.
	Predicted []int
	// Totals is the summed probability per bag and class.
	Totals [][]float64
	// Patches are the most representative patches of the predicted class.
	Patches [][]int
}

// Decode runs the majority vote and the discriminative patch selection.
func Decode(probs [][]float64, weights []float64, k int) (d Decision, err error) {
	var nbrPatch = len(weights)
	if d.Totals, err = TotalProbEachClass(probs, nbrPatch); err != nil {
		return d, err
	}
	d.Predicted = make([]int, len(d.Totals))
	for b, t := range d.Totals {
		d.Predicted[b] = floats.MaxIdx(t)
	}
	d.Patches, err = DiscriminativePatches(probs, d.Predicted, weights, k)
	return d, err
}
