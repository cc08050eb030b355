package trainer

import "github.com/neurlang/bagofpatches/bag"
import "github.com/neurlang/bagofpatches/inference"

// Objective is the multi-instance loss of a batch of bags as an
// inference.LossFunc. labels has one class per patch and weights one factor
// per bag position. Only the best patch of each bag receives a gradient.
func Objective(labels []int, weights []float64, r bag.Reduction) inference.LossFunc {
	var nbrPatch = len(weights)
	return func(probs [][]float64) (float64, [][]float64, error) {
		selected, err := bag.SelectClass(probs, labels)
		if err != nil {
			return 0, nil, err
		}
		weighted, err := bag.SpatialWeight(selected, weights)
		if err != nil {
			return 0, nil, err
		}
		loss, err := bag.MILLoss(weighted, nbrPatch, r)
		if err != nil {
			return 0, nil, err
		}
		var dWeighted = loss.Gradient(nbrPatch)
		var grad = make([][]float64, len(probs))
		for i, g := range dWeighted {
			if g == 0 {
				continue
			}
			grad[i] = make([]float64, len(probs[i]))
			grad[i][labels[i]] = g * weights[i%nbrPatch]
		}
		return loss.Value, grad, nil
	}
}
