package bag

// UniformWeights returns n ones, the neutral spatial factor.
func UniformWeights(n int) []float64 {
	var w = make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// SpatialWeight multiplies each selected probability by the weight of its
// position in the bag. The weights are broadcast over every bag and are not
// normalized.
func SpatialWeight(selected, weights []float64) ([]float64, error) {
	if err := multipleOf("selected probabilities", len(selected), len(weights)); err != nil {
		return nil, err
	}
	var out = make([]float64, len(selected))
	for i, p := range selected {
		out[i] = p * weights[i%len(weights)]
	}
	return out, nil
}
