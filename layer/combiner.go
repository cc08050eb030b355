package layer

// Combiner holds the activations of one sample flowing through a layer.
type Combiner interface {

	// Forward computes the layer output. The returned slice is owned by the
	// combiner and stays valid until the next Forward. Train enables
	// training-only behavior such as dropout.
	Forward(in []float64, train bool) []float64

	// Backward takes the gradient of the loss with respect to the last
	// output, adds the parameter gradients into the layer's Param.Grad and
	// returns the gradient with respect to the last input. Backward of
	// combiners sharing a layer must not run concurrently.
	Backward(grad []float64) []float64
}

// Relu applies max(0, x) in place.
func Relu(v []float64) {
	for i, x := range v {
		if x < 0 {
			v[i] = 0
		}
	}
}

// ReluMask zeroes the gradient where the activation was clipped.
func ReluMask(grad, out []float64) {
	for i, o := range out {
		if o <= 0 {
			grad[i] = 0
		}
	}
}
