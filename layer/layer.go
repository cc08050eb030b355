// Package layer defines the layer and combiner interfaces of the per-patch
// network. A Layer owns learned parameters; Lay turns it into a Combiner that
// owns the activations of one sample, so samples can run concurrently.
package layer

import "math"
import "math/rand/v2"

// Layer is the layer which can be used for instantiating a combiner
type Layer interface {

	// Lay creates a combiner
	Lay() Combiner

	// InputLen is the number of values consumed per sample.
	InputLen() int

	// OutputLen is the number of values produced per sample.
	OutputLen() int

	// Params returns the learned parameters, nil for parameterless layers.
	Params() []*Param
}

// Randomizer is a layer whose parameters need an initial draw.
type Randomizer interface {
	Randomize(rng *rand.Rand)
}

// Param is a learned tensor flattened row-major, with its gradient
// accumulator.
type Param struct {
	Name  string
	Value []float64
	Grad  []float64
}

// NewParam allocates a zeroed parameter of n values.
func NewParam(name string, n int) *Param {
	return &Param{Name: name, Value: make([]float64, n), Grad: make([]float64, n)}
}

// ZeroGrad clears the gradient accumulator.
func (p *Param) ZeroGrad() {
	clear(p.Grad)
}

// GlorotUniform draws values from U(-l, l) with l = sqrt(6/(fanIn+fanOut)).
func GlorotUniform(rng *rand.Rand, values []float64, fanIn, fanOut int) {
	var limit = math.Sqrt(6 / float64(fanIn+fanOut))
	for i := range values {
		values[i] = (2*rng.Float64() - 1) * limit
	}
}
