// Package full implements a fully connected layer and combiner
package full

import "fmt"
import "math/rand/v2"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/bagofpatches/layer"

// FullLayer computes W·x + b with W of outputs×inputs, optionally followed
// by ReLU.
type FullLayer struct {
	inputs, outputs int
	relu            bool

	weights, bias *layer.Param
	w, dw         *mat.Dense
}

// Full is the per-sample state of a FullLayer.
type Full struct {
	l      *FullLayer
	in     []float64
	out    []float64
	dIn    []float64
	outVec *mat.VecDense
	dInVec *mat.VecDense
}

// MustNew creates a new full layer, panicking on bad dimensions
func MustNew(inputs, outputs int, relu bool) *FullLayer {
	o, err := New(inputs, outputs, relu)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with inputs and outputs
func New(inputs, outputs int, relu bool) (o *FullLayer, err error) {
	if inputs <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("New Full: inputs %d and outputs %d must be positive", inputs, outputs)
	}
	o = new(FullLayer)
	o.inputs = inputs
	o.outputs = outputs
	o.relu = relu
	o.weights = layer.NewParam("dense/kernel", outputs*inputs)
	o.bias = layer.NewParam("dense/bias", outputs)
	// the matrices share the parameter storage
	o.w = mat.NewDense(outputs, inputs, o.weights.Value)
	o.dw = mat.NewDense(outputs, inputs, o.weights.Grad)
	return
}

func (i *FullLayer) InputLen() int  { return i.inputs }
func (i *FullLayer) OutputLen() int { return i.outputs }

func (i *FullLayer) Params() []*layer.Param { return []*layer.Param{i.weights, i.bias} }

// Randomize draws Glorot uniform weights and zero biases.
func (i *FullLayer) Randomize(rng *rand.Rand) {
	layer.GlorotUniform(rng, i.weights.Value, i.inputs, i.outputs)
	clear(i.bias.Value)
}

// Lay turns full layer into a combiner
func (i *FullLayer) Lay() layer.Combiner {
	o := &Full{
		l:   i,
		out: make([]float64, i.outputs),
		dIn: make([]float64, i.inputs),
	}
	o.outVec = mat.NewVecDense(i.outputs, o.out)
	o.dInVec = mat.NewVecDense(i.inputs, o.dIn)
	return o
}
