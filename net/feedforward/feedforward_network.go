// Package feedforward implements a feedforward network type: a stack of
// layers ending in a softmax, used as the per-patch classifier.
package feedforward

import "fmt"
import "math"
import "math/rand/v2"

import "gonum.org/v1/gonum/floats"

import "github.com/neurlang/bagofpatches/layer"

// FeedforwardNetwork is the feedforward network
type FeedforwardNetwork struct {
	layers []layer.Layer

	// LearningRate is the gradient descent step.
	LearningRate float64

	// Threads bounds the goroutines used for a batch of patches.
	Threads int

	closed bool
}

// NewLayer adds a layer to the end of network. Its input length must match
// the output length of the previous layer.
func (f *FeedforwardNetwork) NewLayer(l layer.Layer) error {
	if n := len(f.layers); n > 0 && f.layers[n-1].OutputLen() != l.InputLen() {
		return fmt.Errorf("layer %d takes %d inputs, previous layer produces %d", n, l.InputLen(), f.layers[n-1].OutputLen())
	}
	f.layers = append(f.layers, l)
	return nil
}

// MustNewLayer is NewLayer that panics on a shape mismatch
func (f *FeedforwardNetwork) MustNewLayer(l layer.Layer) {
	if err := f.NewLayer(l); err != nil {
		panic(err.Error())
	}
}

// LenLayers returns the number of layers.
func (f *FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// Len returns the number of learned values in the network.
func (f *FeedforwardNetwork) Len() (o int) {
	for _, p := range f.Params() {
		o += len(p.Value)
	}
	return
}

// InputLen is the input length of the first layer.
func (f *FeedforwardNetwork) InputLen() int {
	if len(f.layers) == 0 {
		return 0
	}
	return f.layers[0].InputLen()
}

// GetClasses reports the number of classes predicted by this network
func (f *FeedforwardNetwork) GetClasses() int {
	if len(f.layers) == 0 {
		return 0
	}
	return f.layers[len(f.layers)-1].OutputLen()
}

// Params lists every learned parameter, first layer first.
func (f *FeedforwardNetwork) Params() (o []*layer.Param) {
	for _, l := range f.layers {
		o = append(o, l.Params()...)
	}
	return
}

// Randomize draws fresh initial parameters.
func (f *FeedforwardNetwork) Randomize(seed uint64) {
	rng := rand.New(rand.NewPCG(seed, 0x6263_6e6e))
	for _, l := range f.layers {
		if r, ok := l.(layer.Randomizer); ok {
			r.Randomize(rng)
		}
	}
}

// ZeroGrad clears every gradient accumulator.
func (f *FeedforwardNetwork) ZeroGrad() {
	for _, p := range f.Params() {
		p.ZeroGrad()
	}
}

// Step applies one gradient descent update and clears the gradients.
func (f *FeedforwardNetwork) Step() {
	for _, p := range f.Params() {
		floats.AddScaled(p.Value, -f.LearningRate, p.Grad)
		p.ZeroGrad()
	}
}

// Pass is one sample travelling through the network.
type Pass struct {
	combiners []layer.Combiner
	logits    []float64
	probs     []float64
}

// Lay prepares a pass without running it. Laying passes in a fixed order
// keeps dropout streams reproducible when the passes then run concurrently.
func (f *FeedforwardNetwork) Lay() *Pass {
	var p = &Pass{combiners: make([]layer.Combiner, len(f.layers))}
	for i, l := range f.layers {
		p.combiners[i] = l.Lay()
	}
	return p
}

// Run feeds one sample through a laid pass.
func (p *Pass) Run(in []float64, train bool) *Pass {
	var out = in
	for _, c := range p.combiners {
		out = c.Forward(out, train)
	}
	p.logits = out
	p.probs = Softmax(out)
	return p
}

// Forward runs one sample and returns its pass; Probabilities holds the
// softmax output.
func (f *FeedforwardNetwork) Forward(in []float64, train bool) *Pass {
	return f.Lay().Run(in, train)
}

// Probabilities is the class distribution of the sample.
func (p *Pass) Probabilities() []float64 {
	return p.probs
}

// Backward takes the gradient of the loss with respect to the probabilities
// and accumulates parameter gradients through every layer. Backward of passes
// of the same network must not run concurrently.
func (p *Pass) Backward(gradProbs []float64) {
	var grad = SoftmaxBackward(p.probs, gradProbs)
	for i := len(p.combiners) - 1; i >= 0; i-- {
		grad = p.combiners[i].Backward(grad)
	}
}

// Infer infers the class probabilities of one input.
func (f *FeedforwardNetwork) Infer(in []float64) []float64 {
	return f.Forward(in, false).Probabilities()
}

// Softmax returns exp(x_i - max) normalized to sum to one.
func Softmax(logits []float64) []float64 {
	var out = make([]float64, len(logits))
	if len(logits) == 0 {
		return out
	}
	var top = floats.Max(logits)
	for i, v := range logits {
		out[i] = math.Exp(v - top)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// SoftmaxBackward maps dL/dprobs to dL/dlogits:
// dz_j = p_j (g_j - Σ_k g_k p_k).
func SoftmaxBackward(probs, grad []float64) []float64 {
	var dot = floats.Dot(grad, probs)
	var out = make([]float64, len(probs))
	for j, p := range probs {
		out[j] = p * (grad[j] - dot)
	}
	return out
}
