// Package dropout implements inverted dropout: during training every value
// is kept with probability 1-rate and scaled by 1/(1-rate), at inference the
// layer is the identity.
package dropout

import "fmt"
import "math/rand/v2"
import "sync/atomic"

import "github.com/neurlang/bagofpatches/layer"

type DropoutLayer struct {
	size int
	rate float64
	seed uint64
	lays atomic.Uint64
}

type Dropout struct {
	l    *DropoutLayer
	rng  *rand.Rand
	mask []float64
	out  []float64
	dIn  []float64
}

// New creates a dropout layer over size values dropping with rate.
func New(size int, rate float64, seed uint64) (*DropoutLayer, error) {
	if rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("New Dropout: rate %v outside [0, 1)", rate)
	}
	return &DropoutLayer{size: size, rate: rate, seed: seed}, nil
}

// MustNew creates a dropout layer, panicking on a bad rate
func MustNew(size int, rate float64, seed uint64) *DropoutLayer {
	o, err := New(size, rate, seed)
	if err != nil {
		panic(err.Error())
	}
	return o
}

func (i *DropoutLayer) InputLen() int          { return i.size }
func (i *DropoutLayer) OutputLen() int         { return i.size }
func (i *DropoutLayer) Params() []*layer.Param { return nil }

// Lay gives every combiner its own random stream, numbered in Lay order.
func (i *DropoutLayer) Lay() layer.Combiner {
	n := i.lays.Add(1)
	return &Dropout{
		l:    i,
		rng:  rand.New(rand.NewPCG(i.seed, n)),
		mask: make([]float64, i.size),
		out:  make([]float64, i.size),
		dIn:  make([]float64, i.size),
	}
}

func (d *Dropout) Forward(in []float64, train bool) []float64 {
	if !train || d.l.rate == 0 {
		for i := range d.mask {
			d.mask[i] = 1
		}
		copy(d.out, in)
		return d.out
	}
	var scale = 1 / (1 - d.l.rate)
	for i, v := range in {
		if d.rng.Float64() < d.l.rate {
			d.mask[i] = 0
		} else {
			d.mask[i] = scale
		}
		d.out[i] = v * d.mask[i]
	}
	return d.out
}

func (d *Dropout) Backward(grad []float64) []float64 {
	for i, g := range grad {
		d.dIn[i] = g * d.mask[i]
	}
	return d.dIn
}
