// Package maxpool2d implements a 2D max pooling layer and combiner
package maxpool2d

import "fmt"

import "github.com/neurlang/bagofpatches/layer"

// MaxPool2DLayer takes the max over size×size windows moved by stride,
// independently for every channel. Windows never overhang the input.
type MaxPool2DLayer struct {
	width, height, channels, size, stride int
}

// MaxPool2D is the per-sample state of a MaxPool2DLayer.
type MaxPool2D struct {
	l      *MaxPool2DLayer
	out    []float64
	argmax []int
	dIn    []float64
}

// New creates a new MaxPool2D layer
func New(width, height, channels, size, stride int) (o *MaxPool2DLayer, err error) {
	if size <= 0 || stride <= 0 || channels <= 0 {
		return nil, fmt.Errorf("New MaxPool2D: size %d, stride %d and channels %d must be positive", size, stride, channels)
	}
	if width < size || height < size {
		return nil, fmt.Errorf("New MaxPool2D: input %dx%d is smaller than window %d", width, height, size)
	}
	return &MaxPool2DLayer{width: width, height: height, channels: channels, size: size, stride: stride}, nil
}

// MustNew creates a new MaxPool2D layer, panicking on bad dimensions
func MustNew(width, height, channels, size, stride int) *MaxPool2DLayer {
	o, err := New(width, height, channels, size, stride)
	if err != nil {
		panic(err.Error())
	}
	return o
}

func (i *MaxPool2DLayer) OutWidth() int  { return (i.width-i.size)/i.stride + 1 }
func (i *MaxPool2DLayer) OutHeight() int { return (i.height-i.size)/i.stride + 1 }

func (i *MaxPool2DLayer) InputLen() int  { return i.channels * i.height * i.width }
func (i *MaxPool2DLayer) OutputLen() int { return i.channels * i.OutHeight() * i.OutWidth() }

func (i *MaxPool2DLayer) Params() []*layer.Param { return nil }

// Lay turns MaxPool2D layer into a combiner
func (i *MaxPool2DLayer) Lay() layer.Combiner {
	return &MaxPool2D{
		l:      i,
		out:    make([]float64, i.OutputLen()),
		argmax: make([]int, i.OutputLen()),
		dIn:    make([]float64, i.InputLen()),
	}
}
