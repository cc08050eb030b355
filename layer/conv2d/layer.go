// Package conv2d implements a valid 2D convolution layer and combiner
package conv2d

import "fmt"
import "math/rand/v2"

import "github.com/neurlang/bagofpatches/layer"

// Conv2DLayer convolves a channels×height×width input with filters of
// kernel×kernel, no padding, stride one, optionally followed by ReLU.
type Conv2DLayer struct {
	width, height, channels int
	kernel, filters         int
	relu                    bool

	weights, bias *layer.Param
}

// Conv2D is the per-sample state of a Conv2DLayer.
type Conv2D struct {
	l       *Conv2DLayer
	in, out []float64
	dIn     []float64
}

// MustNew creates a new Conv2D layer, panicking on bad dimensions
func MustNew(width, height, channels, kernel, filters int, relu bool) *Conv2DLayer {
	o, err := New(width, height, channels, kernel, filters, relu)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Conv2D layer
func New(width, height, channels, kernel, filters int, relu bool) (o *Conv2DLayer, err error) {
	if kernel <= 0 || filters <= 0 || channels <= 0 {
		return nil, fmt.Errorf("New Conv2D: kernel %d, filters %d and channels %d must be positive", kernel, filters, channels)
	}
	if width < kernel {
		return nil, fmt.Errorf("New Conv2D: Width %d is lower than Kernel %d", width, kernel)
	}
	if height < kernel {
		return nil, fmt.Errorf("New Conv2D: Height %d is lower than Kernel %d", height, kernel)
	}
	o = new(Conv2DLayer)
	o.width = width
	o.height = height
	o.channels = channels
	o.kernel = kernel
	o.filters = filters
	o.relu = relu
	o.weights = layer.NewParam("conv2d/kernel", filters*channels*kernel*kernel)
	o.bias = layer.NewParam("conv2d/bias", filters)
	return
}

// OutWidth is the output width, width-kernel+1.
func (i *Conv2DLayer) OutWidth() int { return i.width - i.kernel + 1 }

// OutHeight is the output height, height-kernel+1.
func (i *Conv2DLayer) OutHeight() int { return i.height - i.kernel + 1 }

// Filters is the number of output channels.
func (i *Conv2DLayer) Filters() int { return i.filters }

func (i *Conv2DLayer) InputLen() int  { return i.channels * i.height * i.width }
func (i *Conv2DLayer) OutputLen() int { return i.filters * i.OutHeight() * i.OutWidth() }

func (i *Conv2DLayer) Params() []*layer.Param { return []*layer.Param{i.weights, i.bias} }

// Randomize draws Glorot uniform kernels and zero biases.
func (i *Conv2DLayer) Randomize(rng *rand.Rand) {
	var area = i.kernel * i.kernel
	layer.GlorotUniform(rng, i.weights.Value, area*i.channels, area*i.filters)
	clear(i.bias.Value)
}

// Lay turns Conv2D layer into a combiner
func (i *Conv2DLayer) Lay() layer.Combiner {
	return &Conv2D{
		l:   i,
		out: make([]float64, i.OutputLen()),
		dIn: make([]float64, i.InputLen()),
	}
}
