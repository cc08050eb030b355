package feedforward

import "fmt"

import "github.com/neurlang/bagofpatches/layer/conv2d"
import "github.com/neurlang/bagofpatches/layer/dropout"
import "github.com/neurlang/bagofpatches/layer/full"
import "github.com/neurlang/bagofpatches/layer/maxpool2d"

// Reference topology sizes.
const (
	ConvKernel  = 5
	ConvFilters = 10
	PoolSize    = 2
	DenseUnits  = 300
)

// NewBCNN builds the bag of patches network for patchSize×patchSize single
// channel patches:
//
//	conv 5x5, 10 filters, valid, ReLU
//	max pool 2x2, stride 2
//	dense 300, ReLU
//	dropout (training only)
//	dense classes (logits), softmax
//
// For 30x30 patches the shapes are 26x26x10, 13x13x10, 300, classes.
func NewBCNN(patchSize, classes int, rate float64, seed uint64) (*FeedforwardNetwork, error) {
	if classes < 2 {
		return nil, fmt.Errorf("NewBCNN: need at least 2 classes, got %d", classes)
	}
	conv, err := conv2d.New(patchSize, patchSize, 1, ConvKernel, ConvFilters, true)
	if err != nil {
		return nil, err
	}
	pool, err := maxpool2d.New(conv.OutWidth(), conv.OutHeight(), ConvFilters, PoolSize, PoolSize)
	if err != nil {
		return nil, err
	}
	drop, err := dropout.New(DenseUnits, rate, seed)
	if err != nil {
		return nil, err
	}
	var net = new(FeedforwardNetwork)
	net.MustNewLayer(conv)
	net.MustNewLayer(pool)
	net.MustNewLayer(full.MustNew(pool.OutputLen(), DenseUnits, true))
	net.MustNewLayer(drop)
	net.MustNewLayer(full.MustNew(DenseUnits, classes, false))
	net.Randomize(seed)
	return net, nil
}
