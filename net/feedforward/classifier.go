package feedforward

import "context"

import "github.com/pkg/errors"

import "github.com/neurlang/bagofpatches/inference"
import "github.com/neurlang/bagofpatches/parallel"
import "github.com/neurlang/bagofpatches/patch"

// Classes implements inference.Classifier.
func (f *FeedforwardNetwork) Classes() int {
	return f.GetClasses()
}

func (f *FeedforwardNetwork) check(p patch.Patch) error {
	if f.closed {
		return inference.ErrClosed
	}
	if len(p.Pix) != f.InputLen() {
		return errors.Errorf("patch %d has %d pixels, network takes %d", p.Index, len(p.Pix), f.InputLen())
	}
	return nil
}

// Predict implements inference.Classifier.
func (f *FeedforwardNetwork) Predict(p patch.Patch) ([]float64, error) {
	if err := f.check(p); err != nil {
		return nil, err
	}
	return f.Infer(p.Pix), nil
}

func (f *FeedforwardNetwork) threads() int {
	if f.Threads > 0 {
		return f.Threads
	}
	return parallel.Threads()
}

// TrainStep implements inference.Trainable: a training mode forward pass of
// every patch, the loss, backpropagation of the patches that receive a
// gradient and one gradient descent update.
func (f *FeedforwardNetwork) TrainStep(ctx context.Context, patches []patch.Patch, loss inference.LossFunc) (float64, error) {
	for _, p := range patches {
		if err := f.check(p); err != nil {
			return 0, err
		}
	}
	var passes = make([]*Pass, len(patches))
	for i := range passes {
		passes[i] = f.Lay()
	}
	err := parallel.ForEachErr(len(patches), f.threads(), func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		passes[i].Run(patches[i].Pix, true)
		return nil
	})
	if err != nil {
		return 0, err
	}
	var probs = make([][]float64, len(passes))
	for i, p := range passes {
		probs[i] = p.Probabilities()
	}
	value, grads, err := loss(probs)
	if err != nil {
		return 0, err
	}
	if len(grads) != len(passes) {
		return 0, errors.Errorf("loss returned %d gradients for %d patches", len(grads), len(passes))
	}
	f.ZeroGrad()
	for i, g := range grads {
		if g != nil {
			passes[i].Backward(g)
		}
	}
	f.Step()
	return value, nil
}

// Close releases the parameters. Further calls fail with inference.ErrClosed.
func (f *FeedforwardNetwork) Close() error {
	f.closed = true
	f.layers = nil
	return nil
}
