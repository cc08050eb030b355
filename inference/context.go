package inference

import "context"
import "io"
import "sync"

import "github.com/neurlang/bagofpatches/patch"

// Context owns a classifier for one run. It is opened once, passed to
// whoever needs predictions and closed once.
type Context struct {
	mut     sync.Mutex
	c       Classifier
	threads int
}

// Open wraps a classifier. threads <= 0 selects parallel.Threads().
func Open(c Classifier, threads int) (*Context, error) {
	if c == nil {
		return nil, ErrClosed
	}
	return &Context{c: c, threads: threads}, nil
}

func (x *Context) get() (Classifier, error) {
	x.mut.Lock()
	defer x.mut.Unlock()
	if x.c == nil {
		return nil, ErrClosed
	}
	return x.c, nil
}

// Classifier returns the wrapped classifier, or nil after Close.
func (x *Context) Classifier() Classifier {
	c, _ := x.get()
	return c
}

// Classes is the class count of the wrapped classifier.
func (x *Context) Classes() int {
	c, err := x.get()
	if err != nil {
		return 0
	}
	return c.Classes()
}

// Predict runs PredictAll with the context's thread limit.
func (x *Context) Predict(ctx context.Context, patches []patch.Patch) ([][]float64, error) {
	c, err := x.get()
	if err != nil {
		return nil, err
	}
	return PredictAll(ctx, c, patches, x.threads)
}

// TrainStep forwards to the classifier when it is Trainable.
func (x *Context) TrainStep(ctx context.Context, patches []patch.Patch, loss LossFunc) (float64, error) {
	c, err := x.get()
	if err != nil {
		return 0, err
	}
	t, ok := c.(Trainable)
	if !ok {
		return 0, ErrNotTrainable
	}
	return t.TrainStep(ctx, patches, loss)
}

// Close releases the classifier, closing it when it implements io.Closer.
// Closing twice returns ErrClosed.
func (x *Context) Close() error {
	x.mut.Lock()
	var c = x.c
	x.c = nil
	x.mut.Unlock()
	if c == nil {
		return ErrClosed
	}
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
