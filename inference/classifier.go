package inference

import "context"
import "errors"
import "fmt"

import "github.com/neurlang/bagofpatches/parallel"
import "github.com/neurlang/bagofpatches/patch"

// ErrClosed is returned by a classifier or context used after Close.
var ErrClosed = errors.New("inference: classifier is closed")

// ErrNotTrainable is returned when training a classifier without TrainStep.
var ErrNotTrainable = errors.New("inference: classifier is not trainable")

// Classifier maps one patch to a probability vector over Classes() classes.
// Predict must be safe for concurrent use.
type Classifier interface {
	Predict(p patch.Patch) ([]float64, error)
	Classes() int
}

// LossFunc evaluates the training objective over the probability vectors
// of a batch. It returns the loss value and dLoss/dprobs per patch; a nil
// row means the patch receives no gradient.
type LossFunc func(probs [][]float64) (loss float64, grad [][]float64, err error)

// Trainable is a classifier that can take one optimization step.
type Trainable interface {
	Classifier
	TrainStep(ctx context.Context, patches []patch.Patch, loss LossFunc) (float64, error)
}

// ProbabilityError reports a classifier returning a vector of the wrong
// length.
type ProbabilityError struct {
	Patch    int
	Len      int
	Expected int
}

func (e *ProbabilityError) Error() string {
	return fmt.Sprintf("patch %d: classifier returned %d probabilities, expected %d", e.Patch, e.Len, e.Expected)
}

// PredictAll predicts every patch using at most threads goroutines. The
// result is in patch order. The first error by patch order is returned.
func PredictAll(ctx context.Context, c Classifier, patches []patch.Patch, threads int) ([][]float64, error) {
	if threads <= 0 {
		threads = parallel.Threads()
	}
	var classes = c.Classes()
	var out = make([][]float64, len(patches))
	err := parallel.ForEachErr(len(patches), threads, func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		probs, err := c.Predict(patches[i])
		if err != nil {
			return err
		}
		if len(probs) != classes {
			return &ProbabilityError{Patch: i, Len: len(probs), Expected: classes}
		}
		out[i] = probs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
