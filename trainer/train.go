package trainer

import "context"

import "github.com/apex/log"
import "github.com/pkg/errors"

import "github.com/neurlang/bagofpatches/config"
import "github.com/neurlang/bagofpatches/datasets"
import "github.com/neurlang/bagofpatches/inference"
import "github.com/neurlang/bagofpatches/patch"
import "github.com/neurlang/bagofpatches/stats"

// Batch returns n images starting at start, wrapping around the end of the
// set. Training cycles over the images in order without shuffling.
func Batch(images []datasets.Image, start, n int) []datasets.Image {
	var out = make([]datasets.Image, n)
	for i := range out {
		out[i] = images[(start+i)%len(images)]
	}
	return out
}

// Train runs cfg.TrainSteps optimization steps of ImagesPerBatchTrain
// images each and records every loss in history. The context is checked
// between steps.
func Train(ctx context.Context, cfg *config.Config, model *inference.Context, images []datasets.Image, history *stats.Loss) error {
	if len(images) == 0 {
		return errors.New("no training images")
	}
	var g = cfg.Geometry()
	var first = history.Len()
	for step := 0; step < cfg.TrainSteps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var batch = Batch(images, step*cfg.ImagesPerBatchTrain, cfg.ImagesPerBatchTrain)
		patches, labels, err := patch.Extract(g, batch)
		if err != nil {
			return err
		}
		value, err := model.TrainStep(ctx, patches, Objective(labels, cfg.SpatialWeights, cfg.LossReduction()))
		if err != nil {
			return errors.Wrapf(err, "train step %d", step)
		}
		ema := history.Add(first+step+1, value)
		log.WithFields(log.Fields{
			"step": first + step + 1,
			"loss": value,
			"ema":  ema,
		}).Debug("train")
	}
	if history.Len() > 0 {
		log.WithFields(log.Fields{"steps": cfg.TrainSteps, "loss": history.Avg.String()}).Info("training done")
	}
	return nil
}
