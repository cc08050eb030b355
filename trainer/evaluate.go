package trainer

import "context"
import "fmt"

import "github.com/apex/log"
import "github.com/pkg/errors"

import "github.com/neurlang/bagofpatches/bag"
import "github.com/neurlang/bagofpatches/config"
import "github.com/neurlang/bagofpatches/datasets"
import "github.com/neurlang/bagofpatches/inference"
import "github.com/neurlang/bagofpatches/metrics"
import "github.com/neurlang/bagofpatches/parallel"
import "github.com/neurlang/bagofpatches/patch"

// Evaluation is the outcome of Evaluate.
type Evaluation struct {
	Report metrics.Report

	// Predicted is the image level prediction of every evaluated image.
	Predicted []int

	// Patches holds the DMaxPatch most discriminative patches per image.
	Patches [][]int

	// Digest fingerprints Predicted.
	Digest [32]byte
}

// EvalBatches is the number of full test batches evaluated: the trailing
// partial batch is dropped, and cfg.EvalBatches > 0 caps the count.
func EvalBatches(cfg *config.Config, images int) int {
	if cfg.ImagesPerBatchTest < 1 {
		return 0
	}
	var n = images / cfg.ImagesPerBatchTest
	if cfg.EvalBatches > 0 && cfg.EvalBatches < n {
		n = cfg.EvalBatches
	}
	return n
}

// Evaluate predicts the test images batch by batch, decodes every bag by
// majority vote and accumulates the confusion counts of both polarities.
// Each batch is fully processed before the next one starts.
func Evaluate(ctx context.Context, cfg *config.Config, model *inference.Context, images []datasets.Image) (e Evaluation, err error) {
	if cfg.ImagesPerBatchTest < 1 {
		return e, errors.Errorf("images_per_batch_test is %d, need at least 1", cfg.ImagesPerBatchTest)
	}
	var batches = EvalBatches(cfg, len(images))
	if batches == 0 {
		return e, errors.Errorf("%d test images do not fill one batch of %d", len(images), cfg.ImagesPerBatchTest)
	}
	var per = cfg.ImagesPerBatchTest
	var g = cfg.Geometry()
	var digest = parallel.NewDigest(batches * per)
	var acc metrics.Accumulator
	for b := 0; b < batches; b++ {
		patches, labels, err := patch.Extract(g, images[b*per:(b+1)*per])
		if err != nil {
			return e, err
		}
		probs, err := model.Predict(ctx, patches)
		if err != nil {
			return e, errors.Wrapf(err, "evaluation batch %d", b)
		}
		d, err := bag.Decode(probs, cfg.SpatialWeights, cfg.DMaxPatch)
		if err != nil {
			return e, err
		}
		truth, err := bag.ReduceLabels(labels, g.NbrPatch())
		if err != nil {
			return e, err
		}
		res, err := acc.Add(truth, d.Predicted)
		if err != nil {
			return e, err
		}
		for i, p := range d.Predicted {
			digest.MustPut(b*per+i, uint16(p))
		}
		e.Predicted = append(e.Predicted, d.Predicted...)
		e.Patches = append(e.Patches, d.Patches...)
		log.WithFields(log.Fields{
			"batch":   b,
			"tp1":     res.First.TP,
			"fp1":     res.First.FP,
			"fn1":     res.First.FN,
			"tp2":     res.Second.TP,
			"fp2":     res.Second.FP,
			"fn2":     res.Second.FN,
			"correct": fmt.Sprintf("%d/%d", res.Correct, res.Bags),
			"patches": fmt.Sprint(d.Patches),
		}).Info("evaluate")
	}
	e.Report = acc.Report()
	e.Digest = digest.Sum()
	log.WithFields(log.Fields{
		"f1":     e.Report.TotalF1,
		"digest": fmt.Sprintf("%x", e.Digest[:8]),
	}).Info("evaluation done")
	return e, nil
}
