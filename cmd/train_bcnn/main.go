package main

import "context"
import "errors"
import "flag"
import "fmt"
import "os"
import "os/signal"
import "path/filepath"

import "github.com/apex/log"
import "github.com/apex/log/handlers/cli"

import "github.com/neurlang/bagofpatches/config"
import "github.com/neurlang/bagofpatches/datasets"
import "github.com/neurlang/bagofpatches/inference"
import "github.com/neurlang/bagofpatches/net/feedforward"
import "github.com/neurlang/bagofpatches/parallel"
import "github.com/neurlang/bagofpatches/stats"
import "github.com/neurlang/bagofpatches/trainer"

func main() {
	conf := flag.String("conf", "", "run config yaml file, reference run when empty")
	stride := flag.Int("stride", 0, "override the patch stride")
	patchSize := flag.Int("patch", 0, "override the patch size")
	steps := flag.Int("steps", -1, "override the number of training steps")
	rate := flag.Float64("lr", 0, "override the learning rate")
	modelDir := flag.String("model", "", "override the model directory")
	toy := flag.Int("toy", 0, "train on n generated toy images per class instead of the sources")
	plotFile := flag.String("plot", "", "write the loss curve to this .svg or .png file")
	resume := flag.Bool("resume", false, "resume training")
	verbose := flag.Bool("v", false, "log every training step")
	pgo := flag.Bool("pgo", false, "enable pgo")
	flag.Parse()

	log.SetHandler(cli.Default)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	var cfg = config.Default()
	if *conf != "" {
		var err error
		if cfg, err = config.Load(*conf); err != nil {
			log.WithError(err).Fatal("load config failed")
		}
	}
	if *stride > 0 {
		cfg.Stride = *stride
	}
	if *patchSize > 0 {
		cfg.PatchSize = *patchSize
	}
	if *steps >= 0 {
		cfg.TrainSteps = *steps
	}
	if *rate > 0 {
		cfg.LearningRate = *rate
	}
	if *modelDir != "" {
		cfg.ModelDir = *modelDir
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	var images []datasets.Image
	if *toy > 0 {
		for class := 0; class < cfg.NbrClass; class++ {
			images = append(images, datasets.Toy(*toy, cfg.ImageSize, class, cfg.Seed)...)
		}
	} else {
		var err error
		if images, err = datasets.LoadSources(cfg.Sources); err != nil {
			log.WithError(err).Fatal("load sources failed")
		}
	}
	if len(images) > 0 && images[0].Size != cfg.ImageSize {
		log.Fatalf("images are %dx%d, config says image_size %d", images[0].Size, images[0].Size, cfg.ImageSize)
	}
	train, test, err := datasets.Split(images, cfg.TestFraction, cfg.Seed)
	if err != nil {
		log.WithError(err).Fatal("split failed")
	}

	net, err := feedforward.NewBCNN(cfg.PatchSize, cfg.NbrClass, cfg.Dropout, cfg.Seed)
	if err != nil {
		log.WithError(err).Fatal("build network failed")
	}
	net.LearningRate = cfg.LearningRate
	net.Threads = cfg.Threads
	if err := trainer.Resume(net, *resume, cfg.WeightsPath()); err != nil {
		log.WithError(err).Fatal("resume failed")
	}
	model, err := inference.Open(net, cfg.Threads)
	if err != nil {
		log.WithError(err).Fatal("open model failed")
	}
	defer model.Close()

	log.WithFields(log.Fields{
		"cpu":      parallel.Describe(),
		"geometry": cfg.Geometry().String(),
		"params":   net.Len(),
		"train":    len(train),
		"test":     len(test),
		"model":    cfg.ModelDir,
	}).Info("bcnn")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var stopProfile = func() {}
	if *pgo {
		stopProfile = startProfile("default.pgo")
	}

	var history stats.Loss
	err = trainer.Train(ctx, cfg, model, train, &history)
	// profile only the training, and finish it before any fatal exit
	stopProfile()
	if errors.Is(err, context.Canceled) {
		log.Warn("training interrupted, saving what was learned")
	} else if err != nil {
		log.WithError(err).Fatal("training failed")
	}
	stop()

	if err := trainer.Save(net, cfg.WeightsPath()); err != nil {
		log.WithError(err).Fatal("save failed")
	}
	if err := cfg.Save(filepath.Join(cfg.ModelDir, "config.yaml")); err != nil {
		log.WithError(err).Fatal("save config failed")
	}
	if *plotFile != "" && history.Len() > 0 {
		if err := stats.PlotLoss(&history, *plotFile); err != nil {
			log.WithError(err).Error("plot failed")
		}
	}

	e, err := trainer.Evaluate(context.Background(), cfg, model, test)
	if err != nil {
		log.WithError(err).Fatal("evaluation failed")
	}
	fmt.Print(e.Report.String())
}
