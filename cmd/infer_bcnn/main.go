package main

import "context"
import "flag"
import "fmt"
import "os"
import "os/signal"

import "github.com/apex/log"
import "github.com/apex/log/handlers/cli"

import "github.com/neurlang/bagofpatches/config"
import "github.com/neurlang/bagofpatches/datasets"
import "github.com/neurlang/bagofpatches/inference"
import "github.com/neurlang/bagofpatches/net/feedforward"
import "github.com/neurlang/bagofpatches/trainer"

func main() {
	conf := flag.String("conf", "", "run config yaml file, usually <model_dir>/config.yaml")
	weights := flag.String("weights", "", "model weights .json.lzw file, <model_dir>/model.json.lzw when empty")
	idx := flag.String("idx", "", "evaluate the images of this idx file instead of the test split")
	label := flag.Int("label", 0, "class of the images in -idx")
	all := flag.Bool("all", false, "evaluate every full batch instead of eval_batches")
	verbose := flag.Bool("v", false, "print the prediction of every image")
	flag.Parse()

	log.SetHandler(cli.Default)

	var cfg = config.Default()
	if *conf != "" {
		var err error
		if cfg, err = config.Load(*conf); err != nil {
			log.WithError(err).Fatal("load config failed")
		}
	}
	if *all {
		cfg.EvalBatches = 0
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	if *weights == "" {
		*weights = cfg.WeightsPath()
	}

	var images []datasets.Image
	var err error
	if *idx != "" {
		images, err = datasets.LoadIDX(*idx, *label)
	} else {
		images, err = datasets.LoadSources(cfg.Sources)
		if err == nil {
			_, images, err = datasets.Split(images, cfg.TestFraction, cfg.Seed)
		}
	}
	if err != nil {
		log.WithError(err).Fatal("load images failed")
	}

	net, err := feedforward.NewBCNN(cfg.PatchSize, cfg.NbrClass, cfg.Dropout, cfg.Seed)
	if err != nil {
		log.WithError(err).Fatal("build network failed")
	}
	if err := net.ReadCompressedWeightsFromFile(*weights); err != nil {
		log.WithError(err).Fatal("load weights failed")
	}
	model, err := inference.Open(net, cfg.Threads)
	if err != nil {
		log.WithError(err).Fatal("open model failed")
	}
	defer model.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e, err := trainer.Evaluate(ctx, cfg, model, images)
	if err != nil {
		log.WithError(err).Fatal("evaluation failed")
	}
	if *verbose {
		for i, p := range e.Predicted {
			fmt.Printf("image %d label %d predicted %d patches %v\n", i, images[i].Label, p, e.Patches[i])
		}
	}
	fmt.Print(e.Report.String())
	fmt.Printf("digest     %x\n", e.Digest)
}
