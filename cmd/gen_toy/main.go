package main

import "flag"
import "fmt"
import "os"
import "path/filepath"

import "github.com/apex/log"
import "github.com/apex/log/handlers/cli"

import "github.com/neurlang/bagofpatches/config"
import "github.com/neurlang/bagofpatches/datasets"

func main() {
	dir := flag.String("dir", "toy", "output directory")
	n := flag.Int("n", 100, "images per class")
	size := flag.Int("size", 60, "image size")
	classes := flag.Int("classes", 2, "number of image classes written")
	seed := flag.Uint64("seed", datasets.DefaultSeed, "random seed")
	flag.Parse()

	log.SetHandler(cli.Default)

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.WithError(err).Fatal("create output dir failed")
	}
	var cfg = config.Default()
	cfg.ImageSize = *size
	if *classes > cfg.NbrClass {
		cfg.NbrClass = *classes
	}
	cfg.ModelDir = filepath.Join(*dir, "model")
	cfg.Seed = *seed
	for class := 0; class < *classes; class++ {
		var path = filepath.Join(*dir, fmt.Sprintf("class%d.idx.gz", class))
		if err := datasets.SaveIDX(path, datasets.Toy(*n, *size, class, *seed)); err != nil {
			log.WithError(err).Fatal("write images failed")
		}
		cfg.Sources = append(cfg.Sources, datasets.Source{Path: path, Label: class})
		log.WithFields(log.Fields{"path": path, "class": class, "images": *n}).Info("written")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	var name = filepath.Join(*dir, "config.yaml")
	if err := cfg.Save(name); err != nil {
		log.WithError(err).Fatal("write config failed")
	}
	log.WithField("path", name).Info("written")
}
