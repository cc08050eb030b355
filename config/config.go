// Package config holds the run configuration of the bag of patches
// experiment, loaded from YAML, and the geometry derived from it.
package config

import "fmt"
import "math"
import "os"
import "path/filepath"

import "github.com/google/uuid"
import "github.com/pkg/errors"
import "gopkg.in/yaml.v2"

import "github.com/neurlang/bagofpatches/bag"
import "github.com/neurlang/bagofpatches/datasets"
import "github.com/neurlang/bagofpatches/patch"

// Config is one experiment run.
type Config struct {
	Stride              int       `json:"stride" yaml:"stride"`
	PatchSize           int       `json:"patch_size" yaml:"patch_size"`
	ImageSize           int       `json:"image_size" yaml:"image_size"`
	NbrClass            int       `json:"nbr_class" yaml:"nbr_class"`
	ImagesPerBatchTrain int       `json:"images_per_batch_train" yaml:"images_per_batch_train"`
	ImagesPerBatchTest  int       `json:"images_per_batch_test" yaml:"images_per_batch_test"`
	SpatialWeights      []float64 `json:"spatial_weights,omitempty" yaml:"spatial_weights,omitempty"`
	DMaxPatch           int       `json:"d_max_patch" yaml:"d_max_patch"`
	LearningRate        float64   `json:"learning_rate" yaml:"learning_rate"`
	TrainSteps          int       `json:"train_steps" yaml:"train_steps"`
	EvalBatches         int       `json:"eval_batches" yaml:"eval_batches"`
	Reduction           string    `json:"reduction" yaml:"reduction"`
	Dropout             float64   `json:"dropout" yaml:"dropout"`
	Seed                uint64    `json:"seed" yaml:"seed"`
	TestFraction        float64   `json:"test_fraction" yaml:"test_fraction"`
	Threads             int       `json:"threads" yaml:"threads"`
	ModelDir            string    `json:"model_dir" yaml:"model_dir"`

	Sources []datasets.Source `json:"sources" yaml:"sources"`

	geometry  patch.Geometry
	reduction bag.Reduction
}

// Default returns the reference run.
func Default() *Config {
	return &Config{
		Stride:              6,
		PatchSize:           30,
		ImageSize:           60,
		NbrClass:            3,
		ImagesPerBatchTrain: 15,
		ImagesPerBatchTest:  15,
		DMaxPatch:           3,
		LearningRate:        0.001,
		TrainSteps:          200,
		EvalBatches:         5,
		Reduction:           "mean",
		Dropout:             0.5,
		Seed:                datasets.DefaultSeed,
		TestFraction:        datasets.DefaultTestFraction,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	cfgf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file failed")
	}
	var cfg = Default()
	if err = yaml.Unmarshal(cfgf, cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshal config file '%s' failed", path)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write config file")
}

// ValidationError is a configuration value out of range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the configuration and derives the geometry. Missing
// spatial weights become uniform and an empty model_dir gets a fresh run
// directory under the system temp dir.
func (c *Config) Validate() error {
	g, err := patch.NewGeometry(c.ImageSize, c.PatchSize, c.Stride)
	if err != nil {
		return err
	}
	if c.NbrClass < 2 {
		return invalid("nbr_class", "is %d, need at least 2", c.NbrClass)
	}
	if c.ImagesPerBatchTrain < 1 {
		return invalid("images_per_batch_train", "is %d, need at least 1", c.ImagesPerBatchTrain)
	}
	if c.ImagesPerBatchTest < 1 {
		return invalid("images_per_batch_test", "is %d, need at least 1", c.ImagesPerBatchTest)
	}
	if c.SpatialWeights == nil {
		c.SpatialWeights = bag.UniformWeights(g.NbrPatch())
	}
	if len(c.SpatialWeights) != g.NbrPatch() {
		return invalid("spatial_weights", "has %d values, geometry has %d patches", len(c.SpatialWeights), g.NbrPatch())
	}
	for i, w := range c.SpatialWeights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return invalid("spatial_weights", "value %d is %v, must be finite and not negative", i, w)
		}
	}
	if c.DMaxPatch < 1 || c.DMaxPatch > g.NbrPatch() {
		return invalid("d_max_patch", "is %d, expected 1..%d", c.DMaxPatch, g.NbrPatch())
	}
	if c.LearningRate <= 0 {
		return invalid("learning_rate", "is %v, must be positive", c.LearningRate)
	}
	if c.TrainSteps < 0 || c.EvalBatches < 0 {
		return invalid("train_steps", "and eval_batches must not be negative")
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return invalid("dropout", "is %v, expected [0, 1)", c.Dropout)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return invalid("test_fraction", "is %v, expected (0, 1)", c.TestFraction)
	}
	r, err := bag.ParseReduction(c.Reduction)
	if err != nil {
		return invalid("reduction", "%s", err)
	}
	for i, s := range c.Sources {
		if s.Label < 0 || s.Label >= c.NbrClass {
			return invalid("sources", "entry %d has label %d outside 0..%d", i, s.Label, c.NbrClass-1)
		}
	}
	if c.ModelDir == "" {
		c.ModelDir = filepath.Join(os.TempDir(), "bcnn-"+uuid.NewString())
	}
	c.geometry = g
	c.reduction = r
	return nil
}

// Geometry is the patch geometry derived by Validate.
func (c *Config) Geometry() patch.Geometry {
	return c.geometry
}

// LossReduction is the parsed reduction derived by Validate.
func (c *Config) LossReduction() bag.Reduction {
	return c.reduction
}

// NbrPatch is the bag size.
func (c *Config) NbrPatch() int {
	return c.geometry.NbrPatch()
}

// BatchTrain is the number of patches in a training batch.
func (c *Config) BatchTrain() int {
	return c.ImagesPerBatchTrain * c.NbrPatch()
}

// BatchTest is the number of patches in an evaluation batch.
func (c *Config) BatchTest() int {
	return c.ImagesPerBatchTest * c.NbrPatch()
}

// WeightsPath is where the model weights are stored.
func (c *Config) WeightsPath() string {
	return filepath.Join(c.ModelDir, "model.json.lzw")
}
