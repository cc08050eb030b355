package trainer

import "os"
import "path/filepath"

import "github.com/apex/log"
import "github.com/pkg/errors"

// Weights is a model that persists its parameters to a file.
type Weights interface {
	ReadCompressedWeightsFromFile(name string) error
	WriteCompressedWeightsToFile(name string) error
}

// Resume loads the weights at path when resume is set. A missing file is
// not an error: training then starts from the initial weights.
func Resume(net Weights, resume bool, path string) error {
	if !resume {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.WithField("path", path).Warn("no weights to resume from")
		return nil
	}
	if err := net.ReadCompressedWeightsFromFile(path); err != nil {
		return errors.Wrap(err, "resume")
	}
	log.WithField("path", path).Info("resumed")
	return nil
}

// Save writes the weights to path, creating its directory.
func Save(net Weights, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create model dir")
	}
	if err := net.WriteCompressedWeightsToFile(path); err != nil {
		return errors.Wrap(err, "save weights")
	}
	log.WithField("path", path).Info("saved")
	return nil
}
