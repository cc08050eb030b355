package datasets

import "crypto/sha256"
import "fmt"
import "io"
import "os"

import "github.com/pkg/errors"

// Source is one IDX file whose images all belong to Label.
type Source struct {
	Path  string `yaml:"path"`
	Label int    `yaml:"label"`

	// SHA256 is the optional hex digest of the file.
	SHA256 string `yaml:"sha256,omitempty"`
}

func (s Source) verify() error {
	if s.SHA256 == "" {
		return nil
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return errors.Wrapf(err, "cannot open file to check file '%s'", s.Path)
	}
	defer f.Close()
	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return errors.Wrapf(err, "cannot hash file '%s'", s.Path)
	}
	if sum := fmt.Sprintf("%x", h.Sum(nil)); sum != s.SHA256 {
		return errors.Errorf("file hash for file '%s' is %s, expected %s", s.Path, sum, s.SHA256)
	}
	return nil
}

// LoadSources loads every source and concatenates the images in the order
// given. All images must share one size.
func LoadSources(sources []Source) ([]Image, error) {
	var out []Image
	for _, s := range sources {
		if err := s.verify(); err != nil {
			return nil, err
		}
		images, err := LoadIDX(s.Path, s.Label)
		if err != nil {
			return nil, err
		}
		for _, img := range images {
			if len(out) > 0 && img.Size != out[0].Size {
				return nil, errors.Errorf("'%s' has %dx%d images, previous sources are %dx%d",
					s.Path, img.Size, img.Size, out[0].Size, out[0].Size)
			}
			out = append(out, img)
		}
	}
	return out, nil
}
