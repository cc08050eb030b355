package datasets

import "math"
import "math/rand/v2"

import "github.com/pkg/errors"

// Default split parameters of the reference run.
const (
	DefaultTestFraction = 0.10
	DefaultSeed         = 42
)

// Split shuffles the images with seed and holds out ceil(testFraction*n) of
// them for testing. The same seed always yields the same split.
func Split(images []Image, testFraction float64, seed uint64) (train, test []Image, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.Errorf("test fraction %v outside (0, 1)", testFraction)
	}
	var n = len(images)
	var nTest = int(math.Ceil(testFraction * float64(n)))
	if nTest == 0 || nTest >= n {
		return nil, nil, errors.Errorf("cannot split %d images with test fraction %v", n, testFraction)
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)
	test = make([]Image, 0, nTest)
	train = make([]Image, 0, n-nTest)
	for i, j := range perm {
		if i < nTest {
			test = append(test, images[j])
		} else {
			train = append(train, images[j])
		}
	}
	return train, test, nil
}
