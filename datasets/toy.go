package datasets

import "math/rand/v2"

// Toy parameters.
const (
	ToyNoise = 0.2
	ToyBlob  = 6
)

// Toy generates n noisy images of the given class. Class 0 is background
// noise only; class c > 0 additionally carries c bright ToyBlob×ToyBlob
// squares at random positions, so only a few patches of an image are
// discriminative.
func Toy(n, size, class int, seed uint64) []Image {
	rng := rand.New(rand.NewPCG(seed, uint64(class)))
	var out = make([]Image, n)
	for i := range out {
		var img = Image{Size: size, Label: class, Pix: make([]float64, size*size)}
		for j := range img.Pix {
			img.Pix[j] = ToyNoise * rng.Float64()
		}
		if size >= ToyBlob {
			for b := 0; b < class; b++ {
				x, y := rng.IntN(size-ToyBlob+1), rng.IntN(size-ToyBlob+1)
				for row := y; row < y+ToyBlob; row++ {
					for col := x; col < x+ToyBlob; col++ {
						img.Pix[row*size+col] = 0.8 + 0.2*rng.Float64()
					}
				}
			}
		}
		out[i] = img
	}
	return out
}
