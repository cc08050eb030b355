package datasets

// Image is a Size×Size grid of intensities, row-major, with its class.
type Image struct {
	Size  int
	Pix   []float64
	Label int
}

// Pixels implements patch.Labeled
func (i Image) Pixels() []float64 {
	return i.Pix
}

// Class implements patch.Labeled
func (i Image) Class() int {
	return i.Label
}
