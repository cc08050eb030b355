package patch

// Patch is a P×P sub-grid of an image, row-major.
type Patch struct {
	// Index is the position within the bag (row-major over the window grid).
	Index int
	// X, Y is the top-left pixel in the source image.
	X, Y int
	Size int
	Pix  []float64
}

// At returns the pixel at column x, row y.
func (p Patch) At(x, y int) float64 {
	return p.Pix[y*p.Size+x]
}

// Labeled is anything that carries a square image and its class.
type Labeled interface {
	Pixels() []float64
	Class() int
}

func (g Geometry) cut(pix []float64, i int) Patch {
	x, y := g.Offset(i)
	var p = Patch{
		Index: i,
		X:     x,
		Y:     y,
		Size:  g.patchSize,
		Pix:   make([]float64, g.patchSize*g.patchSize),
	}
	for row := 0; row < g.patchSize; row++ {
		var src = (y+row)*g.size + x
		copy(p.Pix[row*g.patchSize:(row+1)*g.patchSize], pix[src:src+g.patchSize])
	}
	return p
}

func (g Geometry) check(pix []float64) error {
	if len(pix) != g.size*g.size {
		return &InvalidGeometryError{Size: g.size, PatchSize: g.patchSize, Stride: g.stride,
			Reason: "image does not have size*size pixels"}
	}
	return nil
}

// Each cuts the patches of one image lazily, in bag order. Iteration stops
// early when yield returns false.
func (g Geometry) Each(pix []float64, yield func(Patch) bool) error {
	if err := g.check(pix); err != nil {
		return err
	}
	for i := 0; i < g.NbrPatch(); i++ {
		if !yield(g.cut(pix, i)) {
			return nil
		}
	}
	return nil
}

// Extract cuts every image of the batch. Patches of image n occupy
// [n*NbrPatch, (n+1)*NbrPatch) and labels replicate the image class over
// the same block.
func Extract[T Labeled](g Geometry, images []T) (patches []Patch, labels []int, err error) {
	var n = g.NbrPatch()
	patches = make([]Patch, 0, n*len(images))
	labels = make([]int, 0, n*len(images))
	for _, img := range images {
		var class = img.Class()
		err = g.Each(img.Pixels(), func(p Patch) bool {
			patches = append(patches, p)
			labels = append(labels, class)
			return true
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return patches, labels, nil
}
