package patch

import "fmt"

// Geometry is the sliding window over an S×S image with P×P patches and
// stride K.
type Geometry struct {
	size, patchSize, stride int
	perSide                 int
}

// NewGeometry validates the window parameters.
func NewGeometry(size, patchSize, stride int) (g Geometry, err error) {
	var reason string
	switch {
	case size <= 0:
		reason = "image size must be positive"
	case patchSize <= 0:
		reason = "patch size must be positive"
	case stride <= 0:
		reason = "stride must be positive"
	case patchSize > size:
		reason = "patch is larger than the image"
	}
	if reason != "" {
		return g, &InvalidGeometryError{Size: size, PatchSize: patchSize, Stride: stride, Reason: reason}
	}
	g.size = size
	g.patchSize = patchSize
	g.stride = stride
	g.perSide = (size-patchSize)/stride + 1
	return g, nil
}

// MustNewGeometry is NewGeometry that panics on error
func MustNewGeometry(size, patchSize, stride int) Geometry {
	g, err := NewGeometry(size, patchSize, stride)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// Size is the image side.
func (g Geometry) Size() int { return g.size }

// PatchSize is the patch side.
func (g Geometry) PatchSize() int { return g.patchSize }

// Stride is the window step.
func (g Geometry) Stride() int { return g.stride }

// PerSide is the number of window positions along one axis.
func (g Geometry) PerSide() int { return g.perSide }

// NbrPatch is the bag size, floor((S-P)/K + 1)^2.
func (g Geometry) NbrPatch() int { return g.perSide * g.perSide }

// Offset returns the top-left pixel of the i-th patch in the bag.
func (g Geometry) Offset(i int) (x, y int) {
	return (i % g.perSide) * g.stride, (i / g.perSide) * g.stride
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d image, %dx%d patches, stride %d, %d patches per image",
		g.size, g.size, g.patchSize, g.patchSize, g.stride, g.NbrPatch())
}
