package patch

import "fmt"

// InvalidGeometryError reports an image / patch / stride combination that
// yields no patches, or an image whose pixel count does not match.
type InvalidGeometryError struct {
	Size, PatchSize, Stride int
	Reason                  string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid patch geometry (image %d, patch %d, stride %d): %s",
		e.Size, e.PatchSize, e.Stride, e.Reason)
}
