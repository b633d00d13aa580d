//go:build gocv

package imageprocessor

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func init() {
	preferredLoader = func(LoaderOptions) Loader { return NewCVLoader() }
}

// CVLoader decodes images through OpenCV. OpenCV applies EXIF orientation
// itself, so LoaderOptions.AutoOrient has no effect here.
type CVLoader struct{}

// NewCVLoader creates a loader backed by gocv
func NewCVLoader() *CVLoader {
	return &CVLoader{}
}

// CanLoad reports whether the path has a format this loader understands
func (l *CVLoader) CanLoad(path string) bool {
	return GetFileFormat(path) != FormatUnknown
}

// Load decodes the file at path into a Go image
func (l *CVLoader) Load(path string) (image.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("failed to load image with OpenCV: %s", path)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to image: %w", path, err)
	}
	return img, nil
}
