package imageprocessor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// StandardLoader decodes PNG, JPEG and GIF files with pure Go decoders
type StandardLoader struct {
	autoOrient bool
}

// NewStandardLoader creates a new loader for standard image formats
func NewStandardLoader(opts LoaderOptions) *StandardLoader {
	return &StandardLoader{autoOrient: opts.AutoOrient}
}

// CanLoad reports whether the path has a format this loader understands
func (l *StandardLoader) CanLoad(path string) bool {
	return GetFileFormat(path) != FormatUnknown
}

// Load decodes the file at path
func (l *StandardLoader) Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(l.autoOrient))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}
