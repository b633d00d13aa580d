// Package imageprocessor decodes candidate images and turns them into
// perceptual fingerprints. Decoding goes through an extension-keyed loader
// registry; hashing goes through a Hasher built from a HashConfig.
package imageprocessor

import "image"

// Loader is the interface that all image loaders must implement
type Loader interface {
	// CanLoad checks if the loader can handle the given file
	CanLoad(path string) bool

	// Load decodes the file into a pixel buffer
	Load(path string) (image.Image, error)
}
