package imageprocessor

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
)

// preferredLoader, when set by a build-tagged file, replaces the standard
// loader for every supported extension.
var preferredLoader func(opts LoaderOptions) Loader

// LoaderOptions tunes how images are decoded
type LoaderOptions struct {
	// AutoOrient applies the EXIF orientation tag before hashing
	AutoOrient bool
}

// LoaderRegistry maintains a registry of image loaders
type LoaderRegistry struct {
	loaders       map[string]Loader
	defaultLoader Loader
	mutex         sync.RWMutex
}

// NewLoaderRegistry creates a registry with the standard loaders registered
func NewLoaderRegistry(opts LoaderOptions) *LoaderRegistry {
	registry := &LoaderRegistry{
		loaders: make(map[string]Loader),
	}

	standardLoader := NewStandardLoader(opts)
	for _, ext := range SupportedExtensions() {
		registry.RegisterLoader(ext, standardLoader)
	}
	registry.defaultLoader = standardLoader

	if preferredLoader != nil {
		loader := preferredLoader(opts)
		for _, ext := range SupportedExtensions() {
			registry.RegisterLoader(ext, loader)
		}
	}

	return registry
}

// RegisterLoader registers a new loader for a specific file extension
func (r *LoaderRegistry) RegisterLoader(ext string, loader Loader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.loaders[strings.ToLower(ext)] = loader
}

// GetLoader returns the appropriate loader for the given path
func (r *LoaderRegistry) GetLoader(path string) Loader {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	if loader, ok := r.loaders[ext]; ok {
		return loader
	}

	return r.defaultLoader
}

// CanLoad checks if any registered loader handles the given file
func (r *LoaderRegistry) CanLoad(path string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, ok := r.loaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load decodes an image using the appropriate registered loader
func (r *LoaderRegistry) Load(path string) (image.Image, error) {
	loader := r.GetLoader(path)
	if loader == nil {
		return nil, fmt.Errorf("no suitable loader found for: %s", path)
	}
	return loader.Load(path)
}
