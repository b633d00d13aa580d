package scanner

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"imagededup/imageprocessor"
	"imagededup/logging"
	"imagededup/types"
)

// Extractor turns candidate paths into fingerprinted image records. It never
// modifies the files it reads.
type Extractor struct {
	loader imageprocessor.Loader
	hasher imageprocessor.Hasher
	logger *slog.Logger
}

// NewExtractor wires a loader and hasher together. A nil logger discards output.
func NewExtractor(loader imageprocessor.Loader, hasher imageprocessor.Hasher, logger *slog.Logger) *Extractor {
	return &Extractor{
		loader: loader,
		hasher: hasher,
		logger: logging.NewComponentLogger(logger, "extractor"),
	}
}

// Extract hashes every path in order. Files that fail to decode or hash are
// logged and skipped; they never abort the batch.
func (e *Extractor) Extract(paths []string) ExtractResult {
	result := ExtractResult{Records: make([]types.ImageRecord, 0, len(paths))}

	for _, path := range paths {
		fp, err := e.fingerprint(path)
		if err != nil {
			e.logger.Warn("skipping image", logging.Path(path), logging.Error(err))
			result.Skipped++
			continue
		}

		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}

		e.logger.Debug("hashed image", logging.Path(path), logging.String("fingerprint", fp.String()))
		result.Records = append(result.Records, types.ImageRecord{
			Path:        path,
			Size:        size,
			Fingerprint: fp,
		})
	}

	return result
}

func (e *Extractor) fingerprint(path string) (types.Fingerprint, error) {
	img, err := e.load(path)
	if err != nil {
		return 0, err
	}

	hash, err := e.hasher.Hash(img)
	if err != nil {
		return 0, fmt.Errorf("cannot compute perceptual hash for %s: %w", path, err)
	}

	return imageprocessor.FingerprintFromBytes(hash)
}

// load recovers from decoder panics so one malformed file cannot take down
// the directory's run
func (e *Extractor) load(path string) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("panic during image loading: %v", r)
		}
	}()

	img, err = e.loader.Load(path)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("image is empty after loading: %s", path)
	}
	return img, nil
}
