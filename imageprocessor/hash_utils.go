package imageprocessor

import (
	"encoding/binary"
	"fmt"
	"image"
	"strings"

	"imagededup/types"

	"github.com/corona10/goimagehash"
)

// Algorithm selects how the perceptual hash compares pixels
type Algorithm string

const (
	// AlgorithmGradient compares horizontally adjacent pixels (difference hash)
	AlgorithmGradient Algorithm = "gradient"
	// AlgorithmMean compares each pixel against the mean (average hash)
	AlgorithmMean Algorithm = "mean"
	// AlgorithmDCT thresholds low DCT frequencies against their median
	AlgorithmDCT Algorithm = "dct"
)

// FingerprintBytes is the width of every hash this package produces
const FingerprintBytes = 8

// HashConfig configures the perceptual hasher. The resize filter is fixed
// to bilinear (triangle) by the hashing library.
type HashConfig struct {
	Algorithm Algorithm
	Bits      int
}

// DefaultHashConfig is a 64-bit gradient hash
func DefaultHashConfig() HashConfig {
	return HashConfig{Algorithm: AlgorithmGradient, Bits: FingerprintBytes * 8}
}

// ParseAlgorithm maps a name onto a supported Algorithm
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(name))); alg {
	case AlgorithmGradient, AlgorithmMean, AlgorithmDCT:
		return alg, nil
	case "":
		return AlgorithmGradient, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", name)
	}
}

// Hasher produces a fixed-length perceptual hash for a decoded image
type Hasher interface {
	Hash(img image.Image) ([]byte, error)
}

type perceptualHasher struct {
	compute func(image.Image) (*goimagehash.ImageHash, error)
}

// NewHasher builds a Hasher for cfg
func NewHasher(cfg HashConfig) (Hasher, error) {
	if cfg.Bits != 0 && cfg.Bits != FingerprintBytes*8 {
		return nil, fmt.Errorf("unsupported hash width %d bits", cfg.Bits)
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = AlgorithmGradient
	}

	switch alg {
	case AlgorithmGradient:
		return &perceptualHasher{compute: goimagehash.DifferenceHash}, nil
	case AlgorithmMean:
		return &perceptualHasher{compute: goimagehash.AverageHash}, nil
	case AlgorithmDCT:
		return &perceptualHasher{compute: goimagehash.PerceptionHash}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", alg)
	}
}

// Hash returns the hash bytes, least significant byte first
func (h *perceptualHasher) Hash(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("cannot compute hash for empty image")
	}

	hash, err := h.compute(img)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, FingerprintBytes)
	binary.LittleEndian.PutUint64(buf, hash.GetHash())
	return buf, nil
}

// FingerprintFromBytes folds hash bytes into a Fingerprint, placing byte i at
// bit offset 8*i. Inputs wider than 64 bits are rejected rather than truncated.
func FingerprintFromBytes(hash []byte) (types.Fingerprint, error) {
	if len(hash) > FingerprintBytes {
		return 0, fmt.Errorf("hash of %d bytes does not fit a 64-bit fingerprint", len(hash))
	}

	var fp uint64
	for idx, b := range hash {
		fp |= uint64(b) << (8 * idx)
	}
	return types.Fingerprint(fp), nil
}
