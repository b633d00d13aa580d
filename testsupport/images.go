// Package testsupport generates image fixtures for tests.
//
// The three patterns hash to different gradient fingerprints regardless of
// the axis the hasher compares along: Gradient increases everywhere, Flat
// never changes, and Banded increases in its top half and is flat below.
package testsupport

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	width  = 90
	height = 80
)

// Gradient brightens toward the bottom-right corner
func Gradient() image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x + y)})
		}
	}
	return img
}

// Flat is a single uniform shade
func Flat() image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	return img
}

// Banded is a gradient in the top half over a flat bottom half
func Banded() image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			shade := uint8(200)
			if y < height/2 {
				shade = uint8(x + y)
			}
			img.SetGray(x, y, color.Gray{Y: shade})
		}
	}
	return img
}

// WritePNG encodes img at path, creating parent directories
func WritePNG(tb testing.TB, path string, img image.Image) string {
	tb.Helper()
	require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(tb, err)
	defer f.Close()

	require.NoError(tb, png.Encode(f, img))
	return path
}

// WriteGIF encodes img at path using the Plan 9 palette
func WriteGIF(tb testing.TB, path string, img image.Image) string {
	tb.Helper()
	require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(tb, err)
	defer f.Close()

	require.NoError(tb, gif.Encode(f, img, &gif.Options{NumColors: len(palette.Plan9)}))
	return path
}

// WriteFile writes raw bytes at path, for non-image or corrupt fixtures
func WriteFile(tb testing.TB, path string, data []byte) string {
	tb.Helper()
	require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tb, os.WriteFile(path, data, 0o644))
	return path
}

// CopyFile duplicates src at dst byte for byte
func CopyFile(tb testing.TB, src, dst string) string {
	tb.Helper()
	data, err := os.ReadFile(src)
	require.NoError(tb, err)
	return WriteFile(tb, dst, data)
}
