package imageio

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"

	"github.com/Kushalc123/maskselector/internal/mask"
)

// SaveMask writes the binary mask image to path, choosing the encoder from
// the file extension: .webp for lossless WebP, anything else PNG. Every
// exported pixel is pure black or pure white, fully opaque.
func SaveMask(path string, m *mask.Mask) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	img := m.ToImage()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
	default:
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	}
	return nil
}

// LoadMask reads a previously exported mask image and thresholds it back to
// a boolean mask: pixels brighter than mid-gray are selected. This keeps the
// round trip stable even if an external editor re-encoded the file.
func LoadMask(path string) (*mask.Mask, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	m := mask.New(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// 16-bit channels; average against mid-scale
			if (r+g+bl)/3 > 0x7FFF {
				m.Set(x, y, true)
			}
		}
	}
	return m, nil
}
