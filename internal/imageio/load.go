// Package imageio loads source images and writes mask exports.
package imageio

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Load reads an image from disk. EXIF orientation is applied so mask
// coordinates always refer to the upright pixels the user sees.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// LoadReader decodes an image from a reader (drag-and-drop payloads, URI
// streams). Format support follows the registered decoders.
func LoadReader(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Thumbnail returns a copy of img scaled to fit within maxDim on its longer
// side, preserving aspect ratio. Images already small enough are returned
// scaled 1:1.
func Thumbnail(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return imaging.Clone(img)
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}
