// Package segment obtains per-pixel class maps from segmentation backends.
//
// The editor treats segmentation as an opaque collaborator: given an image it
// returns one class id per pixel, class 0 meaning background. Backends are a
// remote HTTP model service and a local gocv fallback; the editor calls a
// backend at most once per loaded image and caches the result.
package segment

import (
	"context"
	"errors"
	"image"

	"github.com/Kushalc123/maskselector/internal/region"
)

// ErrUnavailable indicates the segmentation backend could not be reached or
// is not ready. The click-select tool stays inert until a later attempt
// succeeds; mask and history are unaffected.
var ErrUnavailable = errors.New("segmentation backend unavailable")

// Segmenter produces a class buffer for an image. Implementations must
// return a buffer matching the image dimensions exactly.
type Segmenter interface {
	Segment(ctx context.Context, img image.Image) (*region.ClassBuffer, error)
}
