package segment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/Kushalc123/maskselector/internal/region"
)

// remoteResponse is the JSON payload returned by the model service.
type remoteResponse struct {
	Width   int   `json:"width"`
	Height  int   `json:"height"`
	Classes []int `json:"classes"`
}

// Remote calls an HTTP segmentation model service: the image is POSTed as
// PNG and the service answers with a JSON class grid.
type Remote struct {
	endpoint string
	client   *http.Client
}

// NewRemote creates a remote segmenter for the given endpoint URL.
func NewRemote(endpoint string) *Remote {
	return &Remote{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Segment sends the image to the model service and decodes the class buffer.
// Transport failures wrap ErrUnavailable so callers can treat them as "model
// not ready" rather than data corruption.
func (r *Remote) Segment(ctx context.Context, img image.Image) (*region.ClassBuffer, error) {
	var body bytes.Buffer
	if err := png.Encode(&body, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: model service returned %s", ErrUnavailable, resp.Status)
	}

	var decoded remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	bounds := img.Bounds()
	if decoded.Width != bounds.Dx() || decoded.Height != bounds.Dy() {
		return nil, fmt.Errorf("model returned %dx%d class map for %dx%d image",
			decoded.Width, decoded.Height, bounds.Dx(), bounds.Dy())
	}

	return region.NewClassBuffer(decoded.Width, decoded.Height, decoded.Classes)
}
