package segment

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestRemoteSegment(t *testing.T) {
	classes := make([]int, 16)
	classes[5] = 2

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("unexpected content type %q", ct)
		}
		json.NewEncoder(w).Encode(remoteResponse{Width: 4, Height: 4, Classes: classes})
	}))
	defer srv.Close()

	buf, err := NewRemote(srv.URL).Segment(context.Background(), testImage(4, 4))
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if buf.Width() != 4 || buf.Height() != 4 {
		t.Fatalf("unexpected dimensions %dx%d", buf.Width(), buf.Height())
	}
	if buf.At(1, 1) != 2 {
		t.Fatalf("class at (1,1) = %d, want 2", buf.At(1, 1))
	}
	if buf.At(0, 0) != 0 {
		t.Fatal("background class expected at (0,0)")
	}
}

func TestRemoteSegmentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL).Segment(context.Background(), testImage(4, 4))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRemoteSegmentConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	_, err := NewRemote(srv.URL).Segment(context.Background(), testImage(4, 4))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRemoteSegmentDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(remoteResponse{Width: 2, Height: 2, Classes: make([]int, 4)})
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL).Segment(context.Background(), testImage(4, 4))
	if err == nil {
		t.Fatal("expected error for mismatched class map dimensions")
	}
}
