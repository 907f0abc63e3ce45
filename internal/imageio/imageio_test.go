package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Kushalc123/maskselector/internal/mask"
)

func TestSaveLoadMaskRoundTrip(t *testing.T) {
	m := mask.New(16, 12)
	m.Set(3, 4, true)
	m.Set(10, 2, true)
	m.Set(15, 11, true)

	path := filepath.Join(t.TempDir(), "mask.png")
	if err := SaveMask(path, m); err != nil {
		t.Fatalf("SaveMask: %v", err)
	}

	back, err := LoadMask(path)
	if err != nil {
		t.Fatalf("LoadMask: %v", err)
	}
	if !back.Equal(m) {
		t.Fatal("mask round trip lost pixels")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadDecodesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	src := image.NewRGBA(image.Rect(0, 0, 5, 7))
	src.Set(2, 3, color.RGBA{R: 200, A: 255})
	if err := png.Encode(f, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 7 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestThumbnail(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 400, 200))
	small := Thumbnail(big, 100)
	if small.Bounds().Dx() != 100 || small.Bounds().Dy() != 50 {
		t.Fatalf("unexpected thumbnail size %v", small.Bounds())
	}

	tiny := image.NewRGBA(image.Rect(0, 0, 30, 40))
	same := Thumbnail(tiny, 100)
	if same.Bounds().Dx() != 30 || same.Bounds().Dy() != 40 {
		t.Fatalf("small images must pass through at full size, got %v", same.Bounds())
	}
}
