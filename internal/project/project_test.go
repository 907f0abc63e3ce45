package project

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.maskproj")

	p := New("sample")
	p.SetImage(path, filepath.Join(dir, "photo.jpg"))
	p.SetMask(path, filepath.Join(dir, "out", "mask.png"))
	p.Settings.BrushRadius = 12

	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Name != "sample" || back.Settings.BrushRadius != 12 {
		t.Fatal("round trip lost fields")
	}
	if got := back.GetImagePath(path); got != filepath.Join(dir, "photo.jpg") {
		t.Fatalf("image path resolved to %q", got)
	}
	if got := back.GetMaskPath(path); got != filepath.Join(dir, "out", "mask.png") {
		t.Fatalf("mask path resolved to %q", got)
	}
}

func TestDefaultMaskPath(t *testing.T) {
	p := New("fresh")
	got := p.GetMaskPath("/work/fresh.maskproj")
	if got != "/work/fresh_mask.png" {
		t.Fatalf("default mask path %q", got)
	}
}

func TestPathsStoredRelative(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.maskproj")

	p := New("p")
	p.SetImage(path, filepath.Join(dir, "img.png"))
	if p.ImagePath != "img.png" {
		t.Fatalf("expected relative path, got %q", p.ImagePath)
	}
}
