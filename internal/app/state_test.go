package app

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/Kushalc123/maskselector/internal/region"
	"github.com/Kushalc123/maskselector/internal/tool"
	"github.com/Kushalc123/maskselector/pkg/geometry"
)

// stubSegmenter returns a fixed class buffer (or error) for any image.
type stubSegmenter struct {
	classes *region.ClassBuffer
	err     error
}

func (s *stubSegmenter) Segment(ctx context.Context, img image.Image) (*region.ClassBuffer, error) {
	return s.classes, s.err
}

// blockClasses builds a 10x10 buffer with a 3x3 block of class 5 at (4,4).
func blockClasses(t *testing.T) *region.ClassBuffer {
	t.Helper()
	classes := make([]int, 100)
	for y := 4; y < 7; y++ {
		for x := 4; x < 7; x++ {
			classes[y*10+x] = 5
		}
	}
	buf, err := region.NewClassBuffer(10, 10, classes)
	if err != nil {
		t.Fatalf("NewClassBuffer: %v", err)
	}
	return buf
}

func waitEvent(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

// newTestState loads a 10x10 image and waits for the stub segmentation.
func newTestState(t *testing.T) *State {
	t.Helper()
	s := NewState(&stubSegmenter{classes: blockClasses(t)})

	ready := make(chan struct{}, 1)
	s.On(EventSegmentationReady, func(interface{}) { ready <- struct{}{} })

	s.SetImage(image.NewRGBA(image.Rect(0, 0, 10, 10)), "test.png")
	waitEvent(t, ready, "segmentation")
	return s
}

func TestSetImageResetsSession(t *testing.T) {
	s := newTestState(t)

	if s.Mask() == nil || s.Mask().Width() != 10 || s.Mask().Height() != 10 {
		t.Fatal("mask must match image dimensions")
	}
	if s.Mask().Count() != 0 {
		t.Fatal("fresh session must start with an empty selection")
	}
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("fresh session must have no undo/redo")
	}
	if !s.SegmentationReady() {
		t.Fatal("segmentation result must be cached")
	}
}

func TestClickSelectToggle(t *testing.T) {
	s := newTestState(t)

	s.Tools().Tap(geometry.NewPoint2D(5, 5))
	if s.Mask().Count() != 9 {
		t.Fatalf("click select picked %d pixels, want 9", s.Mask().Count())
	}
	if !s.CanUndo() {
		t.Fatal("click select must commit history")
	}

	s.Tools().Tap(geometry.NewPoint2D(5, 5))
	if s.Mask().Count() != 0 {
		t.Fatal("second click must deselect the region")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := newTestState(t)

	s.Tools().Tap(geometry.NewPoint2D(5, 5))
	selected := s.Mask().Clone()

	if !s.Undo() {
		t.Fatal("undo must succeed after a commit")
	}
	if s.Mask().Count() != 0 {
		t.Fatal("undo must restore the empty selection")
	}
	if !s.Redo() {
		t.Fatal("redo must succeed after undo")
	}
	if !s.Mask().Equal(selected) {
		t.Fatal("redo must restore the selected region exactly")
	}
	if s.Redo() {
		t.Fatal("redo past the newest snapshot must fail")
	}
}

func TestClearInvertRefineCommitOnce(t *testing.T) {
	s := newTestState(t)

	s.Tools().Tap(geometry.NewPoint2D(5, 5))

	s.InvertSelection()
	if s.Mask().Count() != 100-9 {
		t.Fatalf("invert selected %d pixels, want %d", s.Mask().Count(), 100-9)
	}

	s.ClearSelection()
	if s.Mask().Count() != 0 {
		t.Fatal("clear must empty the selection")
	}

	// tap, invert, clear: three history entries on top of the initial state
	undos := 0
	for s.Undo() {
		undos++
	}
	if undos != 3 {
		t.Fatalf("expected 3 undo steps, got %d", undos)
	}
}

func TestRefineCommitsHistory(t *testing.T) {
	s := newTestState(t)

	// A lone pixel is noise the closing pass should remove.
	s.Mask().Set(2, 2, true)
	s.CommitHistory()

	s.RefineSelection(1)
	if s.Mask().Get(2, 2) {
		t.Fatal("refine must remove an isolated pixel")
	}
	if !s.Undo() {
		t.Fatal("refine must be undoable")
	}
	if !s.Mask().Get(2, 2) {
		t.Fatal("undo must restore the pre-refine mask")
	}
}

func TestSegmentationFailureLeavesClickInert(t *testing.T) {
	s := NewState(&stubSegmenter{err: errors.New("model offline")})

	failed := make(chan struct{}, 1)
	s.On(EventSegmentationFailed, func(interface{}) { failed <- struct{}{} })

	s.SetImage(image.NewRGBA(image.Rect(0, 0, 10, 10)), "test.png")
	waitEvent(t, failed, "segmentation failure")

	if s.SegmentationError() == nil {
		t.Fatal("failure must be recorded")
	}

	s.Tools().Tap(geometry.NewPoint2D(5, 5))
	if s.Mask().Count() != 0 {
		t.Fatal("click select must be inert without a class buffer")
	}
	if s.CanUndo() {
		t.Fatal("inert click must not commit history")
	}
}

func TestNewImageInvalidatesSegmentation(t *testing.T) {
	s := newTestState(t)
	s.Tools().Tap(geometry.NewPoint2D(5, 5))

	ready := make(chan struct{}, 1)
	s.On(EventSegmentationReady, func(interface{}) { ready <- struct{}{} })

	s.SetImage(image.NewRGBA(image.Rect(0, 0, 6, 6)), "other.png")
	if s.Mask().Width() != 6 || s.Mask().Count() != 0 {
		t.Fatal("new image must reset the mask")
	}
	if s.CanUndo() {
		t.Fatal("new image must reset history")
	}
	waitEvent(t, ready, "segmentation of second image")
}

func TestHoverPreviewDebounced(t *testing.T) {
	s := newTestState(t)

	changed := make(chan struct{}, 4)
	s.On(EventPreviewChanged, func(interface{}) { changed <- struct{}{} })

	s.HoverAt(geometry.NewPoint2D(5, 5))
	if s.Preview() != nil {
		t.Fatal("preview must not appear before the debounce interval")
	}
	waitEvent(t, changed, "preview")

	p := s.Preview()
	if p == nil || p.Count() != 9 {
		t.Fatal("preview must show the hovered region")
	}
	if s.Mask().Count() != 0 || s.CanUndo() {
		t.Fatal("preview must never touch mask or history")
	}

	s.ClearPreview()
	if s.Preview() != nil {
		t.Fatal("ClearPreview must drop the preview")
	}
}

func TestHoverIgnoredForNonClickTools(t *testing.T) {
	s := newTestState(t)
	s.SelectTool(tool.ToolBrush)

	s.HoverAt(geometry.NewPoint2D(5, 5))
	time.Sleep(PreviewDebounce + 50*time.Millisecond)
	if s.Preview() != nil {
		t.Fatal("hover preview is click-tool only")
	}
}

func TestImportMaskDimensionMismatch(t *testing.T) {
	s := newTestState(t)
	path := t.TempDir() + "/m.png"
	if err := s.ExportMask(path); err != nil {
		t.Fatalf("ExportMask: %v", err)
	}
	s.SetImage(image.NewRGBA(image.Rect(0, 0, 4, 4)), "small.png")
	if err := s.ImportMask(path); err == nil {
		t.Fatal("importing a mask with mismatched dimensions must fail")
	}
}

func TestExportImportMaskRoundTrip(t *testing.T) {
	s := newTestState(t)
	s.Tools().Tap(geometry.NewPoint2D(5, 5))
	want := s.Mask().Clone()

	path := t.TempDir() + "/mask.png"
	if err := s.ExportMask(path); err != nil {
		t.Fatalf("ExportMask: %v", err)
	}

	s.ClearSelection()
	if err := s.ImportMask(path); err != nil {
		t.Fatalf("ImportMask: %v", err)
	}
	if !s.Mask().Equal(want) {
		t.Fatal("mask export/import round trip lost pixels")
	}
}
