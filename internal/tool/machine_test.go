package tool

import (
	"testing"

	"github.com/Kushalc123/maskselector/internal/mask"
	"github.com/Kushalc123/maskselector/internal/region"
	"github.com/Kushalc123/maskselector/pkg/geometry"
)

// fakeSurface is a minimal Surface counting history commits.
type fakeSurface struct {
	mask    *mask.Mask
	classes *region.ClassBuffer
	commits int
}

func (f *fakeSurface) Mask() *mask.Mask                { return f.mask }
func (f *fakeSurface) Classes() *region.ClassBuffer    { return f.classes }
func (f *fakeSurface) CommitHistory()                  { f.commits++ }

// blockSurface returns a surface with a 10x10 mask and a 3x3 block of
// class 5 at rows 2-4, cols 2-4.
func blockSurface(t *testing.T) *fakeSurface {
	t.Helper()
	classes := make([]int, 100)
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			classes[y*10+x] = 5
		}
	}
	buf, err := region.NewClassBuffer(10, 10, classes)
	if err != nil {
		t.Fatalf("NewClassBuffer: %v", err)
	}
	return &fakeSurface{mask: mask.New(10, 10), classes: buf}
}

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestClickSelectToggle(t *testing.T) {
	s := blockSurface(t)
	m := NewMachine(s)

	m.Tap(pt(3, 3))
	if s.mask.Count() != 9 {
		t.Fatalf("first click must select the 9-pixel block, got %d", s.mask.Count())
	}
	if s.commits != 1 {
		t.Fatalf("expected 1 commit, got %d", s.commits)
	}

	m.Tap(pt(3, 3))
	if s.mask.Count() != 0 {
		t.Fatalf("second click must toggle the block off, got %d", s.mask.Count())
	}
	if s.commits != 2 {
		t.Fatalf("expected 2 commits, got %d", s.commits)
	}
}

func TestClickOnBackgroundIsNoop(t *testing.T) {
	s := blockSurface(t)
	m := NewMachine(s)

	m.Tap(pt(0, 0))
	if s.mask.Count() != 0 || s.commits != 0 {
		t.Fatal("background click must not mutate or commit")
	}
}

func TestClickWithoutClassesIsInert(t *testing.T) {
	s := blockSurface(t)
	s.classes = nil
	m := NewMachine(s)

	m.Tap(pt(3, 3))
	if s.mask.Count() != 0 || s.commits != 0 {
		t.Fatal("click tool must be inert without a class buffer")
	}
}

func TestBrushStrokeSingleCommit(t *testing.T) {
	s := blockSurface(t)
	m := NewMachine(s)
	m.SetTool(ToolBrush)
	m.SetBrushRadius(2)

	m.PointerDown(pt(0, 0))
	m.PointerMove(pt(0, 2))
	m.PointerMove(pt(0, 4))
	m.PointerUp(pt(0, 5))

	if s.commits != 1 {
		t.Fatalf("a whole stroke must commit exactly once, got %d", s.commits)
	}
	from, to := pt(0, 0), pt(0, 5)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			p := pt(float64(x), float64(y))
			want := geometry.SegmentDistance(p, from, to) <= 2
			if s.mask.Get(x, y) != want {
				t.Fatalf("pixel (%d,%d): got %v want %v", x, y, s.mask.Get(x, y), want)
			}
		}
	}
}

func TestEraserSubtracts(t *testing.T) {
	s := blockSurface(t)
	s.mask.SelectAll()
	m := NewMachine(s)
	m.SetTool(ToolErase)
	m.SetBrushRadius(1)

	m.PointerDown(pt(5, 5))
	m.PointerUp(pt(5, 5))

	if s.mask.Get(5, 5) {
		t.Fatal("eraser must unselect pixels")
	}
	if !s.mask.Get(0, 0) {
		t.Fatal("eraser must only affect the stroke area")
	}
	if s.commits != 1 {
		t.Fatalf("expected 1 commit, got %d", s.commits)
	}
}

func TestBrushTapPaintsDot(t *testing.T) {
	s := blockSurface(t)
	m := NewMachine(s)
	m.SetTool(ToolBrush)
	m.SetBrushRadius(1)

	m.Tap(pt(7, 7))
	if !s.mask.Get(7, 7) {
		t.Fatal("brush tap must paint a dot")
	}
	if s.commits != 1 {
		t.Fatalf("expected 1 commit, got %d", s.commits)
	}
}

func TestLassoFill(t *testing.T) {
	s := blockSurface(t)
	m := NewMachine(s)
	m.SetTool(ToolLasso)

	for _, p := range []geometry.Point2D{pt(1, 1), pt(1, 5), pt(5, 5), pt(5, 1)} {
		m.Tap(p)
	}
	if len(m.Polygon()) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(m.Polygon()))
	}
	m.CompletePolygon()

	if s.commits != 1 {
		t.Fatalf("expected 1 commit, got %d", s.commits)
	}
	if m.Polygon() != nil {
		t.Fatal("completion must clear the polygon")
	}
	for y := 1; y <= 5; y++ {
		for x := 1; x <= 5; x++ {
			if !s.mask.Get(x, y) {
				t.Fatalf("pixel (%d,%d) must be filled", x, y)
			}
		}
	}
}

func TestLassoEraseFill(t *testing.T) {
	s := blockSurface(t)
	s.mask.SelectAll()
	m := NewMachine(s)
	m.SetTool(ToolLassoErase)

	for _, p := range []geometry.Point2D{pt(1, 1), pt(1, 5), pt(5, 5), pt(5, 1)} {
		m.Tap(p)
	}
	m.CompletePolygon()

	if s.mask.Get(3, 3) {
		t.Fatal("lasso eraser must unselect the interior")
	}
	if !s.mask.Get(8, 8) {
		t.Fatal("lasso eraser must leave the exterior selected")
	}
}

func TestLassoTooFewVerticesCancels(t *testing.T) {
	s := blockSurface(t)
	m := NewMachine(s)
	m.SetTool(ToolLasso)

	m.Tap(pt(1, 1))
	m.Tap(pt(5, 5))
	m.CompletePolygon()

	if s.mask.Count() != 0 || s.commits != 0 {
		t.Fatal("a two-vertex lasso must cancel silently")
	}
	if m.Polygon() != nil {
		t.Fatal("cancellation must clear the polygon")
	}
}

func TestToolSwitchCancelsPolygon(t *testing.T) {
	s := blockSurface(t)
	m := NewMachine(s)
	m.SetTool(ToolLasso)
	m.Tap(pt(1, 1))
	m.Tap(pt(1, 5))
	m.Tap(pt(5, 5))

	m.SetTool(ToolBrush)
	if m.Polygon() != nil {
		t.Fatal("switching tools must discard the in-progress polygon")
	}
	if s.mask.Count() != 0 || s.commits != 0 {
		t.Fatal("discarding a polygon must not mutate or commit")
	}
}

func TestNoMaskIsNoop(t *testing.T) {
	s := &fakeSurface{}
	m := NewMachine(s)

	m.Tap(pt(3, 3))
	m.PointerDown(pt(1, 1))
	m.PointerMove(pt(2, 2))
	m.PointerUp(pt(3, 3))
	m.SetTool(ToolLasso)
	m.Tap(pt(1, 1))
	m.Tap(pt(1, 5))
	m.Tap(pt(5, 5))
	m.CompletePolygon()

	if s.commits != 0 {
		t.Fatal("no tool may commit without a loaded mask")
	}
}

func TestBrushRadiusClamp(t *testing.T) {
	m := NewMachine(&fakeSurface{})
	m.SetBrushRadius(0)
	if m.BrushRadius() != MinBrushRadius {
		t.Fatalf("radius %f, want clamp to %d", m.BrushRadius(), MinBrushRadius)
	}
	m.SetBrushRadius(-5)
	if m.BrushRadius() != MinBrushRadius {
		t.Fatal("negative radius must clamp")
	}
	m.SetBrushRadius(40)
	if m.BrushRadius() != 40 {
		t.Fatal("valid radius must be kept")
	}
}

func TestPreviewRegionDoesNotMutate(t *testing.T) {
	s := blockSurface(t)
	m := NewMachine(s)

	r := m.PreviewRegion(pt(3, 3))
	if r == nil || r.Count() != 9 {
		t.Fatal("preview must return the hovered region")
	}
	if s.mask.Count() != 0 || s.commits != 0 {
		t.Fatal("preview must never mutate mask or history")
	}

	if m.PreviewRegion(pt(0, 0)) != nil {
		t.Fatal("background hover must yield no preview")
	}

	m.SetTool(ToolBrush)
	if m.PreviewRegion(pt(3, 3)) != nil {
		t.Fatal("preview only applies to the click tool")
	}
}
