// Package tool implements the editing tools and their gesture handling.
//
// A Machine owns the current tool and per-tool gesture state (brush stroke in
// progress, lasso polygon in progress) and translates a normalized stream of
// pointer events, in mask pixel coordinates, into mask mutations on its
// Surface. History commits happen only at gesture boundaries: one commit per
// stroke, per completed lasso, per click-select toggle.
package tool

import (
	"github.com/Kushalc123/maskselector/internal/mask"
	"github.com/Kushalc123/maskselector/internal/region"
	"github.com/Kushalc123/maskselector/pkg/geometry"
)

// Tool identifies the active interaction tool.
type Tool int

const (
	ToolClick Tool = iota // region select/deselect by click
	ToolBrush             // additive freehand stroke
	ToolErase             // subtractive freehand stroke
	ToolLasso             // additive polygon
	ToolLassoErase        // subtractive polygon
)

func (t Tool) String() string {
	switch t {
	case ToolClick:
		return "Click Select"
	case ToolBrush:
		return "Brush"
	case ToolErase:
		return "Eraser"
	case ToolLasso:
		return "Lasso"
	case ToolLassoErase:
		return "Lasso Eraser"
	default:
		return "Unknown"
	}
}

// MinBrushRadius is the smallest effective brush/eraser radius.
const MinBrushRadius = 1

// DefaultBrushRadius is used until the user picks a radius.
const DefaultBrushRadius = 8

// Surface is the mutable editing target the tools operate on.
type Surface interface {
	// Mask returns the live selection mask, or nil when no image is loaded.
	Mask() *mask.Mask
	// Classes returns the cached per-pixel class buffer, or nil while
	// segmentation has not completed for the current image.
	Classes() *region.ClassBuffer
	// CommitHistory snapshots the current mask state. Called exactly once
	// per completed gesture.
	CommitHistory()
}

// Machine is the tool state machine. It is not safe for concurrent use; all
// events are expected to arrive from the single UI event stream.
type Machine struct {
	surface Surface

	tool   Tool
	radius float64

	// Brush/eraser stroke state
	stroking  bool
	lastPoint geometry.Point2D

	// Lasso polygon state
	polygon []geometry.Point2D
}

// NewMachine creates a machine in click-select mode.
func NewMachine(surface Surface) *Machine {
	return &Machine{
		surface: surface,
		tool:    ToolClick,
		radius:  DefaultBrushRadius,
	}
}

// Active returns the current tool.
func (m *Machine) Active() Tool { return m.tool }

// SetTool switches the active tool. An in-progress lasso polygon is discarded
// with no mask mutation and no history entry; an in-progress stroke is ended
// without a commit (its applied segments stay visible until undo).
func (m *Machine) SetTool(t Tool) {
	if t == m.tool {
		return
	}
	m.polygon = nil
	m.stroking = false
	m.tool = t
}

// BrushRadius returns the effective brush/eraser radius.
func (m *Machine) BrushRadius() float64 { return m.radius }

// SetBrushRadius sets the brush/eraser radius, clamped to MinBrushRadius.
func (m *Machine) SetBrushRadius(r float64) {
	if r < MinBrushRadius {
		r = MinBrushRadius
	}
	m.radius = r
}

// Polygon returns the in-progress lasso vertices (nil when none).
func (m *Machine) Polygon() []geometry.Point2D { return m.polygon }

// PointerDown begins a gesture at p. For brush and eraser this starts a
// stroke and paints its starting cap; other tools act on Tap instead.
func (m *Machine) PointerDown(p geometry.Point2D) {
	target := m.surface.Mask()
	if target == nil {
		return
	}

	switch m.tool {
	case ToolBrush, ToolErase:
		m.stroking = true
		m.lastPoint = p
		target.StrokeSegment(p, p, m.radius, m.tool == ToolBrush)
	}
}

// PointerMove extends an in-progress stroke to p. Each segment is applied to
// the mask immediately so the visible selection tracks the pointer, but no
// history is recorded until the stroke ends.
func (m *Machine) PointerMove(p geometry.Point2D) {
	if !m.stroking {
		return
	}
	target := m.surface.Mask()
	if target == nil {
		m.stroking = false
		return
	}

	target.StrokeSegment(m.lastPoint, p, m.radius, m.tool == ToolBrush)
	m.lastPoint = p
}

// PointerUp ends an in-progress stroke and commits exactly one history entry
// for the whole stroke.
func (m *Machine) PointerUp(p geometry.Point2D) {
	if !m.stroking {
		return
	}
	target := m.surface.Mask()
	if target != nil {
		target.StrokeSegment(m.lastPoint, p, m.radius, m.tool == ToolBrush)
	}
	m.stroking = false
	m.surface.CommitHistory()
}

// Tap handles a discrete activation at p: click-select toggles the region
// under the cursor, lasso tools append a vertex, brush/eraser paint a dot.
func (m *Machine) Tap(p geometry.Point2D) {
	target := m.surface.Mask()
	if target == nil {
		return
	}

	switch m.tool {
	case ToolClick:
		m.clickSelect(target, p)
	case ToolLasso, ToolLassoErase:
		m.polygon = append(m.polygon, p)
	case ToolBrush, ToolErase:
		target.StrokeSegment(p, p, m.radius, m.tool == ToolBrush)
		m.surface.CommitHistory()
	}
}

// CompletePolygon closes the in-progress lasso polygon, fills it, and commits
// one history entry. Fewer than three vertices cancels silently. Always
// clears the in-progress polygon.
func (m *Machine) CompletePolygon() {
	poly := m.polygon
	m.polygon = nil

	if len(poly) < 3 {
		return
	}
	target := m.surface.Mask()
	if target == nil {
		return
	}
	if m.tool != ToolLasso && m.tool != ToolLassoErase {
		return
	}

	target.FillPolygon(poly, m.tool == ToolLasso)
	m.surface.CommitHistory()
}

// CancelPolygon discards the in-progress lasso polygon without mutation.
func (m *Machine) CancelPolygon() {
	m.polygon = nil
}

// PreviewRegion computes the region the click tool would toggle at p, without
// mutating anything. Returns nil when the click tool is inactive, no class
// buffer is cached, or the region is empty.
func (m *Machine) PreviewRegion(p geometry.Point2D) *mask.Mask {
	if m.tool != ToolClick {
		return nil
	}
	classes := m.surface.Classes()
	if classes == nil {
		return nil
	}
	r := classes.Select(int(p.X), int(p.Y))
	if r.Count() == 0 {
		return nil
	}
	return r
}

// clickSelect runs the region selector at p and toggles the result: the
// region is subtracted when the clicked pixel is already selected, unioned
// otherwise. An empty region leaves mask and history untouched. With no
// class buffer cached (segmentation pending or failed) the tool is inert.
func (m *Machine) clickSelect(target *mask.Mask, p geometry.Point2D) {
	classes := m.surface.Classes()
	if classes == nil {
		return
	}

	x, y := int(p.X), int(p.Y)
	r := classes.Select(x, y)
	if r.Count() == 0 {
		return
	}

	if target.Get(x, y) {
		target.Subtract(r)
	} else {
		target.Union(r)
	}
	m.surface.CommitHistory()
}
