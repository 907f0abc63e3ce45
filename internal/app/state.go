// Package app provides the editing session state, its events, and lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/Kushalc123/maskselector/internal/history"
	"github.com/Kushalc123/maskselector/internal/imageio"
	"github.com/Kushalc123/maskselector/internal/mask"
	"github.com/Kushalc123/maskselector/internal/region"
	"github.com/Kushalc123/maskselector/internal/segment"
	"github.com/Kushalc123/maskselector/internal/tool"
	"github.com/Kushalc123/maskselector/pkg/geometry"
)

// PreviewDebounce bounds how often hover previews recompute the region under
// the cursor. A newer hover supersedes a pending one.
const PreviewDebounce = 120 * time.Millisecond

var errNoImage = errors.New("no image loaded")

// EventType identifies different session events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventMaskChanged
	EventHistoryChanged
	EventToolChanged
	EventSegmentationReady
	EventSegmentationFailed
	EventPreviewChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State is the editing session. It owns the loaded image, the live selection
// mask, the undo/redo history, the tool machine, and the segmentation result
// cached for the current image.
type State struct {
	mu sync.RWMutex

	// Image
	ImagePath string
	img       image.Image

	// Selection
	mask    *mask.Mask
	history *history.Stack
	tools   *tool.Machine

	// Segmentation cache, filled at most once per loaded image
	segmenter   segment.Segmenter
	classes     *region.ClassBuffer
	segInflight bool
	segErr      error

	// Hover preview, display only, never committed
	preview      *mask.Mask
	previewTimer *time.Timer

	historyCapacity int

	// Event listeners
	listeners map[EventType][]EventListener
}

// NewState creates a new session using the given segmentation backend.
func NewState(segmenter segment.Segmenter) *State {
	s := &State{
		segmenter:       segmenter,
		historyCapacity: history.DefaultCapacity,
		listeners:       make(map[EventType][]EventListener),
	}
	s.tools = tool.NewMachine(s)
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage loads an image from disk and starts a fresh editing session over
// it: empty mask, single-snapshot history, invalidated segmentation cache.
func (s *State) LoadImage(path string) error {
	img, err := imageio.Load(path)
	if err != nil {
		return err
	}
	s.SetImage(img, path)
	return nil
}

// SetImage installs an already-decoded image as the editing target.
func (s *State) SetImage(img image.Image, path string) {
	b := img.Bounds()

	s.mu.Lock()
	s.ImagePath = path
	s.img = img
	s.mask = mask.New(b.Dx(), b.Dy())
	s.history = history.NewStack(s.mask, s.historyCapacity)
	s.classes = nil
	s.segErr = nil
	s.stopPreviewLocked()
	s.mu.Unlock()

	s.tools.CancelPolygon()

	s.Emit(EventImageLoaded, path)
	s.Emit(EventMaskChanged, nil)
	s.Emit(EventHistoryChanged, nil)

	s.requestSegmentation()
}

// Image returns the loaded image, or nil.
func (s *State) Image() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.img
}

// Mask returns the live selection mask, or nil when no image is loaded.
// Part of the tool.Surface contract.
func (s *State) Mask() *mask.Mask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mask
}

// Classes returns the cached class buffer, or nil while segmentation is
// pending or failed. Part of the tool.Surface contract.
func (s *State) Classes() *region.ClassBuffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classes
}

// CommitHistory snapshots the current mask. Part of the tool.Surface
// contract; the tool machine calls it once per completed gesture.
func (s *State) CommitHistory() {
	s.mu.Lock()
	if s.history == nil || s.mask == nil {
		s.mu.Unlock()
		return
	}
	s.history.Commit(s.mask)
	s.mu.Unlock()

	s.Emit(EventMaskChanged, nil)
	s.Emit(EventHistoryChanged, nil)
}

// Tools returns the tool machine for gesture dispatch.
func (s *State) Tools() *tool.Machine { return s.tools }

// SelectTool switches the active tool and drops any hover preview.
func (s *State) SelectTool(t tool.Tool) {
	s.tools.SetTool(t)
	s.ClearPreview()
	s.Emit(EventToolChanged, t)
}

// Undo replaces the live mask with the previous snapshot. Returns false when
// there is nothing to undo.
func (s *State) Undo() bool {
	s.mu.Lock()
	if s.history == nil {
		s.mu.Unlock()
		return false
	}
	m, ok := s.history.Undo()
	if ok {
		s.mask = m
	}
	s.mu.Unlock()

	if ok {
		s.Emit(EventMaskChanged, nil)
		s.Emit(EventHistoryChanged, nil)
	}
	return ok
}

// Redo replaces the live mask with the next snapshot. Returns false when
// there is nothing to redo.
func (s *State) Redo() bool {
	s.mu.Lock()
	if s.history == nil {
		s.mu.Unlock()
		return false
	}
	m, ok := s.history.Redo()
	if ok {
		s.mask = m
	}
	s.mu.Unlock()

	if ok {
		s.Emit(EventMaskChanged, nil)
		s.Emit(EventHistoryChanged, nil)
	}
	return ok
}

// CanUndo reports whether an undo step is available.
func (s *State) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history != nil && s.history.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (s *State) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history != nil && s.history.CanRedo()
}

// ClearSelection unselects everything and commits one history entry.
func (s *State) ClearSelection() {
	s.mu.Lock()
	if s.mask == nil {
		s.mu.Unlock()
		return
	}
	s.mask.Clear()
	s.mu.Unlock()
	s.CommitHistory()
}

// SelectAll selects every pixel and commits one history entry.
func (s *State) SelectAll() {
	s.mu.Lock()
	if s.mask == nil {
		s.mu.Unlock()
		return
	}
	s.mask.SelectAll()
	s.mu.Unlock()
	s.CommitHistory()
}

// InvertSelection flips the selection and commits one history entry.
func (s *State) InvertSelection() {
	s.mu.Lock()
	if s.mask == nil {
		s.mu.Unlock()
		return
	}
	s.mask = mask.Inverted(s.mask)
	s.mu.Unlock()
	s.CommitHistory()
}

// RefineSelection applies morphological closing passes to smooth the
// selection boundary, then commits one history entry.
func (s *State) RefineSelection(iterations int) {
	s.mu.Lock()
	if s.mask == nil {
		s.mu.Unlock()
		return
	}
	s.mask = mask.Refine(s.mask, iterations)
	s.mu.Unlock()
	s.CommitHistory()
}

// MaskStats summarizes the current selection for display.
func (s *State) MaskStats() mask.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mask == nil {
		return mask.Stats{}
	}
	return mask.Summarize(s.mask)
}

// ExportMask writes the binary mask image (pure black/white, opaque) to path.
func (s *State) ExportMask(path string) error {
	s.mu.RLock()
	m := s.mask
	s.mu.RUnlock()
	if m == nil {
		return errNoImage
	}
	return imageio.SaveMask(path, m)
}

// ImportMask replaces the current selection with a previously exported mask
// and commits one history entry. The mask must match the image dimensions.
func (s *State) ImportMask(path string) error {
	loaded, err := imageio.LoadMask(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.mask == nil {
		s.mu.Unlock()
		return errNoImage
	}
	if loaded.Width() != s.mask.Width() || loaded.Height() != s.mask.Height() {
		w, h := s.mask.Width(), s.mask.Height()
		s.mu.Unlock()
		return fmt.Errorf("mask dimensions %dx%d do not match image %dx%d",
			loaded.Width(), loaded.Height(), w, h)
	}
	s.mask = loaded
	s.mu.Unlock()

	s.CommitHistory()
	return nil
}

// SegmentationError returns the most recent segmentation failure, or nil.
func (s *State) SegmentationError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.segErr
}

// SegmentationReady reports whether a class buffer is cached for the image.
func (s *State) SegmentationReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classes != nil
}

// RetrySegmentation re-runs segmentation after a failure. A no-op while a
// request is already in flight or a result is cached.
func (s *State) RetrySegmentation() {
	s.requestSegmentation()
}

// requestSegmentation starts at most one background segmentation request for
// the current image. The result is cached until the next image load; a
// failure is reported once per attempt via EventSegmentationFailed, never
// again on subsequent clicks or hovers.
func (s *State) requestSegmentation() {
	s.mu.Lock()
	if s.img == nil || s.segmenter == nil || s.classes != nil || s.segInflight {
		s.mu.Unlock()
		return
	}
	s.segInflight = true
	img := s.img
	path := s.ImagePath
	s.mu.Unlock()

	go func() {
		classes, err := s.segmenter.Segment(context.Background(), img)
		s.finishSegmentation(img, path, classes, err)
	}()
}

// finishSegmentation installs a segmentation result, discarding it if the
// image changed while the request was in flight.
func (s *State) finishSegmentation(img image.Image, path string, classes *region.ClassBuffer, err error) {
	s.mu.Lock()
	s.segInflight = false
	if s.img != img {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.segErr = err
		s.mu.Unlock()
		log.Printf("segmentation failed for %s: %v", path, err)
		s.Emit(EventSegmentationFailed, err)
		return
	}
	s.classes = classes
	s.segErr = nil
	s.mu.Unlock()

	s.Emit(EventSegmentationReady, nil)
}

// HoverAt schedules a debounced hover preview of the region the click tool
// would toggle at p. The preview never touches the mask or the history, and
// a newer hover supersedes a pending one.
func (s *State) HoverAt(p geometry.Point2D) {
	if s.tools.Active() != tool.ToolClick {
		return
	}

	s.mu.Lock()
	if s.previewTimer != nil {
		s.previewTimer.Stop()
	}
	s.previewTimer = time.AfterFunc(PreviewDebounce, func() {
		s.computePreview(p)
	})
	s.mu.Unlock()
}

// ClearPreview drops any pending or displayed hover preview.
func (s *State) ClearPreview() {
	s.mu.Lock()
	had := s.preview != nil
	s.stopPreviewLocked()
	s.mu.Unlock()

	if had {
		s.Emit(EventPreviewChanged, nil)
	}
}

// Preview returns the current hover preview mask, or nil.
func (s *State) Preview() *mask.Mask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// computePreview runs on the debounce timer goroutine. The class buffer is
// immutable once cached, so selecting from it here is a pure read.
func (s *State) computePreview(p geometry.Point2D) {
	s.mu.RLock()
	classes := s.classes
	s.mu.RUnlock()
	if classes == nil {
		return
	}

	r := classes.Select(int(p.X), int(p.Y))

	s.mu.Lock()
	if r.Count() == 0 {
		s.preview = nil
	} else {
		s.preview = r
	}
	s.mu.Unlock()

	s.Emit(EventPreviewChanged, nil)
}

// stopPreviewLocked clears preview state; the caller holds s.mu.
func (s *State) stopPreviewLocked() {
	if s.previewTimer != nil {
		s.previewTimer.Stop()
		s.previewTimer = nil
	}
	s.preview = nil
}
