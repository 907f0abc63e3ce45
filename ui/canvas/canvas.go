// Package canvas provides the mask editing canvas with pan, zoom, and
// overlay rendering.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/Kushalc123/maskselector/internal/mask"
	"github.com/Kushalc123/maskselector/pkg/colorutil"
	"github.com/Kushalc123/maskselector/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// DefaultOverlayAlpha is the opacity of the selection tint.
	DefaultOverlayAlpha = 0.45
	previewAlpha        = 0.25
)

// MaskCanvas displays the source image with the selection mask tinted over
// it, plus the hover preview and the in-progress lasso outline. All pointer
// events are forwarded to callbacks in image pixel coordinates.
type MaskCanvas struct {
	widget.BaseWidget

	// Render inputs
	img          image.Image
	mask         *mask.Mask
	preview      *mask.Mask
	polygon      []geometry.Point2D
	overlayAlpha float64

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Container
	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size

	// Fit to window
	fitToWindow    bool
	lastScrollSize fyne.Size

	// Callbacks, all coordinates in image space
	onTap          func(x, y float64)
	onSecondaryTap func(x, y float64)
	onStrokeStart  func(x, y float64)
	onStrokeMove   func(x, y float64)
	onStrokeEnd    func(x, y float64)
	onHover        func(x, y float64)
	onHoverOut     func()
	onZoomChange   func(zoom float64)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *MaskCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *MaskCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	// Use wheel for zoom, not scroll
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to handle mouse events.
type draggableContent struct {
	widget.BaseWidget
	canvas *MaskCanvas
	raster *fynecanvas.Raster

	stroking bool
	lastPos  fyne.Position
}

var _ desktop.Hoverable = (*draggableContent)(nil)

func newDraggableContent(mc *MaskCanvas, raster *fynecanvas.Raster) *draggableContent {
	dc := &draggableContent{
		canvas: mc,
		raster: raster,
	}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return &draggableContentRenderer{content: dc}
}

func (dc *draggableContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

// imageCoords converts a viewport-relative event position to image pixel
// coordinates, accounting for scroll offset and zoom.
func (dc *draggableContent) imageCoords(pos fyne.Position) (float64, float64) {
	scrollOffset := dc.canvas.scroll.Offset()
	canvasX := float64(pos.X + scrollOffset.X)
	canvasY := float64(pos.Y + scrollOffset.Y)
	return canvasX / dc.canvas.zoom, canvasY / dc.canvas.zoom
}

// inBounds rejects events outside the widget; Fyne occasionally delivers
// stale positions after a resize.
func (dc *draggableContent) inBounds(pos fyne.Position) bool {
	size := dc.Size()
	return pos.X >= 0 && pos.Y >= 0 && pos.X <= size.Width && pos.Y <= size.Height
}

// Dragged feeds brush/eraser strokes. The first drag event starts the
// stroke; each subsequent event extends it.
func (dc *draggableContent) Dragged(ev *fyne.DragEvent) {
	x, y := dc.imageCoords(ev.Position)

	if !dc.stroking {
		dc.stroking = true
		// The stroke began where the drag started, one delta back.
		sx, sy := dc.imageCoords(fyne.Position{
			X: ev.Position.X - ev.Dragged.DX,
			Y: ev.Position.Y - ev.Dragged.DY,
		})
		if dc.canvas.onStrokeStart != nil {
			dc.canvas.onStrokeStart(sx, sy)
		}
	}

	dc.lastPos = ev.Position
	if dc.canvas.onStrokeMove != nil {
		dc.canvas.onStrokeMove(x, y)
	}
	dc.canvas.Refresh()
}

// DragEnd finishes an in-progress stroke.
func (dc *draggableContent) DragEnd() {
	if !dc.stroking {
		return
	}
	dc.stroking = false

	x, y := dc.imageCoords(dc.lastPos)
	if dc.canvas.onStrokeEnd != nil {
		dc.canvas.onStrokeEnd(x, y)
	}
	dc.canvas.Refresh()
}

func (dc *draggableContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		dc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		dc.canvas.ZoomOut()
	}
}

// Tapped handles left-click events.
func (dc *draggableContent) Tapped(ev *fyne.PointEvent) {
	if dc.canvas.onTap == nil || !dc.inBounds(ev.Position) {
		return
	}
	x, y := dc.imageCoords(ev.Position)
	dc.canvas.onTap(x, y)
}

// TappedSecondary handles right-click events.
func (dc *draggableContent) TappedSecondary(ev *fyne.PointEvent) {
	if dc.canvas.onSecondaryTap == nil || !dc.inBounds(ev.Position) {
		return
	}
	x, y := dc.imageCoords(ev.Position)
	dc.canvas.onSecondaryTap(x, y)
}

func (dc *draggableContent) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved drives the hover preview.
func (dc *draggableContent) MouseMoved(ev *desktop.MouseEvent) {
	if dc.canvas.onHover == nil || dc.stroking {
		return
	}
	x, y := dc.imageCoords(ev.Position)
	dc.canvas.onHover(x, y)
}

func (dc *draggableContent) MouseOut() {
	if dc.canvas.onHoverOut != nil {
		dc.canvas.onHoverOut()
	}
}

type draggableContentRenderer struct {
	content *draggableContent
}

func (r *draggableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *draggableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *draggableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *draggableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *draggableContentRenderer) Destroy() {}

// NewMaskCanvas creates a new mask canvas.
func NewMaskCanvas() *MaskCanvas {
	mc := &MaskCanvas{
		zoom:         1.0,
		imgSize:      fyne.NewSize(400, 300),
		overlayAlpha: DefaultOverlayAlpha,
	}

	mc.raster = fynecanvas.NewRaster(mc.draw)
	mc.raster.ScaleMode = fynecanvas.ImageScalePixels
	mc.raster.SetMinSize(mc.imgSize)

	mc.content = newDraggableContent(mc, mc.raster)
	mc.scroll = newZoomScroll(mc.content, mc)

	mc.ExtendBaseWidget(mc)
	return mc
}

// Container returns the canvas container for embedding in layouts.
func (mc *MaskCanvas) Container() fyne.CanvasObject {
	return mc.scroll
}

// SetImage sets the source image to display.
func (mc *MaskCanvas) SetImage(img image.Image) {
	mc.img = img
	mc.updateContentSize()
}

// SetMask sets the selection mask rendered as a tinted overlay.
func (mc *MaskCanvas) SetMask(m *mask.Mask) {
	mc.mask = m
	mc.Refresh()
}

// SetPreview sets the hover preview mask (nil clears it).
func (mc *MaskCanvas) SetPreview(p *mask.Mask) {
	mc.preview = p
	mc.Refresh()
}

// SetPolygon sets the in-progress lasso vertices (nil clears the outline).
func (mc *MaskCanvas) SetPolygon(points []geometry.Point2D) {
	mc.polygon = points
	mc.Refresh()
}

// SetOverlayAlpha sets the selection tint opacity.
func (mc *MaskCanvas) SetOverlayAlpha(alpha float64) {
	mc.overlayAlpha = alpha
	mc.Refresh()
}

// SetZoom sets the zoom level.
func (mc *MaskCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	mc.zoom = zoom
	mc.updateContentSize()

	if mc.onZoomChange != nil {
		mc.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (mc *MaskCanvas) GetZoom() float64 {
	return mc.zoom
}

// ZoomIn increases the zoom level.
func (mc *MaskCanvas) ZoomIn() {
	mc.SetZoom(mc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (mc *MaskCanvas) ZoomOut() {
	mc.SetZoom(mc.zoom / zoomStep)
}

// FitToWindow adjusts zoom to fit the image in the visible area.
func (mc *MaskCanvas) FitToWindow() {
	if mc.img == nil {
		return
	}
	bounds := mc.img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}

	viewSize := mc.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(bounds.Dx())
	zoomY := float64(viewSize.Height) / float64(bounds.Dy())

	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}

	mc.SetZoom(zoom * 0.95) // Leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (mc *MaskCanvas) SetFitToWindow(fit bool) {
	mc.fitToWindow = fit
	if fit {
		mc.FitToWindow()
	}
}

// GetFitToWindow returns the current fit-to-window state.
func (mc *MaskCanvas) GetFitToWindow() bool {
	return mc.fitToWindow
}

// CheckResize auto-fits after a scroll container resize when enabled.
func (mc *MaskCanvas) CheckResize(size fyne.Size) {
	if !mc.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != mc.lastScrollSize {
		mc.lastScrollSize = size
		mc.FitToWindow()
	}
}

// OnTap sets the left-click callback (image coordinates).
func (mc *MaskCanvas) OnTap(callback func(x, y float64)) {
	mc.onTap = callback
}

// OnSecondaryTap sets the right-click callback (image coordinates).
func (mc *MaskCanvas) OnSecondaryTap(callback func(x, y float64)) {
	mc.onSecondaryTap = callback
}

// OnStroke sets the stroke callbacks (image coordinates). Start fires on the
// first drag event, move on each subsequent one, end when the drag stops.
func (mc *MaskCanvas) OnStroke(start, move, end func(x, y float64)) {
	mc.onStrokeStart = start
	mc.onStrokeMove = move
	mc.onStrokeEnd = end
}

// OnHover sets the pointer-motion callback (image coordinates) and the
// pointer-left callback.
func (mc *MaskCanvas) OnHover(moved func(x, y float64), left func()) {
	mc.onHover = moved
	mc.onHoverOut = left
}

// OnZoomChange sets a callback for zoom changes.
func (mc *MaskCanvas) OnZoomChange(callback func(zoom float64)) {
	mc.onZoomChange = callback
}

// Refresh refreshes the canvas display.
func (mc *MaskCanvas) Refresh() {
	mc.raster.Refresh()
}

// updateContentSize updates the content size based on image and zoom.
func (mc *MaskCanvas) updateContentSize() {
	if mc.img == nil {
		mc.imgSize = fyne.NewSize(400, 300)
	} else {
		bounds := mc.img.Bounds()
		width := float32(float64(bounds.Dx()) * mc.zoom)
		height := float32(float64(bounds.Dy()) * mc.zoom)
		mc.imgSize = fyne.NewSize(width, height)
	}

	mc.raster.SetMinSize(mc.imgSize)
	mc.raster.Resize(mc.imgSize)
	if mc.content != nil {
		mc.content.Resize(mc.imgSize)
		mc.content.Refresh()
	}
	mc.raster.Refresh()
	if mc.scroll != nil {
		mc.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (mc *MaskCanvas) draw(w, h int) image.Image {
	currentSize := fyne.NewSize(float32(w), float32(h))
	if mc.fitToWindow && currentSize != mc.lastScrollSize && w > 0 && h > 0 {
		mc.lastScrollSize = currentSize
		// Schedule fit after this draw completes
		go func() {
			mc.FitToWindow()
		}()
	}

	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Black background
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if mc.img != nil {
		mc.composite(output, w, h)
	}

	if len(mc.polygon) > 0 {
		mc.drawPolygonOutline(output, mc.polygon)
	}

	return output
}

// composite renders the image with the mask and preview tints in a single
// per-pixel pass over the visible canvas area.
func (mc *MaskCanvas) composite(output *image.RGBA, w, h int) {
	srcBounds := mc.img.Bounds()

	for y := 0; y < h; y++ {
		srcY := int(float64(y) / mc.zoom)
		if srcY >= srcBounds.Dy() {
			continue
		}
		for x := 0; x < w; x++ {
			srcX := int(float64(x) / mc.zoom)
			if srcX >= srcBounds.Dx() {
				continue
			}

			px := colorutil.ToRGBA(mc.img.At(srcBounds.Min.X+srcX, srcBounds.Min.Y+srcY))
			px.A = 255

			if mc.mask != nil && mc.mask.Get(srcX, srcY) {
				px = colorutil.Blend(px, colorutil.Blue, mc.overlayAlpha)
			} else if mc.preview != nil && mc.preview.Get(srcX, srcY) {
				px = colorutil.Blend(px, colorutil.Cyan, previewAlpha)
			}

			output.SetRGBA(x, y, px)
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (mc *MaskCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &maskCanvasRenderer{canvas: mc}
}

type maskCanvasRenderer struct {
	canvas *MaskCanvas
}

func (r *maskCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	} else if r.canvas.content != nil {
		r.canvas.content.Resize(size)
	}
	r.canvas.CheckResize(size)
}

func (r *maskCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *maskCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *maskCanvasRenderer) Objects() []fyne.CanvasObject {
	if r.canvas.scroll != nil {
		return []fyne.CanvasObject{r.canvas.scroll}
	}
	return []fyne.CanvasObject{r.canvas.content}
}

func (r *maskCanvasRenderer) Destroy() {}
