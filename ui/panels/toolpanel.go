// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/Kushalc123/maskselector/internal/app"
	"github.com/Kushalc123/maskselector/internal/tool"
	"github.com/Kushalc123/maskselector/ui/prefs"
)

var toolOrder = []tool.Tool{
	tool.ToolClick,
	tool.ToolBrush,
	tool.ToolErase,
	tool.ToolLasso,
	tool.ToolLassoErase,
}

// ToolPanel is the side panel holding tool selection, brush settings,
// selection operations, and the live selection summary.
type ToolPanel struct {
	state     *app.State
	prefs     *prefs.Prefs
	container fyne.CanvasObject

	toolGroup    *widget.RadioGroup
	radiusSlider *widget.Slider
	radiusLabel  *widget.Label
	refineSlider *widget.Slider
	refineLabel  *widget.Label

	undoButton  *widget.Button
	redoButton  *widget.Button
	retryButton *widget.Button

	segLabel   *widget.Label
	statsLabel *widget.Label

	// Lasso controls shown for the lasso tools
	lassoBox *fyne.Container
}

// NewToolPanel creates the tool panel bound to the session.
func NewToolPanel(state *app.State, p *prefs.Prefs) *ToolPanel {
	tp := &ToolPanel{
		state: state,
		prefs: p,
	}

	tp.buildTools()
	tp.buildBrushControls()
	tp.buildLassoControls()
	tp.buildSelectionOps()
	tp.buildStatus()

	tp.container = container.NewVBox(
		widget.NewLabelWithStyle("Tool", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		tp.toolGroup,
		widget.NewSeparator(),
		tp.radiusLabel,
		tp.radiusSlider,
		tp.lassoBox,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Selection", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(tp.undoButton, tp.redoButton),
		tp.selectionButtons(),
		tp.refineLabel,
		tp.refineSlider,
		widget.NewButton("Refine", tp.onRefine),
		widget.NewSeparator(),
		tp.segLabel,
		tp.retryButton,
		tp.statsLabel,
	)

	tp.wireEvents()
	tp.syncHistoryButtons()
	tp.toolGroup.SetSelected(tool.ToolClick.String())
	return tp
}

// Container returns the panel container.
func (tp *ToolPanel) Container() fyne.CanvasObject {
	return tp.container
}

func (tp *ToolPanel) buildTools() {
	names := make([]string, len(toolOrder))
	for i, t := range toolOrder {
		names[i] = t.String()
	}

	tp.toolGroup = widget.NewRadioGroup(names, func(selected string) {
		for _, t := range toolOrder {
			if t.String() == selected {
				tp.state.SelectTool(t)
				tp.updateToolVisibility(t)
				return
			}
		}
	})
}

func (tp *ToolPanel) buildBrushControls() {
	radius := tp.prefs.FloatWithFallback(prefs.KeyBrushRadius, tool.DefaultBrushRadius)
	tp.state.Tools().SetBrushRadius(radius)

	tp.radiusLabel = widget.NewLabel(fmt.Sprintf("Brush radius: %.0f px", radius))
	tp.radiusSlider = widget.NewSlider(tool.MinBrushRadius, 64)
	tp.radiusSlider.Step = 1
	tp.radiusSlider.Value = radius
	tp.radiusSlider.OnChanged = func(v float64) {
		tp.state.Tools().SetBrushRadius(v)
		tp.prefs.SetFloat(prefs.KeyBrushRadius, v)
		tp.radiusLabel.SetText(fmt.Sprintf("Brush radius: %.0f px", v))
	}
}

func (tp *ToolPanel) buildLassoControls() {
	complete := widget.NewButton("Close Polygon", func() {
		tp.state.Tools().CompletePolygon()
	})
	cancel := widget.NewButton("Cancel", func() {
		tp.state.Tools().CancelPolygon()
	})
	tp.lassoBox = container.NewHBox(complete, cancel)
	tp.lassoBox.Hide()
}

func (tp *ToolPanel) buildSelectionOps() {
	tp.undoButton = widget.NewButton("Undo", func() { tp.state.Undo() })
	tp.redoButton = widget.NewButton("Redo", func() { tp.state.Redo() })

	passes := tp.prefs.FloatWithFallback(prefs.KeyRefinePasses, 1)
	tp.refineLabel = widget.NewLabel(fmt.Sprintf("Refine passes: %.0f", passes))
	tp.refineSlider = widget.NewSlider(1, 5)
	tp.refineSlider.Step = 1
	tp.refineSlider.Value = passes
	tp.refineSlider.OnChanged = func(v float64) {
		tp.prefs.SetFloat(prefs.KeyRefinePasses, v)
		tp.refineLabel.SetText(fmt.Sprintf("Refine passes: %.0f", v))
	}
}

func (tp *ToolPanel) selectionButtons() fyne.CanvasObject {
	return container.NewVBox(
		widget.NewButton("Select All", func() { tp.state.SelectAll() }),
		widget.NewButton("Invert", func() { tp.state.InvertSelection() }),
		widget.NewButton("Clear", func() { tp.state.ClearSelection() }),
	)
}

func (tp *ToolPanel) buildStatus() {
	tp.segLabel = widget.NewLabel("Segmentation: no image")
	tp.segLabel.Wrapping = fyne.TextWrapWord
	tp.retryButton = widget.NewButton("Retry Segmentation", func() {
		tp.segLabel.SetText("Segmentation: running...")
		tp.state.RetrySegmentation()
	})
	tp.retryButton.Hide()
	tp.statsLabel = widget.NewLabel("No selection")
	tp.statsLabel.Wrapping = fyne.TextWrapWord
}

func (tp *ToolPanel) onRefine() {
	tp.state.RefineSelection(int(tp.refineSlider.Value))
}

func (tp *ToolPanel) updateToolVisibility(t tool.Tool) {
	switch t {
	case tool.ToolLasso, tool.ToolLassoErase:
		tp.lassoBox.Show()
	default:
		tp.lassoBox.Hide()
	}
}

func (tp *ToolPanel) wireEvents() {
	tp.state.On(app.EventImageLoaded, func(interface{}) {
		tp.segLabel.SetText("Segmentation: running...")
		tp.retryButton.Hide()
	})
	tp.state.On(app.EventSegmentationReady, func(interface{}) {
		tp.segLabel.SetText("Segmentation: ready")
		tp.retryButton.Hide()
	})
	tp.state.On(app.EventSegmentationFailed, func(data interface{}) {
		if err, ok := data.(error); ok {
			tp.segLabel.SetText("Segmentation failed: " + err.Error())
		} else {
			tp.segLabel.SetText("Segmentation failed")
		}
		tp.retryButton.Show()
	})
	tp.state.On(app.EventMaskChanged, func(interface{}) {
		tp.syncStats()
	})
	tp.state.On(app.EventHistoryChanged, func(interface{}) {
		tp.syncHistoryButtons()
	})
}

func (tp *ToolPanel) syncStats() {
	stats := tp.state.MaskStats()
	if stats.Selected == 0 {
		tp.statsLabel.SetText("No selection")
		return
	}
	tp.statsLabel.SetText(fmt.Sprintf(
		"Selected: %d px (%.1f%%)\nCentroid: (%.0f, %.0f)",
		stats.Selected, stats.Coverage*100, stats.Centroid.X, stats.Centroid.Y))
}

func (tp *ToolPanel) syncHistoryButtons() {
	if tp.state.CanUndo() {
		tp.undoButton.Enable()
	} else {
		tp.undoButton.Disable()
	}
	if tp.state.CanRedo() {
		tp.redoButton.Enable()
	} else {
		tp.redoButton.Disable()
	}
}
