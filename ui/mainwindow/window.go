// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/Kushalc123/maskselector/internal/app"
	"github.com/Kushalc123/maskselector/internal/imageio"
	"github.com/Kushalc123/maskselector/internal/project"
	"github.com/Kushalc123/maskselector/internal/tool"
	"github.com/Kushalc123/maskselector/internal/version"
	"github.com/Kushalc123/maskselector/pkg/geometry"
	"github.com/Kushalc123/maskselector/ui/canvas"
	"github.com/Kushalc123/maskselector/ui/panels"
	"github.com/Kushalc123/maskselector/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.MaskCanvas
	toolPanel *panels.ToolPanel
	statusBar *widget.Label

	projectPath string

	// Menu items that need state tracking
	fitToWindowItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Mask Selector")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.wireCanvasInput()
	mw.setupDragAndDrop()

	return mw
}

// setupDragAndDrop accepts an image or project file dropped onto the window.
func (mw *MainWindow) setupDragAndDrop() {
	mw.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		if len(uris) == 0 {
			return
		}
		uri := uris[0]
		if uri.Extension() == ".maskproj" {
			mw.loadProject(uri.Path())
			return
		}

		reader, err := storage.Reader(uri)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		defer reader.Close()

		img, err := imageio.LoadReader(reader)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.state.SetImage(img, uri.Path())
	})
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewMaskCanvas()
	mw.canvas.SetOverlayAlpha(
		mw.prefs.FloatWithFallback(prefs.KeyOverlayAlpha, canvas.DefaultOverlayAlpha))

	mw.toolPanel = panels.NewToolPanel(mw.state, mw.prefs)

	mw.statusBar = widget.NewLabel("Open an image to start")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,               // top
		nil,                   // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	split := container.NewHSplit(
		mw.toolPanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Mask...", mw.onImportMask),
		fyne.NewMenuItem("Export Mask...", mw.onExportMask),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { mw.state.Undo() }),
		fyne.NewMenuItem("Redo", func() { mw.state.Redo() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Select All", func() { mw.state.SelectAll() }),
		fyne.NewMenuItem("Invert Selection", func() { mw.state.InvertSelection() }),
		fyne.NewMenuItem("Clear Selection", func() { mw.state.ClearSelection() }),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		mw.canvas.SetImage(mw.state.Image())
		mw.canvas.SetMask(mw.state.Mask())
		mw.canvas.SetPreview(nil)
		mw.canvas.SetPolygon(nil)
		mw.canvas.SetFitToWindow(true)
		if path, ok := data.(string); ok && path != "" {
			mw.SetTitle("Mask Selector - " + filepath.Base(path))
			mw.updateStatus("Loaded " + path)
		}
	})

	mw.state.On(app.EventMaskChanged, func(interface{}) {
		mw.canvas.SetMask(mw.state.Mask())
	})

	mw.state.On(app.EventPreviewChanged, func(interface{}) {
		mw.canvas.SetPreview(mw.state.Preview())
	})

	mw.state.On(app.EventToolChanged, func(data interface{}) {
		mw.canvas.SetPolygon(nil)
		if t, ok := data.(tool.Tool); ok {
			mw.updateStatus(t.String())
		}
	})

	mw.state.On(app.EventSegmentationReady, func(interface{}) {
		mw.updateStatus("Segmentation ready, click a region to select it")
	})

	mw.state.On(app.EventSegmentationFailed, func(data interface{}) {
		if err, ok := data.(error); ok {
			mw.updateStatus("Segmentation failed: " + err.Error())
		}
	})
}

// wireCanvasInput routes canvas pointer events into the tool machine.
func (mw *MainWindow) wireCanvasInput() {
	machine := mw.state.Tools()

	mw.canvas.OnTap(func(x, y float64) {
		machine.Tap(geometry.NewPoint2D(x, y))
		mw.canvas.SetPolygon(machine.Polygon())
		mw.canvas.Refresh()
	})

	// Right click closes the lasso polygon
	mw.canvas.OnSecondaryTap(func(x, y float64) {
		machine.CompletePolygon()
		mw.canvas.SetPolygon(machine.Polygon())
		mw.canvas.Refresh()
	})

	mw.canvas.OnStroke(
		func(x, y float64) { machine.PointerDown(geometry.NewPoint2D(x, y)) },
		func(x, y float64) { machine.PointerMove(geometry.NewPoint2D(x, y)) },
		func(x, y float64) { machine.PointerUp(geometry.NewPoint2D(x, y)) },
	)

	mw.canvas.OnHover(
		func(x, y float64) { mw.state.HoverAt(geometry.NewPoint2D(x, y)) },
		func() { mw.state.ClearPreview() },
	)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// lastDir returns the last used directory for the given key, or nil.
func (mw *MainWindow) lastDir(key string) fyne.ListableURI {
	path := mw.prefs.String(key)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(key, filePath string) {
	mw.prefs.SetString(key, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(prefs.KeyLastImageDir, path)
		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(
		[]string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp"}))
	if loc := mw.lastDir(prefs.KeyLastImageDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(prefs.KeyLastImageDir, path)
		mw.loadProject(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".maskproj"}))
	if loc := mw.lastDir(prefs.KeyLastImageDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// OpenProjectPath loads a project given on the command line.
func (mw *MainWindow) OpenProjectPath(path string) {
	mw.loadProject(path)
}

func (mw *MainWindow) loadProject(path string) {
	proj, err := project.Load(path)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	if imgPath := proj.GetImagePath(path); imgPath != "" {
		if err := mw.state.LoadImage(imgPath); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
	}
	if maskPath := proj.GetMaskPath(path); maskPath != "" {
		// A missing mask file just means nothing was exported yet.
		_ = mw.state.ImportMask(maskPath)
	}
	if proj.Settings.BrushRadius > 0 {
		mw.state.Tools().SetBrushRadius(proj.Settings.BrushRadius)
	}
	if proj.Settings.OverlayAlpha > 0 {
		mw.canvas.SetOverlayAlpha(proj.Settings.OverlayAlpha)
	}

	mw.projectPath = path
	mw.SetTitle("Mask Selector - " + filepath.Base(path))
	mw.updateStatus("Project loaded: " + path)
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".maskproj" {
			path += ".maskproj"
		}
		mw.saveProject(path)
	}, mw.Window)
	fd.SetFileName("project.maskproj")
	if loc := mw.lastDir(prefs.KeyLastImageDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) saveProject(path string) {
	name := filepath.Base(path)
	proj := project.New(name[:len(name)-len(filepath.Ext(name))])
	if mw.state.ImagePath != "" {
		proj.SetImage(path, mw.state.ImagePath)
	}
	proj.Settings.BrushRadius = mw.state.Tools().BrushRadius()

	maskPath := proj.GetMaskPath(path)
	if err := mw.state.ExportMask(maskPath); err == nil {
		proj.SetMask(path, maskPath)
	}

	if err := proj.Save(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.projectPath = path
	mw.updateStatus("Project saved: " + path)
}

func (mw *MainWindow) onImportMask() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		if err := mw.state.ImportMask(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Mask imported: " + path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".webp"}))
	if loc := mw.lastDir(prefs.KeyLastExportDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportMask() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		mw.saveLastDir(prefs.KeyLastExportDir, path)
		if err := mw.state.ExportMask(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Mask exported: " + path)
	}, mw.Window)
	fd.SetFileName("mask.png")
	if loc := mw.lastDir(prefs.KeyLastExportDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.GetFitToWindow()
	mw.canvas.SetFitToWindow(enabled)

	if enabled {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.GetFitToWindow() {
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Mask Selector",
		fmt.Sprintf("Mask Selector v%s\n\n"+
			"Interactive image mask editing with region select,\n"+
			"brush, lasso, and morphological refinement.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
