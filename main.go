// Package main provides the entry point for the Mask Selector application.
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"github.com/Kushalc123/maskselector/internal/app"
	"github.com/Kushalc123/maskselector/internal/segment"
	"github.com/Kushalc123/maskselector/internal/version"
	"github.com/Kushalc123/maskselector/ui/mainwindow"
	"github.com/Kushalc123/maskselector/ui/prefs"
)

const appTitle = "Mask Selector"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("com.github.kushalc123.maskselector")
	fyneApp.Settings().SetTheme(&app.MaskSelectorTheme{})

	appPrefs := prefs.Load()

	state := app.NewState(newSegmenter(appPrefs))
	win := mainwindow.New(fyneApp, state, appPrefs)
	win.Resize(windowSize(appPrefs))

	// An image or project path may be given on the command line
	if len(os.Args) > 1 {
		openArg(state, win, os.Args[1])
	}

	setupHotReload(win, appPrefs)

	win.ShowAndRun()
}

// newSegmenter picks the segmentation backend: a model service when an
// endpoint is configured, the built-in threshold segmenter otherwise.
func newSegmenter(p *prefs.Prefs) segment.Segmenter {
	if endpoint := p.String(prefs.KeySegmentEndpoint); endpoint != "" {
		log.Printf("Using segmentation service at %s", endpoint)
		return segment.NewRemote(endpoint)
	}
	log.Println("No segmentation endpoint configured, using local segmenter")
	return segment.NewLocal()
}

func windowSize(p *prefs.Prefs) fyne.Size {
	w := float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1280))
	h := float32(p.FloatWithFallback(prefs.KeyWindowHeight, 800))
	return fyne.NewSize(w, h)
}

func openArg(state *app.State, win *mainwindow.MainWindow, path string) {
	switch filepath.Ext(path) {
	case ".maskproj":
		win.OpenProjectPath(path)
	default:
		if err := state.LoadImage(path); err != nil {
			log.Printf("Failed to load image %s: %v", path, err)
		}
	}
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled, and periodic preference saving on the same ticker.
func setupHotReload(win *mainwindow.MainWindow, appPrefs *prefs.Prefs) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	reloader.OnTick(func() {
		if err := appPrefs.Save(); err != nil {
			log.Printf("Failed to save preferences: %v", err)
		}
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if restart {
					_ = appPrefs.Save()
					log.Println("Hot reload: restarting...")
					if err := reloader.Restart(); err != nil {
						log.Printf("Hot reload: restart failed: %v", err)
					}
					return
				}
				reloader.ResetBaseline()
				reloader.Start()
			}, win.Window)
	})

	reloader.Start()
}
