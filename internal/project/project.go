// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// File represents a mask editing project file (.maskproj). It ties a source
// image to its exported mask and remembers the user's tool settings so a
// session can be resumed.
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Paths relative to the project file
	ImagePath string `json:"image,omitempty"`
	MaskPath  string `json:"mask,omitempty"`

	// User settings
	Settings Settings `json:"settings,omitempty"`
}

// Settings holds per-project tool preferences.
type Settings struct {
	BrushRadius      float64 `json:"brush_radius,omitempty"`
	RefineIterations int     `json:"refine_iterations,omitempty"`
	OverlayAlpha     float64 `json:"overlay_alpha,omitempty"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Settings: Settings{
			BrushRadius:      8,
			RefineIterations: 1,
			OverlayAlpha:     0.45,
		},
	}
}

// Load loads a project from a .maskproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage sets the source image path (relative to the project).
func (p *File) SetImage(projectPath, imagePath string) {
	p.ImagePath = relOrAbs(projectPath, imagePath)
	p.Modified = time.Now()
}

// SetMask sets the exported mask path (relative to the project).
func (p *File) SetMask(projectPath, maskPath string) {
	p.MaskPath = relOrAbs(projectPath, maskPath)
	p.Modified = time.Now()
}

// GetImagePath returns the absolute path to the source image.
func (p *File) GetImagePath(projectPath string) string {
	return absolute(projectPath, p.ImagePath)
}

// GetMaskPath returns the absolute path to the mask file. When no mask has
// been exported yet, a default next to the project file is suggested.
func (p *File) GetMaskPath(projectPath string) string {
	if p.MaskPath == "" {
		base := projectPath[:len(projectPath)-len(filepath.Ext(projectPath))]
		return base + "_mask.png"
	}
	return absolute(projectPath, p.MaskPath)
}

func relOrAbs(projectPath, target string) string {
	rel, err := filepath.Rel(filepath.Dir(projectPath), target)
	if err != nil {
		return target
	}
	return rel
}

func absolute(projectPath, stored string) string {
	if stored == "" {
		return ""
	}
	if filepath.IsAbs(stored) {
		return stored
	}
	return filepath.Join(filepath.Dir(projectPath), stored)
}
