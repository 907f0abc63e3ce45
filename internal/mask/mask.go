// Package mask provides the binary selection mask and its raster operations.
//
// A Mask is the single authoritative record of which pixels are selected.
// Any tinted or translucent on-screen representation is derived from it at
// render time and is never stored back.
package mask

import (
	"image"
	"image/color"
)

// Mask is a fixed-size per-pixel boolean selection grid.
type Mask struct {
	width    int
	height   int
	selected []bool
}

// New creates an all-unselected mask with the given dimensions.
// Non-positive dimensions yield an empty zero-size mask.
func New(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		width:    width,
		height:   height,
		selected: make([]bool, width*height),
	}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// Empty reports whether the mask has zero area.
func (m *Mask) Empty() bool { return m.width == 0 || m.height == 0 }

// Set marks the pixel at (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, value bool) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.selected[y*m.width+x] = value
}

// Get reports whether the pixel at (x, y) is selected.
// Out-of-range coordinates read as unselected.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.selected[y*m.width+x]
}

// Clear sets every pixel to unselected.
func (m *Mask) Clear() {
	for i := range m.selected {
		m.selected[i] = false
	}
}

// SelectAll sets every pixel to selected.
func (m *Mask) SelectAll() {
	for i := range m.selected {
		m.selected[i] = true
	}
}

// Invert flips every pixel in place.
func (m *Mask) Invert() {
	for i := range m.selected {
		m.selected[i] = !m.selected[i]
	}
}

// Clone returns a deep copy, suitable for history snapshots.
func (m *Mask) Clone() *Mask {
	c := &Mask{
		width:    m.width,
		height:   m.height,
		selected: make([]bool, len(m.selected)),
	}
	copy(c.selected, m.selected)
	return c
}

// Equal reports whether two masks have identical dimensions and selection.
func (m *Mask) Equal(other *Mask) bool {
	if other == nil || m.width != other.width || m.height != other.height {
		return false
	}
	for i := range m.selected {
		if m.selected[i] != other.selected[i] {
			return false
		}
	}
	return true
}

// Count returns the number of selected pixels.
func (m *Mask) Count() int {
	n := 0
	for _, s := range m.selected {
		if s {
			n++
		}
	}
	return n
}

// Union adds every selected pixel of other into m.
// Masks with mismatched dimensions are left unchanged.
func (m *Mask) Union(other *Mask) {
	if other == nil || m.width != other.width || m.height != other.height {
		return
	}
	for i, s := range other.selected {
		if s {
			m.selected[i] = true
		}
	}
}

// Subtract removes every selected pixel of other from m.
// Masks with mismatched dimensions are left unchanged.
func (m *Mask) Subtract(other *Mask) {
	if other == nil || m.width != other.width || m.height != other.height {
		return
	}
	for i, s := range other.selected {
		if s {
			m.selected[i] = false
		}
	}
}

// ToBinary returns the authoritative export view: a dense row-major grid
// where every entry is exactly 0 or 255, with no intermediate values.
func (m *Mask) ToBinary() []uint8 {
	out := make([]uint8, len(m.selected))
	for i, s := range m.selected {
		if s {
			out[i] = 255
		}
	}
	return out
}

// ToImage renders the mask as an opaque black/white image:
// selected pixels white (255,255,255,255), unselected black (0,0,0,255).
func (m *Mask) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.selected[y*m.width+x] {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{A: 255})
			}
		}
	}
	return img
}
