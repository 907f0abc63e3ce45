// Package region turns per-pixel class maps into selectable connected regions.
//
// A ClassBuffer is the output of a segmentation backend: one non-negative
// class id per pixel, with class 0 reserved for background. The buffer is
// read-only to the editor; selection extracts the 4-connected component of
// same-class pixels around a seed.
package region

import (
	"fmt"

	"github.com/Kushalc123/maskselector/internal/mask"
)

// Background is the class id meaning "no selectable object at this pixel".
const Background = 0

// ClassBuffer is a dense row-major grid of per-pixel class ids.
type ClassBuffer struct {
	width   int
	height  int
	classes []int
}

// NewClassBuffer wraps a class-id grid. The slice length must equal
// width*height and every id must be non-negative.
func NewClassBuffer(width, height int, classes []int) (*ClassBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("region: invalid dimensions %dx%d", width, height)
	}
	if len(classes) != width*height {
		return nil, fmt.Errorf("region: class buffer has %d entries, want %d", len(classes), width*height)
	}
	for i, c := range classes {
		if c < 0 {
			return nil, fmt.Errorf("region: negative class id %d at index %d", c, i)
		}
	}
	return &ClassBuffer{width: width, height: height, classes: classes}, nil
}

// Width returns the buffer width in pixels.
func (b *ClassBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *ClassBuffer) Height() int { return b.height }

// At returns the class id at (x, y). Out-of-range coordinates read as
// Background.
func (b *ClassBuffer) At(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Background
	}
	return b.classes[y*b.width+x]
}

// Select returns the maximal 4-connected region of pixels sharing the seed's
// class, as a mask of the buffer's dimensions. A background or out-of-range
// seed yields an all-unselected mask. The result depends only on the buffer
// contents and the seed, never on traversal order.
func (b *ClassBuffer) Select(seedX, seedY int) *mask.Mask {
	m := mask.New(b.width, b.height)

	seedClass := b.At(seedX, seedY)
	if seedClass == Background {
		return m
	}

	// BFS over linear indices; the result mask doubles as the visited set
	// since membership and visitation coincide.
	start := seedY*b.width + seedX
	m.Set(seedX, seedY, true)
	queue := []int{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cx := cur % b.width
		cy := cur / b.width

		for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= b.width || ny < 0 || ny >= b.height {
				continue
			}
			if m.Get(nx, ny) || b.classes[ny*b.width+nx] != seedClass {
				continue
			}
			m.Set(nx, ny, true)
			queue = append(queue, ny*b.width+nx)
		}
	}

	return m
}
