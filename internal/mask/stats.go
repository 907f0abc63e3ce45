package mask

import (
	"gonum.org/v1/gonum/stat"

	"github.com/Kushalc123/maskselector/pkg/geometry"
)

// Stats summarizes a mask's selection for display.
type Stats struct {
	Selected int              // number of selected pixels
	Total    int              // total pixels in the mask
	Coverage float64          // Selected / Total, 0 for an empty mask
	Centroid geometry.Point2D // mean position of selected pixels
}

// Summarize computes selection statistics. The centroid is the zero point
// when nothing is selected.
func Summarize(m *Mask) Stats {
	s := Stats{Total: m.width * m.height}
	if s.Total == 0 {
		return s
	}

	var xs, ys []float64
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.selected[y*m.width+x] {
				xs = append(xs, float64(x))
				ys = append(ys, float64(y))
			}
		}
	}

	s.Selected = len(xs)
	s.Coverage = float64(s.Selected) / float64(s.Total)
	if s.Selected > 0 {
		s.Centroid = geometry.Point2D{
			X: stat.Mean(xs, nil),
			Y: stat.Mean(ys, nil),
		}
	}
	return s
}
