package mask

import (
	"math"

	"github.com/Kushalc123/maskselector/pkg/geometry"
)

// FillPolygon rasterizes a closed polygon (implicit edge from the last point
// back to the first) and sets every covered pixel to value. The interior is
// filled with an even-odd scanline pass and the boundary edges are rasterized
// explicitly, so vertices and edges are always included. Fewer than three
// points is a no-op.
func (m *Mask) FillPolygon(points []geometry.Point2D, value bool) {
	if len(points) < 3 {
		return
	}

	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))
	if yStart < 0 {
		yStart = 0
	}
	if yEnd >= m.height {
		yEnd = m.height - 1
	}

	n := len(points)
	for y := yStart; y <= yEnd; y++ {
		// Find all x intersections with polygon edges at this y
		var xIntersections []float64
		fy := float64(y)
		for i := 0; i < n; i++ {
			p1 := points[i]
			p2 := points[(i+1)%n]

			if (p1.Y <= fy && p2.Y > fy) || (p2.Y <= fy && p1.Y > fy) {
				t := (fy - p1.Y) / (p2.Y - p1.Y)
				xIntersections = append(xIntersections, p1.X+t*(p2.X-p1.X))
			}
		}

		// Sort intersections
		for i := 0; i < len(xIntersections)-1; i++ {
			for j := i + 1; j < len(xIntersections); j++ {
				if xIntersections[j] < xIntersections[i] {
					xIntersections[i], xIntersections[j] = xIntersections[j], xIntersections[i]
				}
			}
		}

		// Fill between pairs of intersections
		for i := 0; i+1 < len(xIntersections); i += 2 {
			x1 := int(math.Ceil(xIntersections[i]))
			x2 := int(math.Floor(xIntersections[i+1]))
			for x := x1; x <= x2; x++ {
				m.Set(x, y, value)
			}
		}
	}

	// Rasterize the boundary so edge pixels are covered regardless of the
	// scanline half-open convention.
	for i := 0; i < n; i++ {
		p1 := points[i]
		p2 := points[(i+1)%n]
		m.rasterLine(int(math.Round(p1.X)), int(math.Round(p1.Y)),
			int(math.Round(p2.X)), int(math.Round(p2.Y)), value)
	}
}

// StrokeSegment sets every pixel within radius of the line segment from-to to
// value. Round cap/join semantics: a zero-length segment covers a disc around
// the single point. The radius is clamped to a minimum of 1.
func (m *Mask) StrokeSegment(from, to geometry.Point2D, radius float64, value bool) {
	if radius < 1 {
		radius = 1
	}

	minX := int(math.Floor(math.Min(from.X, to.X) - radius))
	maxX := int(math.Ceil(math.Max(from.X, to.X) + radius))
	minY := int(math.Floor(math.Min(from.Y, to.Y) - radius))
	maxY := int(math.Ceil(math.Max(from.Y, to.Y) + radius))

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= m.width {
		maxX = m.width - 1
	}
	if maxY >= m.height {
		maxY = m.height - 1
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := geometry.Point2D{X: float64(x), Y: float64(y)}
			if geometry.SegmentDistance(p, from, to) <= radius {
				m.selected[y*m.width+x] = value
			}
		}
	}
}

// rasterLine sets the pixels of a line using Bresenham's algorithm.
func (m *Mask) rasterLine(x1, y1, x2, y2 int, value bool) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		m.Set(x1, y1, value)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}
