package canvas

import (
	"image"
	"image/color"

	"github.com/Kushalc123/maskselector/pkg/colorutil"
	"github.com/Kushalc123/maskselector/pkg/geometry"
)

const vertexMarkerSize = 3

// drawPolygonOutline draws the in-progress lasso: a polyline through the
// vertices in canvas coordinates, a dashed segment back to the first vertex,
// and a small square marker on each vertex.
func (mc *MaskCanvas) drawPolygonOutline(output *image.RGBA, points []geometry.Point2D) {
	col := colorutil.Yellow

	for i := 1; i < len(points); i++ {
		x1, y1 := mc.toCanvas(points[i-1])
		x2, y2 := mc.toCanvas(points[i])
		drawLine(output, x1, y1, x2, y2, col, false)
	}

	// Closing edge drawn dashed until the polygon is completed
	if len(points) > 2 {
		x1, y1 := mc.toCanvas(points[len(points)-1])
		x2, y2 := mc.toCanvas(points[0])
		drawLine(output, x1, y1, x2, y2, col, true)
	}

	for _, p := range points {
		x, y := mc.toCanvas(p)
		drawVertexMarker(output, x, y, col)
	}
}

func (mc *MaskCanvas) toCanvas(p geometry.Point2D) (int, int) {
	return int(p.X * mc.zoom), int(p.Y * mc.zoom)
}

// drawLine draws a line using Bresenham's algorithm. Dashed lines skip every
// other 4-pixel run.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, dashed bool) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	step := 0
	for {
		if !dashed || (step/4)%2 == 0 {
			setPixel(output, x1, y1, col)
		}
		step++

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

// drawVertexMarker draws a small filled square centered at (x, y).
func drawVertexMarker(output *image.RGBA, x, y int, col color.RGBA) {
	for dy := -vertexMarkerSize; dy <= vertexMarkerSize; dy++ {
		for dx := -vertexMarkerSize; dx <= vertexMarkerSize; dx++ {
			setPixel(output, x+dx, y+dy, col)
		}
	}
}

func setPixel(output *image.RGBA, x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= output.Bounds().Dx() || y >= output.Bounds().Dy() {
		return
	}
	output.SetRGBA(x, y, col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
