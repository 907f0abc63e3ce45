// Package colorutil provides shared color utilities for overlay rendering.
package colorutil

import "image/color"

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 30, G: 136, B: 229, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// Blend composites tint over base at the given opacity (0..1) and returns an
// opaque result. Used for mask and preview overlays on the canvas.
func Blend(base color.RGBA, tint color.RGBA, alpha float64) color.RGBA {
	if alpha <= 0 {
		return base
	}
	if alpha > 1 {
		alpha = 1
	}
	inv := 1 - alpha
	return color.RGBA{
		R: uint8(float64(base.R)*inv + float64(tint.R)*alpha),
		G: uint8(float64(base.G)*inv + float64(tint.G)*alpha),
		B: uint8(float64(base.B)*inv + float64(tint.B)*alpha),
		A: 255,
	}
}

// ToRGBA converts any color to 8-bit RGBA.
func ToRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
