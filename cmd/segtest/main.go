// Command segtest runs the local segmenter on an image and writes a class
// map visualization for inspecting region boundaries.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/Kushalc123/maskselector/internal/imageio"
	"github.com/Kushalc123/maskselector/internal/region"
	"github.com/Kushalc123/maskselector/internal/segment"
)

var palette = []color.RGBA{
	{R: 230, G: 25, B: 75, A: 255},
	{R: 60, G: 180, B: 75, A: 255},
	{R: 255, G: 225, B: 25, A: 255},
	{R: 0, G: 130, B: 200, A: 255},
	{R: 245, G: 130, B: 48, A: 255},
	{R: 145, G: 30, B: 180, A: 255},
	{R: 70, G: 240, B: 240, A: 255},
	{R: 240, G: 50, B: 230, A: 255},
}

func main() {
	imagePath := flag.String("image", "", "Path to input image")
	outPath := flag.String("out", "classes.png", "Path for the class map visualization")
	minPixels := flag.Int("min-pixels", 16, "Minimum region size in pixels")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: segtest -image <path> [-out classes.png] [-min-pixels 16]")
		os.Exit(1)
	}

	img, err := imageio.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())

	segmenter := segment.NewLocal()
	segmenter.MinRegionPixels = *minPixels

	classes, err := segmenter.Segment(context.Background(), img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Segmentation failed: %v\n", err)
		os.Exit(1)
	}

	ids := make(map[int]int)
	viz := image.NewRGBA(image.Rect(0, 0, classes.Width(), classes.Height()))
	for y := 0; y < classes.Height(); y++ {
		for x := 0; x < classes.Width(); x++ {
			c := classes.At(x, y)
			ids[c]++
			if c == region.Background {
				viz.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			viz.SetRGBA(x, y, palette[c%len(palette)])
		}
	}

	fmt.Printf("Found %d classes (including background)\n", len(ids))
	for c, count := range ids {
		name := fmt.Sprintf("class %d", c)
		if c == region.Background {
			name = "background"
		}
		fmt.Printf("  %-12s %d px\n", name, count)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := png.Encode(f, viz); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote class map to %s\n", *outPath)
}
