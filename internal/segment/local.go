package segment

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"

	"github.com/Kushalc123/maskselector/internal/region"
)

// Local segments an image without a model service: grayscale conversion, an
// Otsu-style global threshold, then connected-component labeling. Each
// foreground component becomes its own class; background stays class 0. It
// is a rough stand-in for a semantic model but keeps click-select usable
// offline.
type Local struct {
	// MinRegionPixels suppresses components smaller than this by folding
	// them into the background. Zero keeps everything.
	MinRegionPixels int
}

// NewLocal creates a local segmenter with a small speckle filter.
func NewLocal() *Local {
	return &Local{MinRegionPixels: 16}
}

// Segment computes the class buffer for img.
func (l *Local) Segment(ctx context.Context, img image.Image) (*region.ClassBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBToGray)

	thresh := otsuThreshold(gray)

	bin := gocv.NewMat()
	defer bin.Close()
	gocv.Threshold(gray, &bin, float32(thresh), 255, gocv.ThresholdBinary)

	labels := gocv.NewMat()
	defer labels.Close()
	gocv.ConnectedComponents(bin, &labels)

	rows, cols := labels.Rows(), labels.Cols()
	classes := make([]int, rows*cols)
	counts := make(map[int]int)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := int(labels.GetIntAt(y, x))
			classes[y*cols+x] = c
			counts[c]++
		}
	}

	// Fold speckle components into the background
	if l.MinRegionPixels > 0 {
		for i, c := range classes {
			if c != region.Background && counts[c] < l.MinRegionPixels {
				classes[i] = region.Background
			}
		}
	}

	return region.NewClassBuffer(cols, rows, classes)
}

// otsuThreshold picks the intensity threshold maximizing the between-class
// variance of the grayscale histogram.
func otsuThreshold(gray gocv.Mat) int {
	var hist [256]float64
	rows, cols := gray.Rows(), gray.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			hist[gray.GetUCharAt(y, x)]++
		}
	}

	total := float64(rows * cols)
	if total == 0 {
		return 127
	}

	// Cumulative pixel counts and cumulative intensity mass
	var weighted [256]float64
	for i := range hist {
		weighted[i] = float64(i) * hist[i]
	}
	var cumCount, cumMass [256]float64
	floats.CumSum(cumCount[:], hist[:])
	floats.CumSum(cumMass[:], weighted[:])

	totalMass := cumMass[255]
	best, bestVar := 127, 0.0
	for t := 0; t < 256; t++ {
		wb := cumCount[t]
		wf := total - wb
		if wb == 0 || wf == 0 {
			continue
		}
		mb := cumMass[t] / wb
		mf := (totalMass - cumMass[t]) / wf
		v := wb * wf * (mb - mf) * (mb - mf)
		if v > bestVar {
			bestVar = v
			best = t
		}
	}
	return best
}
