// Command maskrefine applies morphological closing passes to an exported
// mask file, for batch cleanup outside the editor.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Kushalc123/maskselector/internal/imageio"
	"github.com/Kushalc123/maskselector/internal/mask"
)

func main() {
	inPath := flag.String("in", "", "Path to the mask image (PNG or WebP)")
	outPath := flag.String("out", "", "Output path (default: overwrite input)")
	iterations := flag.Int("iterations", 1, "Number of closing passes")
	invert := flag.Bool("invert", false, "Invert the mask after refining")
	flag.Parse()

	if *inPath == "" {
		fmt.Println("Usage: maskrefine -in <mask.png> [-out refined.png] [-iterations 1] [-invert]")
		os.Exit(1)
	}
	if *outPath == "" {
		*outPath = *inPath
	}

	m, err := imageio.LoadMask(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load mask: %v\n", err)
		os.Exit(1)
	}
	before := m.Count()

	m = mask.Refine(m, *iterations)
	if *invert {
		m = mask.Inverted(m)
	}

	if err := imageio.SaveMask(*outPath, m); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save mask: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Refined %s: %d -> %d selected pixels (%d passes)\n",
		*inPath, before, m.Count(), *iterations)
	fmt.Printf("Wrote %s\n", *outPath)
}
