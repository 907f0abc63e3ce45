package mask

// Refine applies iterations rounds of a morphological closing pass: a
// dilation step where a pixel becomes selected when any of its 8 neighbors is
// selected, followed by an erosion step where a selected pixel becomes
// unselected when any of its 8 neighbors is unselected. This smooths jagged
// boundaries and fills single-pixel gaps; isolated single pixels do not
// survive the neighbor-only dilation.
//
// Neighbor checks run only where a full 3x3 neighborhood exists, so the
// outermost pixel ring is carried over unmodified. This is a deliberate edge
// policy. The input is not mutated; iterations below 1 are clamped to 1.
func Refine(m *Mask, iterations int) *Mask {
	if iterations < 1 {
		iterations = 1
	}

	cur := m.Clone()
	if m.width < 3 || m.height < 3 {
		// No interior pixels to operate on
		return cur
	}

	for i := 0; i < iterations; i++ {
		cur = erode(dilate(cur))
	}
	return cur
}

// Inverted returns the logical complement of the mask without mutating it.
func Inverted(m *Mask) *Mask {
	c := m.Clone()
	c.Invert()
	return c
}

// dilate selects every interior pixel that has at least one selected
// 8-neighbor. The pixel's own prior state does not carry over: a selected
// pixel with no selected neighbor drops out.
func dilate(src *Mask) *Mask {
	dst := src.Clone()
	for y := 1; y < src.height-1; y++ {
		for x := 1; x < src.width-1; x++ {
			dst.selected[y*src.width+x] = anyNeighborSelected(src, x, y)
		}
	}
	return dst
}

// erode unselects every interior selected pixel that has at least one
// unselected 8-neighbor.
func erode(src *Mask) *Mask {
	dst := src.Clone()
	for y := 1; y < src.height-1; y++ {
		for x := 1; x < src.width-1; x++ {
			i := y*src.width + x
			if src.selected[i] && !allNeighborsSelected(src, x, y) {
				dst.selected[i] = false
			}
		}
	}
	return dst
}

func anyNeighborSelected(m *Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if m.selected[(y+dy)*m.width+(x+dx)] {
				return true
			}
		}
	}
	return false
}

func allNeighborsSelected(m *Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if !m.selected[(y+dy)*m.width+(x+dx)] {
				return false
			}
		}
	}
	return true
}
