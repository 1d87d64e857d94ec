package grid

import "math"

// FindPlacement scans the grid top-left to bottom-right for the first
// origin whose full ceil(width)×ceil(height) block is free, using an
// occupied-cell set built from the existing layout's ceil-expanded
// footprints. Returns ok=false when no block fits; placement is best
// effort and the caller leaves the layout unchanged in that case.
func FindPlacement(layout []Item, width, height float64, settings Settings) (col, row float64, ok bool) {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	needW := int(math.Ceil(width))
	needH := int(math.Ceil(height))
	if needW > settings.Cols || needH > settings.Rows {
		return 0, 0, false
	}

	occupied := occupiedCells(layout)

	for r := 0; r <= settings.Rows-needH; r++ {
		for c := 0; c <= settings.Cols-needW; c++ {
			if blockFree(occupied, c, r, needW, needH) {
				return float64(c), float64(r), true
			}
		}
	}
	return 0, 0, false
}

type cell struct{ col, row int }

// occupiedCells marks every whole cell touched by an item's ceil-expanded
// footprint. Half-height cards claim their full cell here: auto-placement
// never stacks, only explicit drags do.
func occupiedCells(layout []Item) map[cell]bool {
	occupied := make(map[cell]bool)
	for _, item := range layout {
		startCol := int(math.Floor(item.Col))
		startRow := int(math.Floor(item.Row))
		endCol := int(math.Ceil(item.Col + item.EffectiveWidth()))
		endRow := int(math.Ceil(item.Row + item.EffectiveHeight()))
		for r := startRow; r < endRow; r++ {
			for c := startCol; c < endCol; c++ {
				occupied[cell{c, r}] = true
			}
		}
	}
	return occupied
}

func blockFree(occupied map[cell]bool, col, row, w, h int) bool {
	for r := row; r < row+h; r++ {
		for c := col; c < col+w; c++ {
			if occupied[cell{c, r}] {
				return false
			}
		}
	}
	return true
}
