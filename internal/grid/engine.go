package grid

import "math"

// Layout mutations are pure: each operation returns a new slice and a flag
// reporting whether the mutation was committed. A rejected operation
// returns the input layout untouched; collision and boundary violations
// are silent no-ops, never errors. The caller re-presents the unchanged
// layout as implicit feedback.

// Add places a new device at the first free block in row-major scan order.
// Width and height come from the device's resolved card template (1×1
// fallback). Returns placed=false when the grid has no free block or the
// device already has a placement; the layout is returned unchanged.
func Add(layout []Item, deviceID string, width, height float64, settings Settings) (out []Item, placed bool) {
	for _, item := range layout {
		if item.DeviceID == deviceID {
			return layout, false
		}
	}
	col, row, ok := FindPlacement(layout, width, height, settings)
	if !ok {
		return layout, false
	}
	out = append(append([]Item(nil), layout...), Item{
		DeviceID: deviceID,
		Col:      col,
		Row:      row,
		Width:    width,
		Height:   height,
	})
	return out, true
}

// Move drops a device onto a target cell. A half-integer target row is
// reserved for half-height cards; a whole-height card dropped there is
// rejected outright. Otherwise the candidate keeps its current dimensions
// and commits only when the collision check passes.
func Move(layout []Item, deviceID string, col, row float64, settings Settings) (out []Item, moved bool) {
	idx := indexOf(layout, deviceID)
	if idx < 0 {
		return layout, false
	}
	current := layout[idx]

	if isHalfStep(row) && current.EffectiveHeight() == math.Trunc(current.EffectiveHeight()) {
		return layout, false
	}

	candidate := current
	candidate.Col = col
	candidate.Row = row
	if CheckCollision(layout, candidate, settings, deviceID) {
		return layout, false
	}

	out = append([]Item(nil), layout...)
	out[idx] = candidate
	return out, true
}

// Resize changes a device's dimensions at its current origin, committing
// only when the resized footprint collides with nothing.
func Resize(layout []Item, deviceID string, width, height float64, settings Settings) (out []Item, resized bool) {
	idx := indexOf(layout, deviceID)
	if idx < 0 {
		return layout, false
	}

	candidate := layout[idx]
	candidate.Width = width
	candidate.Height = height
	if CheckCollision(layout, candidate, settings, deviceID) {
		return layout, false
	}

	out = append([]Item(nil), layout...)
	out[idx] = candidate
	return out, true
}

// Remove deletes a device's placement. Removing an absent device is a
// no-op with removed=false.
func Remove(layout []Item, deviceID string) (out []Item, removed bool) {
	idx := indexOf(layout, deviceID)
	if idx < 0 {
		return layout, false
	}
	out = make([]Item, 0, len(layout)-1)
	out = append(out, layout[:idx]...)
	out = append(out, layout[idx+1:]...)
	return out, true
}

func indexOf(layout []Item, deviceID string) int {
	for i := range layout {
		if layout[i].DeviceID == deviceID {
			return i
		}
	}
	return -1
}
