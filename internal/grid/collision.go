package grid

import "math"

// maxStackedPerOrigin is the number of half-height cards one origin can
// hold under the stacking exception.
const maxStackedPerOrigin = 2

// CheckCollision reports whether placing candidate into layout would
// violate the boundary or overlap rules. ignoreDeviceID excludes the item
// being moved or resized from the scan (pass "" when adding).
//
// Boundary rule: negative origin, or a ceil-expanded footprint extending
// past the grid edge, is always a collision regardless of other items.
//
// Overlap rule: axis-aligned rectangle intersection against every other
// item, with one exception: two 1×0.5 cards may share the exact same
// origin as long as fewer than maxStackedPerOrigin other cards already sit
// there.
func CheckCollision(layout []Item, candidate Item, settings Settings, ignoreDeviceID string) bool {
	w := candidate.EffectiveWidth()
	h := candidate.EffectiveHeight()

	if candidate.Col < 0 || candidate.Row < 0 {
		return true
	}
	if candidate.Col+math.Ceil(w) > float64(settings.Cols) {
		return true
	}
	if candidate.Row+math.Ceil(h) > float64(settings.Rows) {
		return true
	}

	for _, other := range layout {
		if other.DeviceID == ignoreDeviceID {
			continue
		}
		if !rectsOverlap(candidate, other) {
			continue
		}
		if stackingAllowed(layout, candidate, other, ignoreDeviceID) {
			continue
		}
		return true
	}
	return false
}

// rectsOverlap is the standard AABB intersection test on cell coordinates.
func rectsOverlap(a, b Item) bool {
	return a.Col < b.Col+b.EffectiveWidth() &&
		a.Col+a.EffectiveWidth() > b.Col &&
		a.Row < b.Row+b.EffectiveHeight() &&
		a.Row+a.EffectiveHeight() > b.Row
}

// stackingAllowed applies the half-height stacking exception: both cards
// are 1×0.5, they share the exact origin, and the origin holds fewer than
// maxStackedPerOrigin other cards (the moved item excluded).
func stackingAllowed(layout []Item, candidate, conflicting Item, ignoreDeviceID string) bool {
	if !candidate.halfHeight() || !conflicting.halfHeight() {
		return false
	}
	if candidate.Col != conflicting.Col || candidate.Row != conflicting.Row {
		return false
	}
	occupants := 0
	for _, other := range layout {
		if other.DeviceID == ignoreDeviceID {
			continue
		}
		if other.Col == candidate.Col && other.Row == candidate.Row {
			occupants++
		}
	}
	return occupants < maxStackedPerOrigin
}
