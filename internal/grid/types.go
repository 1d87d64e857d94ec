package grid

import "math"

// Item is one device's placement on a tab's grid. Col and Row are
// zero-based cell coordinates; Row may land on a half-integer (increments
// of 0.5) for half-height stacking. Width and Height default to 1 when
// zero.
type Item struct {
	DeviceID string  `json:"device_id"`
	Col      float64 `json:"col"`
	Row      float64 `json:"row"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

// EffectiveWidth returns the item's width with the 1-cell default applied.
func (i Item) EffectiveWidth() float64 {
	if i.Width <= 0 {
		return 1
	}
	return i.Width
}

// EffectiveHeight returns the item's height with the 1-cell default applied.
func (i Item) EffectiveHeight() float64 {
	if i.Height <= 0 {
		return 1
	}
	return i.Height
}

// halfHeight reports whether the item is a stackable 1×0.5 card.
func (i Item) halfHeight() bool {
	return i.EffectiveWidth() == 1 && i.EffectiveHeight() == 0.5
}

// Settings are a tab's grid dimensions.
type Settings struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// isHalfStep reports whether v sits on a half-integer boundary (…, 0.5,
// 1.5, …) rather than a whole cell row.
func isHalfStep(v float64) bool {
	_, frac := math.Modf(v)
	return frac != 0
}
