package dashboard

import (
	"github.com/egorcha174/fusion-new-sub001/internal/device"
	"github.com/egorcha174/fusion-new-sub001/internal/grid"
)

// Tab is one named dashboard page with its own grid.
type Tab struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Layout       []grid.Item   `json:"layout"`
	GridSettings grid.Settings `json:"grid_settings"`
}

// CardElement is one sub-element of a card template (name, icon, value,
// chart). Position and size are percentages of the card's bounding box.
type CardElement struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Props  map[string]any `json:"props,omitempty"`
}

// CardTemplate describes the internal layout of a card and the default
// grid footprint used when a device of its type is first placed.
type CardTemplate struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	DeviceType device.DeviceType `json:"device_type"`
	Width      float64           `json:"width,omitempty"`
	Height     float64           `json:"height,omitempty"`
	Elements   []CardElement     `json:"elements"`
}

// DefaultSize returns the template's card footprint with the 1×1 fallback.
func (t *CardTemplate) DefaultSize() (width, height float64) {
	width, height = t.Width, t.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return width, height
}
