package device

// NoTemplate is the explicit "render without a template" sentinel for
// Customization.TemplateID. A nil TemplateID means "unset, use the type's
// default template"; NoTemplate means the user chose plain rendering.
const NoTemplate = "none"

// Customization is a user-authored per-device override record. Every field
// is optional; a nil field leaves the device's derived value untouched.
// The zero value is a valid empty override.
type Customization struct {
	Name       *string     `json:"name,omitempty"`
	Type       *DeviceType `json:"type,omitempty"`
	Icon       *string     `json:"icon,omitempty"`
	Hidden     *bool       `json:"is_hidden,omitempty"`
	TemplateID *string     `json:"template_id,omitempty"`

	// LowBatteryThreshold overrides the dashboard-wide threshold for this
	// device's battery warning, in percent.
	LowBatteryThreshold *int `json:"low_battery_threshold,omitempty"`
}

// Empty reports whether the customization overrides nothing.
func (c Customization) Empty() bool {
	return c.Name == nil && c.Type == nil && c.Icon == nil &&
		c.Hidden == nil && c.TemplateID == nil && c.LowBatteryThreshold == nil
}

// apply merges the customization into a mapped device. Overrides always win
// over derived values; absent fields change nothing.
func (c Customization) apply(d *Device) {
	if c.Name != nil && *c.Name != "" {
		d.Name = *c.Name
	}
	if c.Type != nil && c.Type.Valid() {
		d.Type = *c.Type
	}
	if c.Icon != nil {
		d.Icon = *c.Icon
	}
	if c.Hidden != nil {
		d.Hidden = *c.Hidden
	}
	if c.TemplateID != nil && *c.TemplateID != NoTemplate {
		d.TemplateID = *c.TemplateID
	}
}
