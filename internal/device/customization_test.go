package device

import "testing"

func strPtr(s string) *string       { return &s }
func boolPtr(b bool) *bool          { return &b }
func typePtr(t DeviceType) *DeviceType { return &t }

func TestCustomizationOverridesDerivedValues(t *testing.T) {
	d := MapEntity(entity("switch.pump", "on", map[string]any{"friendly_name": "Pump"}), Customization{
		Name:       strPtr("Pool Pump"),
		Type:       typePtr(TypeOutlet),
		Icon:       strPtr("mdi:pool"),
		Hidden:     boolPtr(true),
		TemplateID: strPtr("tpl-1"),
	}, nil)

	if d.Name != "Pool Pump" {
		t.Errorf("name: got %q", d.Name)
	}
	if d.Type != TypeOutlet {
		t.Errorf("type: got %s", d.Type)
	}
	if d.Icon != "mdi:pool" {
		t.Errorf("icon: got %q", d.Icon)
	}
	if !d.Hidden {
		t.Error("hidden override not applied")
	}
	if d.TemplateID != "tpl-1" {
		t.Errorf("template: got %q", d.TemplateID)
	}
}

func TestEmptyCustomizationChangesNothing(t *testing.T) {
	plain := MapEntity(entity("light.hall", "on", nil), Customization{}, nil)
	if plain.Name != "Hall" || plain.Type != TypeLight || plain.Hidden {
		t.Errorf("empty customization altered the device: %+v", plain)
	}
	if !(Customization{}).Empty() {
		t.Error("zero customization did not report Empty")
	}
}

func TestCustomizationInvalidTypeIgnored(t *testing.T) {
	bogus := DeviceType("hologram")
	d := MapEntity(entity("light.hall", "on", nil), Customization{Type: &bogus}, nil)
	if d.Type != TypeLight {
		t.Errorf("invalid type override applied: got %s", d.Type)
	}
}

func TestCustomizationNoTemplateSentinel(t *testing.T) {
	d := MapEntity(entity("light.hall", "on", nil), Customization{TemplateID: strPtr(NoTemplate)}, nil)
	if d.TemplateID != "" {
		t.Errorf("explicit no-template sentinel leaked into the device: %q", d.TemplateID)
	}
}

func TestCustomizationEmptyNameIgnored(t *testing.T) {
	d := MapEntity(entity("light.hall", "on", nil), Customization{Name: strPtr("")}, nil)
	if d.Name != "Hall" {
		t.Errorf("empty name override replaced the derived name: %q", d.Name)
	}
}
