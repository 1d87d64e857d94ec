package dashboard

import (
	"context"
	"testing"

	"github.com/egorcha174/fusion-new-sub001/internal/device"
	"github.com/egorcha174/fusion-new-sub001/internal/grid"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/config"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/logging"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store := newTestStore(t)
	logger := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"}, "test")
	m := NewManager(store, config.DashboardConfig{
		DefaultCols:         8,
		DefaultRows:         5,
		LowBatteryThreshold: 20,
	}, logger)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestCreateTabDefaults(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	tab, err := m.CreateTab(ctx, "Home")
	if err != nil {
		t.Fatalf("CreateTab: %v", err)
	}
	if tab.ID == "" {
		t.Error("tab has no id")
	}
	if tab.GridSettings.Cols != 8 || tab.GridSettings.Rows != 5 {
		t.Errorf("grid defaults: got %+v", tab.GridSettings)
	}
	if m.ActiveTab() != tab.ID {
		t.Error("first tab did not become active")
	}
}

func TestDeleteTabCascadesActivePointer(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	first, _ := m.CreateTab(ctx, "First")
	second, _ := m.CreateTab(ctx, "Second")

	if err := m.DeleteTab(ctx, first.ID); err != nil {
		t.Fatalf("DeleteTab: %v", err)
	}
	if m.ActiveTab() != second.ID {
		t.Errorf("active tab: got %q, want %q", m.ActiveTab(), second.ID)
	}

	if err := m.DeleteTab(ctx, second.ID); err != nil {
		t.Fatalf("DeleteTab: %v", err)
	}
	if m.ActiveTab() != "" {
		t.Errorf("active tab after last delete: got %q, want empty", m.ActiveTab())
	}
}

func TestManagerStatePersistsAcrossReload(t *testing.T) {
	store := newTestStore(t)
	logger := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"}, "test")
	cfg := config.DashboardConfig{DefaultCols: 4, DefaultRows: 4}
	ctx := context.Background()

	m1 := NewManager(store, cfg, logger)
	if err := m1.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	tab, _ := m1.CreateTab(ctx, "Home")
	if _, err := m1.AddDevice(ctx, tab.ID, "light.a", ""); err != nil {
		t.Fatalf("AddDevice: %v", err)
	}

	m2 := NewManager(store, cfg, logger)
	if err := m2.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := m2.Tab(tab.ID)
	if err != nil {
		t.Fatalf("Tab after reload: %v", err)
	}
	if len(got.Layout) != 1 || got.Layout[0].DeviceID != "light.a" {
		t.Errorf("layout after reload: %+v", got.Layout)
	}
	if m2.ActiveTab() != tab.ID {
		t.Error("active tab not persisted")
	}
}

func TestAddDeviceUsesTemplateSize(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	tpl, err := m.SaveTemplate(ctx, CardTemplate{
		Name:       "Wide sensor",
		DeviceType: device.TypeSensor,
		Width:      2,
		Height:     1,
	})
	if err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}

	tab, _ := m.CreateTab(ctx, "Home")
	placed, err := m.AddDevice(ctx, tab.ID, "sensor.a", tpl.ID)
	if err != nil || !placed {
		t.Fatalf("AddDevice: placed=%v err=%v", placed, err)
	}

	got, _ := m.Tab(tab.ID)
	if got.Layout[0].Width != 2 {
		t.Errorf("width from template: got %v, want 2", got.Layout[0].Width)
	}
}

func TestAddDeviceFullGridReportsNotPlaced(t *testing.T) {
	store := newTestStore(t)
	logger := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"}, "test")
	m := NewManager(store, config.DashboardConfig{DefaultCols: 1, DefaultRows: 1}, logger)
	ctx := context.Background()
	m.Load(ctx)

	tab, _ := m.CreateTab(ctx, "Tiny")
	if placed, _ := m.AddDevice(ctx, tab.ID, "a", ""); !placed {
		t.Fatal("first device not placed on an empty 1x1 grid")
	}
	placed, err := m.AddDevice(ctx, tab.ID, "b", "")
	if err != nil {
		t.Fatalf("full-grid add errored: %v", err)
	}
	if placed {
		t.Error("device placed on a full grid")
	}
}

func TestMoveDeviceRejectionKeepsLayout(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	tab, _ := m.CreateTab(ctx, "Home")
	m.AddDevice(ctx, tab.ID, "a", "") // (0,0)
	m.AddDevice(ctx, tab.ID, "b", "") // (1,0)

	moved, err := m.MoveDevice(ctx, tab.ID, "b", 0, 0)
	if err != nil {
		t.Fatalf("MoveDevice: %v", err)
	}
	if moved {
		t.Error("move onto an occupied cell committed")
	}
	got, _ := m.Tab(tab.ID)
	if got.Layout[1].Col != 1 || got.Layout[1].Row != 0 {
		t.Errorf("rejected move changed the layout: %+v", got.Layout[1])
	}
}

func TestUpdateGridSettingsRejectsStranding(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	tab, _ := m.CreateTab(ctx, "Home")
	m.AddDevice(ctx, tab.ID, "a", "")
	m.MoveDevice(ctx, tab.ID, "a", 7, 4)

	err := m.UpdateGridSettings(ctx, tab.ID, grid.Settings{Cols: 4, Rows: 4})
	if err == nil {
		t.Fatal("shrink that strands an item was accepted")
	}

	if err := m.UpdateGridSettings(ctx, tab.ID, grid.Settings{Cols: 10, Rows: 6}); err != nil {
		t.Errorf("legal grow rejected: %v", err)
	}
}

func TestCustomizationsStaySparse(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	hidden := true
	if err := m.SetCustomization(ctx, "light.a", device.Customization{Hidden: &hidden}); err != nil {
		t.Fatalf("SetCustomization: %v", err)
	}
	if len(m.Customizations()) != 1 {
		t.Fatal("customization not stored")
	}

	// Writing an empty override removes the record entirely.
	if err := m.SetCustomization(ctx, "light.a", device.Customization{}); err != nil {
		t.Fatalf("clearing customization: %v", err)
	}
	if len(m.Customizations()) != 0 {
		t.Error("empty override left a record behind")
	}
}

func TestTemplateLifecycle(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	tpl, err := m.SaveTemplate(ctx, CardTemplate{Name: "Light card", DeviceType: device.TypeLight})
	if err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}
	if tpl.ID == "" {
		t.Fatal("template was not assigned an id")
	}

	if _, err := m.Template(tpl.ID); err != nil {
		t.Errorf("Template: %v", err)
	}
	if err := m.DeleteTemplate(ctx, tpl.ID); err != nil {
		t.Errorf("DeleteTemplate: %v", err)
	}
	if err := m.DeleteTemplate(ctx, tpl.ID); err == nil {
		t.Error("deleting an absent template did not error")
	}
}
