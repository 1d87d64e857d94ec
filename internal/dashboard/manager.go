package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/egorcha174/fusion-new-sub001/internal/device"
	"github.com/egorcha174/fusion-new-sub001/internal/grid"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/config"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/logging"
)

// Manager owns the persisted dashboard state: tabs with their grid
// layouts, device customizations, and card templates. Every mutation is
// validated in memory first and written through to the settings store on
// success.
//
// Thread Safety: all methods are safe for concurrent use; one mutex
// serialises mutations, so two simultaneous drag operations cannot
// interleave.
type Manager struct {
	store  Store
	cfg    config.DashboardConfig
	logger *logging.Logger

	mu             sync.Mutex
	tabs           []Tab
	activeTab      string
	customizations map[string]device.Customization
	templates      map[string]CardTemplate
}

// NewManager creates a manager bound to a settings store. Call Load before
// serving requests.
func NewManager(store Store, cfg config.DashboardConfig, logger *logging.Logger) *Manager {
	return &Manager{
		store:          store,
		cfg:            cfg,
		logger:         logger,
		customizations: make(map[string]device.Customization),
		templates:      make(map[string]CardTemplate),
	}
}

// Load reads all dashboard state from the store, upgrading older stored
// shapes in place. Absent keys mean a fresh install and load as empty.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if raw, err := m.get(ctx, keyTabs); err != nil {
		return err
	} else if raw != nil {
		migrated, err := MigrateTabs(raw)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(migrated, &m.tabs); err != nil {
			return fmt.Errorf("dashboard: decoding tabs: %w", err)
		}
		if string(migrated) != string(raw) {
			m.logger.Info("upgraded stored tab shapes", "tabs", len(m.tabs))
			if err := m.store.Put(ctx, keyTabs, migrated); err != nil {
				return err
			}
		}
	}

	if raw, err := m.get(ctx, keyActiveTab); err != nil {
		return err
	} else if raw != nil {
		if err := json.Unmarshal(raw, &m.activeTab); err != nil {
			return fmt.Errorf("dashboard: decoding active tab: %w", err)
		}
	}

	if raw, err := m.get(ctx, keyCustomizations); err != nil {
		return err
	} else if raw != nil {
		if err := json.Unmarshal(raw, &m.customizations); err != nil {
			return fmt.Errorf("dashboard: decoding customizations: %w", err)
		}
	}

	if raw, err := m.get(ctx, keyTemplates); err != nil {
		return err
	} else if raw != nil {
		migrated, err := MigrateTemplates(raw)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(migrated, &m.templates); err != nil {
			return fmt.Errorf("dashboard: decoding templates: %w", err)
		}
		if string(migrated) != string(raw) {
			m.logger.Info("upgraded stored template shapes", "templates", len(m.templates))
			if err := m.store.Put(ctx, keyTemplates, migrated); err != nil {
				return err
			}
		}
	}

	return nil
}

// get wraps Store.Get, flattening the not-found case to a nil blob.
func (m *Manager) get(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	return raw, err
}

// Tabs returns a copy of all tabs in order.
func (m *Manager) Tabs() []Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyTabs()
}

// Tab returns one tab by id.
func (m *Manager) Tab(id string) (Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.tabIndex(id)
	if idx < 0 {
		return Tab{}, fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	return copyTab(m.tabs[idx]), nil
}

// ActiveTab returns the active tab's id, or "" when no tabs exist.
func (m *Manager) ActiveTab() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeTab
}

// SetActiveTab switches the active tab pointer.
func (m *Manager) SetActiveTab(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tabIndex(id) < 0 {
		return fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	m.activeTab = id
	return m.persistActiveTab(ctx)
}

// CreateTab adds a tab with the configured default grid. The first tab
// created becomes active.
func (m *Manager) CreateTab(ctx context.Context, name string) (Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab := Tab{
		ID:   uuid.NewString(),
		Name: name,
		GridSettings: grid.Settings{
			Cols: m.cfg.DefaultCols,
			Rows: m.cfg.DefaultRows,
		},
	}
	m.tabs = append(m.tabs, tab)
	if len(m.tabs) == 1 {
		m.activeTab = tab.ID
		if err := m.persistActiveTab(ctx); err != nil {
			return Tab{}, err
		}
	}
	if err := m.persistTabs(ctx); err != nil {
		return Tab{}, err
	}
	return copyTab(tab), nil
}

// RenameTab changes a tab's display name.
func (m *Manager) RenameTab(ctx context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.tabIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	m.tabs[idx].Name = name
	return m.persistTabs(ctx)
}

// DeleteTab removes a tab. If it was active, the pointer cascades to the
// first remaining tab, or clears when none remain.
func (m *Manager) DeleteTab(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.tabIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	m.tabs = append(m.tabs[:idx], m.tabs[idx+1:]...)

	if m.activeTab == id {
		m.activeTab = ""
		if len(m.tabs) > 0 {
			m.activeTab = m.tabs[0].ID
		}
		if err := m.persistActiveTab(ctx); err != nil {
			return err
		}
	}
	return m.persistTabs(ctx)
}

// UpdateGridSettings resizes a tab's grid. Dimensions must be positive and
// must not strand any placed item outside the new bounds.
func (m *Manager) UpdateGridSettings(ctx context.Context, id string, settings grid.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.tabIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	if settings.Cols < 1 || settings.Rows < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGridSettings, settings.Cols, settings.Rows)
	}
	for _, item := range m.tabs[idx].Layout {
		if item.Col+math.Ceil(item.EffectiveWidth()) > float64(settings.Cols) ||
			item.Row+math.Ceil(item.EffectiveHeight()) > float64(settings.Rows) {
			return fmt.Errorf("%w: %dx%d would strand %s", ErrInvalidGridSettings,
				settings.Cols, settings.Rows, item.DeviceID)
		}
	}
	m.tabs[idx].GridSettings = settings
	return m.persistTabs(ctx)
}

// AddDevice places a device on a tab at the first free block, sized by its
// resolved card template (1×1 fallback). placed=false with a nil error
// means the grid had no free block; the layout is unchanged.
func (m *Manager) AddDevice(ctx context.Context, tabID, deviceID, templateID string) (placed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.tabIndex(tabID)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}

	width, height := 1.0, 1.0
	if templateID == "" {
		if cust, ok := m.customizations[deviceID]; ok && cust.TemplateID != nil {
			templateID = *cust.TemplateID
		}
	}
	if tpl, ok := m.templates[templateID]; ok {
		width, height = tpl.DefaultSize()
	}

	tab := &m.tabs[idx]
	layout, placed := grid.Add(tab.Layout, deviceID, width, height, tab.GridSettings)
	if !placed {
		return false, nil
	}
	tab.Layout = layout
	return true, m.persistTabs(ctx)
}

// MoveDevice drops a device onto a target cell. moved=false with a nil
// error is a rejected drop (collision, boundary, or half-row rule).
func (m *Manager) MoveDevice(ctx context.Context, tabID, deviceID string, col, row float64) (moved bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.tabIndex(tabID)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}
	tab := &m.tabs[idx]
	layout, moved := grid.Move(tab.Layout, deviceID, col, row, tab.GridSettings)
	if !moved {
		return false, nil
	}
	tab.Layout = layout
	return true, m.persistTabs(ctx)
}

// ResizeDevice changes a placed device's footprint. resized=false with a
// nil error is a rejected resize.
func (m *Manager) ResizeDevice(ctx context.Context, tabID, deviceID string, width, height float64) (resized bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.tabIndex(tabID)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}
	tab := &m.tabs[idx]
	layout, resized := grid.Resize(tab.Layout, deviceID, width, height, tab.GridSettings)
	if !resized {
		return false, nil
	}
	tab.Layout = layout
	return true, m.persistTabs(ctx)
}

// RemoveDevice deletes a device's placement from a tab.
func (m *Manager) RemoveDevice(ctx context.Context, tabID, deviceID string) (removed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.tabIndex(tabID)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}
	tab := &m.tabs[idx]
	layout, removed := grid.Remove(tab.Layout, deviceID)
	if !removed {
		return false, nil
	}
	tab.Layout = layout
	return true, m.persistTabs(ctx)
}

// Customizations returns a copy of all customizations keyed by device id.
func (m *Manager) Customizations() map[string]device.Customization {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]device.Customization, len(m.customizations))
	for k, v := range m.customizations {
		out[k] = v
	}
	return out
}

// SetCustomization stores a device's override record. An empty override
// deletes the entry instead, keeping the stored map sparse.
func (m *Manager) SetCustomization(ctx context.Context, deviceID string, cust device.Customization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cust.Empty() {
		delete(m.customizations, deviceID)
	} else {
		m.customizations[deviceID] = cust
	}
	return m.persistCustomizations(ctx)
}

// DeleteCustomization removes a device's override record.
func (m *Manager) DeleteCustomization(ctx context.Context, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.customizations, deviceID)
	return m.persistCustomizations(ctx)
}

// Templates returns a copy of all card templates keyed by id.
func (m *Manager) Templates() map[string]CardTemplate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]CardTemplate, len(m.templates))
	for k, v := range m.templates {
		out[k] = v
	}
	return out
}

// Template returns one card template by id.
func (m *Manager) Template(id string) (CardTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tpl, ok := m.templates[id]
	if !ok {
		return CardTemplate{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return tpl, nil
}

// SaveTemplate creates or replaces a card template. A template without an
// id is assigned one.
func (m *Manager) SaveTemplate(ctx context.Context, tpl CardTemplate) (CardTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	m.templates[tpl.ID] = tpl
	if err := m.persistTemplates(ctx); err != nil {
		return CardTemplate{}, err
	}
	return tpl, nil
}

// DeleteTemplate removes a card template.
func (m *Manager) DeleteTemplate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	delete(m.templates, id)
	return m.persistTemplates(ctx)
}

func (m *Manager) persistTabs(ctx context.Context) error {
	raw, err := json.Marshal(m.tabs)
	if err != nil {
		return fmt.Errorf("dashboard: encoding tabs: %w", err)
	}
	return m.store.Put(ctx, keyTabs, raw)
}

func (m *Manager) persistActiveTab(ctx context.Context) error {
	raw, err := json.Marshal(m.activeTab)
	if err != nil {
		return fmt.Errorf("dashboard: encoding active tab: %w", err)
	}
	return m.store.Put(ctx, keyActiveTab, raw)
}

func (m *Manager) persistCustomizations(ctx context.Context) error {
	raw, err := json.Marshal(m.customizations)
	if err != nil {
		return fmt.Errorf("dashboard: encoding customizations: %w", err)
	}
	return m.store.Put(ctx, keyCustomizations, raw)
}

func (m *Manager) persistTemplates(ctx context.Context) error {
	raw, err := json.Marshal(m.templates)
	if err != nil {
		return fmt.Errorf("dashboard: encoding templates: %w", err)
	}
	return m.store.Put(ctx, keyTemplates, raw)
}

func (m *Manager) tabIndex(id string) int {
	for i := range m.tabs {
		if m.tabs[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) copyTabs() []Tab {
	out := make([]Tab, len(m.tabs))
	for i, tab := range m.tabs {
		out[i] = copyTab(tab)
	}
	return out
}

func copyTab(tab Tab) Tab {
	cpy := tab
	cpy.Layout = append([]grid.Item(nil), tab.Layout...)
	return cpy
}
