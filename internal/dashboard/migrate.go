package dashboard

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Stored shapes have changed over time. Older databases may hold tabs with
// an explicit card-grouping scheme, layouts that are bare ordered id lists
// without coordinates, camelCase keys from the original web client, and
// template element collections stored as objects keyed by element id.
//
// Each upgrade is a pure map -> map transformation; MigrateTabs and
// MigrateTemplates compose them in order on load. Running a migration over
// already-current data is a no-op, so re-migration is idempotent.

// tabMigrations apply to each tab object, in order.
var tabMigrations = []func(map[string]any) map[string]any{
	renameCamelCaseTabKeys,
	collapseGroupedLayout,
	expandFlatLayoutCoords,
}

// MigrateTabs upgrades a stored tab-list blob to the current shape.
func MigrateTabs(raw json.RawMessage) (json.RawMessage, error) {
	var tabs []map[string]any
	if err := json.Unmarshal(raw, &tabs); err != nil {
		return nil, fmt.Errorf("dashboard: decoding stored tabs: %w", err)
	}
	for i, tab := range tabs {
		for _, migrate := range tabMigrations {
			tab = migrate(tab)
		}
		tabs[i] = tab
	}
	out, err := json.Marshal(tabs)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encoding migrated tabs: %w", err)
	}
	return out, nil
}

// MigrateTemplates upgrades a stored template-map blob to the current shape.
func MigrateTemplates(raw json.RawMessage) (json.RawMessage, error) {
	var templates map[string]map[string]any
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("dashboard: decoding stored templates: %w", err)
	}
	for _, tpl := range templates {
		objectElementsToArray(tpl)
	}
	out, err := json.Marshal(templates)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encoding migrated templates: %w", err)
	}
	return out, nil
}

// renameCamelCaseTabKeys maps the original client's camelCase keys onto
// the current snake_case ones. Current-shape keys pass through untouched.
func renameCamelCaseTabKeys(tab map[string]any) map[string]any {
	if v, ok := tab["gridSettings"]; ok {
		if _, exists := tab["grid_settings"]; !exists {
			tab["grid_settings"] = v
		}
		delete(tab, "gridSettings")
	}
	layout, ok := tab["layout"].([]any)
	if !ok {
		return tab
	}
	for _, entry := range layout {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := item["deviceId"]; ok {
			if _, exists := item["device_id"]; !exists {
				item["device_id"] = v
			}
			delete(item, "deviceId")
		}
	}
	return tab
}

// collapseGroupedLayout flattens the legacy grouping scheme — a "groups"
// array of {name, devices[]} — into one ordered device-id list, preserving
// group order then in-group order.
func collapseGroupedLayout(tab map[string]any) map[string]any {
	groups, ok := tab["groups"].([]any)
	if !ok {
		return tab
	}
	var flat []any
	for _, g := range groups {
		group, ok := g.(map[string]any)
		if !ok {
			continue
		}
		devices, ok := group["devices"].([]any)
		if !ok {
			continue
		}
		flat = append(flat, devices...)
	}
	tab["layout"] = flat
	delete(tab, "groups")
	return tab
}

// expandFlatLayoutCoords turns a bare ordered id list into positioned
// layout items, assigning row-major coordinates from the tab's column
// count. Layouts already carrying objects pass through untouched.
func expandFlatLayoutCoords(tab map[string]any) map[string]any {
	layout, ok := tab["layout"].([]any)
	if !ok || len(layout) == 0 {
		return tab
	}
	cols := tabCols(tab)

	expanded := make([]any, 0, len(layout))
	changed := false
	for i, entry := range layout {
		id, isString := entry.(string)
		if !isString {
			expanded = append(expanded, entry)
			continue
		}
		changed = true
		expanded = append(expanded, map[string]any{
			"device_id": id,
			"col":       float64(i % cols),
			"row":       float64(i / cols),
		})
	}
	if changed {
		tab["layout"] = expanded
	}
	return tab
}

// objectElementsToArray converts a template's elements stored as an
// object-of-objects into an array, tagging each entry with its former key
// as id. Keys are sorted so the result is deterministic.
func objectElementsToArray(tpl map[string]any) {
	elements, ok := tpl["elements"].(map[string]any)
	if !ok {
		return
	}
	keys := make([]string, 0, len(elements))
	for k := range elements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	arr := make([]any, 0, len(keys))
	for _, k := range keys {
		element, ok := elements[k].(map[string]any)
		if !ok {
			continue
		}
		if _, exists := element["id"]; !exists {
			element["id"] = k
		}
		arr = append(arr, element)
	}
	tpl["elements"] = arr
}

// tabCols reads the tab's column count, defaulting to 8 for records
// predating grid settings.
func tabCols(tab map[string]any) int {
	settings, ok := tab["grid_settings"].(map[string]any)
	if !ok {
		return 8
	}
	cols, ok := settings["cols"].(float64)
	if !ok || cols < 1 {
		return 8
	}
	return int(cols)
}
