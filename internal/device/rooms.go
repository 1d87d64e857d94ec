package device

import (
	"sort"

	"github.com/egorcha174/fusion-new-sub001/internal/hass"
)

// AggregateInput bundles the raw tables one aggregation pass reads. All
// slices come straight from the live state mirror; the aggregator never
// mutates them.
type AggregateInput struct {
	Entities       []hass.Entity
	Areas          []hass.AreaRecord
	Physical       []hass.DeviceRecord
	Registry       []hass.RegistryEntry
	Customizations map[string]Customization
	Forecasts      map[string][]ForecastStep
	ShowHidden     bool
}

// MapEntitiesToRooms groups mapped devices into rooms. Resolution chain per
// entity: the registry entry's own area id, else the owning physical
// device's area id, else the synthetic no-area bucket. Lookup maps keep the
// pass at O(entities + areas + devices).
//
// Entities hidden by customization are skipped unless ShowHidden is set.
// Rooms with no visible devices are omitted. Devices within a room and rooms
// themselves are ordered by name for a stable result.
func MapEntitiesToRooms(in AggregateInput) []Room {
	registryByEntity := make(map[string]hass.RegistryEntry, len(in.Registry))
	for _, r := range in.Registry {
		registryByEntity[r.EntityID] = r
	}
	physicalByID := make(map[string]hass.DeviceRecord, len(in.Physical))
	for _, p := range in.Physical {
		physicalByID[p.ID] = p
	}

	rooms := make(map[string]*Room, len(in.Areas)+1)
	for _, a := range in.Areas {
		rooms[a.AreaID] = &Room{ID: a.AreaID, Name: a.Name}
	}
	rooms[NoAreaRoomID] = &Room{ID: NoAreaRoomID, Name: "No area"}

	for _, e := range in.Entities {
		cust := in.Customizations[e.EntityID]
		if !in.ShowHidden && cust.Hidden != nil && *cust.Hidden {
			continue
		}
		d := MapEntity(e, cust, in.Forecasts[e.EntityID])
		if d == nil {
			continue
		}

		areaID := resolveArea(e.EntityID, registryByEntity, physicalByID)
		room, ok := rooms[areaID]
		if !ok {
			// Registry references an area missing from the area table;
			// fall back rather than drop the device.
			room = rooms[NoAreaRoomID]
		}
		room.Devices = append(room.Devices, *d)
	}

	return collectRooms(rooms)
}

// PhysicalDevice is one physical unit with all of its mapped entities, for
// the whole-device card feature.
type PhysicalDevice struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Entities []Device `json:"entities"`
}

// PhysicalRoom groups physical devices by area.
type PhysicalRoom struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Devices []PhysicalDevice `json:"devices"`
}

// MapToRoomsWithPhysicalDevices groups by physical device rather than by
// individual entity: each physical unit becomes one card carrying all of
// its entities. Entities with no physical device are skipped here (they
// have nothing to group under). The area resolution chain is the same as
// MapEntitiesToRooms.
func MapToRoomsWithPhysicalDevices(in AggregateInput) []PhysicalRoom {
	registryByEntity := make(map[string]hass.RegistryEntry, len(in.Registry))
	for _, r := range in.Registry {
		registryByEntity[r.EntityID] = r
	}
	physicalByID := make(map[string]hass.DeviceRecord, len(in.Physical))
	for _, p := range in.Physical {
		physicalByID[p.ID] = p
	}

	groups := make(map[string]*PhysicalDevice)
	groupArea := make(map[string]string)

	for _, e := range in.Entities {
		cust := in.Customizations[e.EntityID]
		if !in.ShowHidden && cust.Hidden != nil && *cust.Hidden {
			continue
		}
		reg, ok := registryByEntity[e.EntityID]
		if !ok || reg.DeviceID == nil {
			continue
		}
		phys, ok := physicalByID[*reg.DeviceID]
		if !ok {
			continue
		}
		d := MapEntity(e, cust, in.Forecasts[e.EntityID])
		if d == nil {
			continue
		}

		group, ok := groups[phys.ID]
		if !ok {
			group = &PhysicalDevice{ID: phys.ID, Name: phys.DisplayName()}
			groups[phys.ID] = group
			groupArea[phys.ID] = resolveArea(e.EntityID, registryByEntity, physicalByID)
		}
		group.Entities = append(group.Entities, *d)
	}

	rooms := make(map[string]*PhysicalRoom)
	for _, a := range in.Areas {
		rooms[a.AreaID] = &PhysicalRoom{ID: a.AreaID, Name: a.Name}
	}
	rooms[NoAreaRoomID] = &PhysicalRoom{ID: NoAreaRoomID, Name: "No area"}

	for id, group := range groups {
		areaID := groupArea[id]
		room, ok := rooms[areaID]
		if !ok {
			room = rooms[NoAreaRoomID]
		}
		sort.Slice(group.Entities, func(i, j int) bool { return group.Entities[i].ID < group.Entities[j].ID })
		room.Devices = append(room.Devices, *group)
	}

	out := make([]PhysicalRoom, 0, len(rooms))
	for _, room := range rooms {
		if len(room.Devices) == 0 {
			continue
		}
		sort.Slice(room.Devices, func(i, j int) bool { return room.Devices[i].Name < room.Devices[j].Name })
		out = append(out, *room)
	}
	sort.Slice(out, func(i, j int) bool { return roomLess(out[i].ID, out[i].Name, out[j].ID, out[j].Name) })
	return out
}

// resolveArea runs the two-step area resolution for one entity id.
func resolveArea(entityID string, registryByEntity map[string]hass.RegistryEntry, physicalByID map[string]hass.DeviceRecord) string {
	reg, ok := registryByEntity[entityID]
	if !ok {
		return NoAreaRoomID
	}
	if reg.AreaID != nil && *reg.AreaID != "" {
		return *reg.AreaID
	}
	if reg.DeviceID != nil {
		if phys, ok := physicalByID[*reg.DeviceID]; ok && phys.AreaID != nil && *phys.AreaID != "" {
			return *phys.AreaID
		}
	}
	return NoAreaRoomID
}

func collectRooms(rooms map[string]*Room) []Room {
	out := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		if len(room.Devices) == 0 {
			continue
		}
		sort.Slice(room.Devices, func(i, j int) bool { return room.Devices[i].Name < room.Devices[j].Name })
		out = append(out, *room)
	}
	sort.Slice(out, func(i, j int) bool { return roomLess(out[i].ID, out[i].Name, out[j].ID, out[j].Name) })
	return out
}

// roomLess orders rooms by name, with the no-area bucket always last.
func roomLess(idA, nameA, idB, nameB string) bool {
	if idA == NoAreaRoomID {
		return false
	}
	if idB == NoAreaRoomID {
		return true
	}
	return nameA < nameB
}
