package hass

import "sync"

// StateChange is one incremental update fanned out to subscribers after the
// in-memory tables have been updated. NewState is nil when the entity was
// removed from the platform.
type StateChange struct {
	EntityID string
	NewState *Entity
}

// StateStore holds the client's in-memory mirror of the platform: entity
// states keyed by entity id, plus the three registries (areas, physical
// devices, entity registry entries). Snapshots replace a table wholesale;
// state_changed events replace or delete single entries.
//
// Thread Safety: all methods are safe for concurrent use. Readers receive
// copies and never alias internal maps. Subscribers are invoked from the
// connection's read loop, so callbacks observe changes in arrival order;
// they must not block.
type StateStore struct {
	mu       sync.RWMutex
	entities map[string]Entity
	areas    map[string]AreaRecord
	devices  map[string]DeviceRecord
	registry map[string]RegistryEntry

	subMu       sync.RWMutex
	subscribers []func(StateChange)
}

// NewStateStore creates an empty store.
func NewStateStore() *StateStore {
	return &StateStore{
		entities: make(map[string]Entity),
		areas:    make(map[string]AreaRecord),
		devices:  make(map[string]DeviceRecord),
		registry: make(map[string]RegistryEntry),
	}
}

// InstallEntities replaces the entity table with a fresh snapshot.
func (s *StateStore) InstallEntities(snapshot []Entity) {
	next := make(map[string]Entity, len(snapshot))
	for _, e := range snapshot {
		next[e.EntityID] = e
	}
	s.mu.Lock()
	s.entities = next
	s.mu.Unlock()
}

// InstallAreas replaces the area registry with a fresh snapshot.
func (s *StateStore) InstallAreas(snapshot []AreaRecord) {
	next := make(map[string]AreaRecord, len(snapshot))
	for _, a := range snapshot {
		next[a.AreaID] = a
	}
	s.mu.Lock()
	s.areas = next
	s.mu.Unlock()
}

// InstallDevices replaces the physical-device registry with a fresh snapshot.
func (s *StateStore) InstallDevices(snapshot []DeviceRecord) {
	next := make(map[string]DeviceRecord, len(snapshot))
	for _, d := range snapshot {
		next[d.ID] = d
	}
	s.mu.Lock()
	s.devices = next
	s.mu.Unlock()
}

// InstallRegistry replaces the entity registry with a fresh snapshot.
func (s *StateStore) InstallRegistry(snapshot []RegistryEntry) {
	next := make(map[string]RegistryEntry, len(snapshot))
	for _, r := range snapshot {
		next[r.EntityID] = r
	}
	s.mu.Lock()
	s.registry = next
	s.mu.Unlock()
}

// ApplyStateChanged upserts (newState non-nil) or deletes (newState nil)
// a single entity, then notifies subscribers.
func (s *StateStore) ApplyStateChanged(entityID string, newState *Entity) {
	s.mu.Lock()
	if newState == nil {
		delete(s.entities, entityID)
	} else {
		s.entities[entityID] = *newState
	}
	s.mu.Unlock()

	change := StateChange{EntityID: entityID, NewState: newState}
	s.subMu.RLock()
	for _, fn := range s.subscribers {
		fn(change)
	}
	s.subMu.RUnlock()
}

// Subscribe registers a callback for incremental state changes. The callback
// runs on the read loop goroutine and must return quickly.
func (s *StateStore) Subscribe(fn func(StateChange)) {
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

// Entity returns the current state of one entity.
func (s *StateStore) Entity(entityID string) (Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[entityID]
	return e, ok
}

// Entities returns a copy of every known entity state.
func (s *StateStore) Entities() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	return out
}

// Areas returns a copy of the area registry.
func (s *StateStore) Areas() []AreaRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AreaRecord, 0, len(s.areas))
	for _, a := range s.areas {
		out = append(out, a)
	}
	return out
}

// Device returns one physical-device registry entry.
func (s *StateStore) Device(deviceID string) (DeviceRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[deviceID]
	return d, ok
}

// Devices returns a copy of the physical-device registry.
func (s *StateStore) Devices() []DeviceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DeviceRecord, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d)
	}
	return out
}

// RegistryEntry returns the entity registry entry for one entity id.
func (s *StateStore) RegistryEntry(entityID string) (RegistryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.registry[entityID]
	return r, ok
}

// RegistryEntries returns a copy of the entity registry.
func (s *StateStore) RegistryEntries() []RegistryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RegistryEntry, 0, len(s.registry))
	for _, r := range s.registry {
		out = append(out, r)
	}
	return out
}

// Clear empties every table. Called when a session ends so a stale mirror
// is never served as live data.
func (s *StateStore) Clear() {
	s.mu.Lock()
	s.entities = make(map[string]Entity)
	s.areas = make(map[string]AreaRecord)
	s.devices = make(map[string]DeviceRecord)
	s.registry = make(map[string]RegistryEntry)
	s.mu.Unlock()
}
