// Package device turns raw platform entities into the typed model the
// dashboard renders.
//
// Mapping is a pure projection: MapEntity classifies one entity through a
// deterministic cascade (internal namespace, exact-domain table, attribute
// refinement, name keywords, fallback), extracts capability fields, derives
// a status line, and merges the user's Customization on top. Devices are
// rebuilt from the live entity table on every read and never persisted.
//
// Aggregation groups mapped devices into rooms using the area and registry
// cross-reference tables, resolving each entity's area through its registry
// entry first and its physical device second. Classification never fails:
// an entity that matches nothing is still returned with TypeUnknown so it
// remains visible.
package device
