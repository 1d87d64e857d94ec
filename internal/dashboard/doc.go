// Package dashboard persists and mutates the user's dashboard: tabs with
// grid layouts, per-device customizations, and card templates.
//
// State lives in a flat key-value settings table as JSON blobs, one
// namespaced key per object class. On load, older stored shapes are
// upgraded through a small ordered list of pure transformations (grouped
// layouts collapse to flat lists, bare id lists gain row-major
// coordinates, object-keyed template elements become arrays); the upgrade
// is idempotent and written back once.
//
// Layout mutations delegate validation to the grid package: a rejected
// placement, move, or resize reports placed=false rather than an error,
// and persists nothing.
package dashboard
