// Package grid owns the coordinate-addressed placement of cards on a
// tab's grid: boundary and overlap validation, the half-height stacking
// exception, row-major auto-placement, and the move/resize/remove
// mutations.
//
// All operations are pure functions over a layout slice. Rejected
// mutations return the input unchanged rather than an error; the silent
// no-op is the contract, since the unchanged layout is itself the
// feedback. A layout entry whose device has since disappeared is
// tolerated at read time and pruned only by an explicit removal.
package grid
