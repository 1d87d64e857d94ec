package dashboard

import "errors"

var (
	// ErrTabNotFound is returned for operations addressing an unknown tab.
	ErrTabNotFound = errors.New("dashboard: tab not found")

	// ErrTemplateNotFound is returned for operations addressing an unknown
	// card template.
	ErrTemplateNotFound = errors.New("dashboard: template not found")

	// ErrInvalidGridSettings is returned when grid dimensions are not
	// positive or would strand already-placed items out of bounds.
	ErrInvalidGridSettings = errors.New("dashboard: invalid grid settings")
)
