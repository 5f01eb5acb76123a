package service

import "errors"

var (
	// ErrUnknownFile is returned for paths the program does not track.
	ErrUnknownFile = errors.New("file not in program")
	// ErrNoTemplate is returned when no tagged literal encloses the offset,
	// or the offset is inside one of its interpolations.
	ErrNoTemplate = errors.New("no template at offset")
)
