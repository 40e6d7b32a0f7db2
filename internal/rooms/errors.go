package rooms

import "errors"

var (
	ErrNotFound     = errors.New("room not found")
	ErrForbidden    = errors.New("not authorized to access this room")
	ErrInvalidInput = errors.New("invalid input")
)
