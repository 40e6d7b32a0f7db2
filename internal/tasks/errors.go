package tasks

import "errors"

var (
	ErrNotFound     = errors.New("task not found")
	ErrForbidden    = errors.New("not authorized to access this task")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream dependency failed")
)
