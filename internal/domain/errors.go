package domain

import "errors"

var (
	ErrInvalidAssessment  = errors.New("invalid assessment")
	ErrInvalidSessionSize = errors.New("session size must be positive")
	ErrInvalidLevel       = errors.New("invalid level")
	ErrItemNotFound       = errors.New("item not found")
	ErrConcurrentUpdate   = errors.New("progress was modified concurrently")
)
