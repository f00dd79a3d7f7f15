package tracker

import "errors"

var (
	ErrNotStarted     = errors.New("tracker not started")
	ErrAlreadyStarted = errors.New("tracker already started")
	ErrClosed         = errors.New("tracker closed")
	ErrInvalidSample  = errors.New("coordinates out of range")
)
