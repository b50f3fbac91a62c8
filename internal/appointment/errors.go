package appointment

import "errors"

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrTimeConflict      = errors.New("doctor already has an appointment at this date and time")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotEditable       = errors.New("appointment can no longer be edited")
	ErrUnknownDoctor     = errors.New("unknown doctor")
)
