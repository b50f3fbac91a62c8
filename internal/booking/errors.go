package booking

import "errors"

var (
	ErrSessionNotFound = errors.New("booking session not found")
	ErrNotAtConfirm    = errors.New("session has not reached the confirmation step")
	ErrAlreadyDone     = errors.New("booking session already submitted")
)
