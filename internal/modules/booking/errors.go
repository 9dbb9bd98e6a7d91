package booking

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrUnknownTimeLabel = errors.New("time is not one of the configured hours")
	ErrNotAvailable     = errors.New("slot not available")
	ErrNotFound         = errors.New("reservation not found")
)
