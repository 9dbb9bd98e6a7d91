package hours

import "errors"

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidHours = errors.New("invalid hours")
)
