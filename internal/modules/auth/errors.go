package auth

import "errors"

var (
	ErrInvalidState       = errors.New("login state mismatch")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLoginDisabled      = errors.New("login method not configured")
	ErrEmailNotVerified   = errors.New("identity provider returned no verified email")
)
