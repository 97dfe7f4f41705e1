package domain

import "errors"

var (
	ErrLinkNotFound       = errors.New("link not found")
	ErrAliasTaken         = errors.New("alias already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid session")
)
