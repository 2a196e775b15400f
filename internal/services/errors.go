package services

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("no permission")
	ErrBlocked       = errors.New("account deactivated")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("already exists")
	ErrNotConfigured = errors.New("service credential not configured")
)
