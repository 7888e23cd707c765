package services

import "errors"

var (
	// ErrNotFound is returned when a resource id has no row. Handlers map it
	// to 404 before any membership check runs.
	ErrNotFound = errors.New("resource not found")

	ErrProfileNotFound = errors.New("profile not found")
	ErrAlreadyMember   = errors.New("profile is already a workspace member")
)
