package service

import "errors"

// Sentinel errors returned across the registry/relation-store API boundary.
// Domain-level problems discovered during resolution never surface as one of
// these — they go to the diagnostics sink instead.
var (
	ErrInvalidInput  = errors.New("service: invalid input")
	ErrNotFound      = errors.New("service: not found")
	ErrNotPresent    = errors.New("service: relation not present")
	ErrDuplicateName = errors.New("service: duplicate name")
)
