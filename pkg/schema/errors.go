package schema

import "errors"

var (
	// ErrInvalidNodeID is returned when a definition node lacks a usable
	// name where one is required.
	ErrInvalidNodeID = errors.New("invalid node id")

	// ErrInvalidConstraint is returned for a malformed bound, valid-value
	// or tuple-value entry.
	ErrInvalidConstraint = errors.New("invalid constraint")
)
