package usecase

import "errors"

var (
	// ErrInvalidInput marks caller mistakes: missing parameters, unresolvable
	// league codes. Surfaced as HTTP 400, never retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a missing resource.
	ErrNotFound = errors.New("resource not found")
	// ErrNormalization marks an upstream payload whose structurally required
	// data could not be reconciled. It indicates a provider contract change,
	// not caller misuse.
	ErrNormalization = errors.New("cannot normalize provider payload")
)
