package authzkit

import "errors"

var (
	// ErrMissingBackend is returned when the engine is constructed without a backend.
	ErrMissingBackend = errors.New("authzkit: backend is required")
	// ErrDomainParameter is returned when more than one domain argument is supplied.
	ErrDomainParameter = errors.New("authzkit: at most one domain expected")
)
