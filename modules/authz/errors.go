package authz

import "errors"

var (
	// ErrNilEngine is returned when the module is constructed without an engine.
	ErrNilEngine = errors.New("authz: engine is required")
)
