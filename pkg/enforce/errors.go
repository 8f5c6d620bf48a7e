package enforce

import "errors"

var (
	// ErrInvalidSchema is returned when the declared rule schema cannot back
	// an enforcer (permission arity below 2, grouping arity other than 2 or 3).
	ErrInvalidSchema = errors.New("enforce: invalid rule schema")
)
