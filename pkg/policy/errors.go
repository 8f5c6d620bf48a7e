package policy

import "errors"

var (
	// ErrInvalidArity is returned when a rule or filter does not fit the family's declared arity.
	ErrInvalidArity = errors.New("policy: rule arity mismatch")
	// ErrUnknownFamily is returned when a rule family was never declared on the store.
	ErrUnknownFamily = errors.New("policy: unknown rule family")
)
