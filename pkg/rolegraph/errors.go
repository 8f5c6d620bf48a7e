package rolegraph

import "errors"

var (
	// ErrDomainParameter is returned when more than one domain argument is supplied.
	ErrDomainParameter = errors.New("rolegraph: at most one domain expected")
	// ErrUnknownRelation is returned when a relation was never registered.
	ErrUnknownRelation = errors.New("rolegraph: unknown grouping relation")
)
