// Package enforce binds a policy store, role graphs and a matcher function
// into an authorization decision point with a full rule management API.
//
// The Enforcer owns one policy.Store and one rolegraph.Registry, constructed
// from the schema declared through options. Grouping rule mutations keep the
// matching relation's graph in sync, including bulk filtered removals, so the
// store and the graphs never drift apart.
//
// # Matching
//
// There is no rule expression language; a decision is a plain Go function
// applied to each permission rule in insertion order until one matches:
//
//	type MatcherFunc func(req Request, rule []string) bool
//
// The Request carries the request tuple and role-resolution callbacks backed
// by the enforcer's graphs, so a matcher can ask "does this subject inherit
// that role" without knowing how inheritance is stored. Built-in matchers
// cover the common models:
//
//   - MatchExact: position-by-position equality.
//   - MatchWithRoles: subject may hold the rule's subject as a role.
//   - MatchWithDomains: (subject, domain, object, action) tuples with
//     domain-scoped role resolution.
//   - MatchObjectPattern: object compared through a pkg/match function, e.g.
//     path patterns like "/files/*".
//
// # Usage
//
//	import "github.com/dmitrymomot/authzkit/pkg/enforce"
//
//	e, err := enforce.New()
//	if err != nil {
//	    return err
//	}
//
//	e.AddPolicy("admin", "data1", "read")
//	e.AddGroupingPolicy("alice", "admin")
//
//	allowed, err := e.Enforce("alice", "data1", "read") // true via admin
//
// Multi-tenant setups declare a wider schema:
//
//	e, err := enforce.New(
//	    enforce.WithPermissionArity(4),
//	    enforce.WithGrouping("g", 3),
//	    enforce.WithMatcher(enforce.MatchWithDomains()),
//	)
//
// Mutations report a boolean "changed" flag and reserve errors for contract
// violations: unknown relations and rules that do not fit the declared arity
// (matched with errors.Is against policy.ErrInvalidArity). WithLogger adds
// decision and mutation logging; WithAudit records every mutation, no-ops
// included, on a pkg/audit trail. The enforcer is safe for concurrent use;
// see the store and graph packages for their individual atomicity
// guarantees.
package enforce
