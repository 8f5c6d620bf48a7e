// Package authzkit answers "who can do what" questions over a role-based
// access-control model, including multi-graph and multi-tenant variants.
//
// The package defines the Resolution Engine: closure and derivation logic on
// top of three collaborators it does not implement itself — a policy rule
// manager, a registry of role graphs (one per named grouping relation), and
// an enforcement predicate. The pkg/enforce package provides an in-memory
// Backend wiring all three; the engine works against any implementation of
// the interfaces in this package.
//
// # Queries
//
//   - RolesFor / UsersFor / HasRole: direct membership in the default
//     grouping relation.
//   - ImplicitRolesFor: full transitive role closure across every grouping
//     relation, in breadth-first discovery order.
//   - ImplicitPermissionsFor: every permission rule attributable to a user
//     directly or through inherited roles, own rules first.
//   - ImplicitUsersFor: the users (never roles) that would pass enforcement
//     for a given permission.
//   - PermissionsFor / HasPermission: direct permission rules of a subject.
//
// # Mutations
//
// Grant/revoke composites are idempotent and report a boolean "changed" flag:
// false signals a no-op, never an error. Errors are reserved for contract
// violations (tuple arity, more than one domain argument) and for failures
// propagated unchanged from the collaborators.
//
// # Usage
//
//	import (
//	    "github.com/dmitrymomot/authzkit"
//	    "github.com/dmitrymomot/authzkit/pkg/enforce"
//	)
//
//	backend, err := enforce.New()
//	if err != nil {
//	    return err
//	}
//	engine, err := authzkit.New(backend)
//	if err != nil {
//	    return err
//	}
//
//	engine.GrantRole("alice", "admin")
//	engine.GrantPermission("admin", "data1", "read")
//
//	roles, _ := engine.ImplicitRolesFor("alice")     // ["admin"]
//	ok, _ := engine.HasPermission("admin", "data1", "read") // true
//
// Multi-tenant models pass a domain to the role operations:
//
//	engine.GrantRole("alice", "admin", "tenant1")
//	roles, _ := engine.RolesFor("alice", "tenant1")
//
// # Consistency Caveat
//
// The engine is stateless; all state lives in the collaborators, which are
// shared mutable resources. A traversal issues several reads per call and
// does not take a snapshot: concurrent writers may interleave mid-traversal,
// and the result then reflects an unspecified mix of old and new state. Lock
// externally if that matters to the caller.
//
// ImplicitUsersFor deliberately derives its answer by enforcing once per
// candidate subject instead of inverting the role graphs. That keeps the
// result correct under arbitrary matcher functions — including conditions
// beyond plain role membership — at the cost of one evaluation per candidate.
// WithParallelism bounds concurrent evaluations for large subject sets.
package authzkit
