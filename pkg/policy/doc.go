// Package policy provides an in-memory store for authorization rules.
//
// Rules are string tuples organized into named families: a single permission
// family (default "p") holding tuples like (subject, object, action), and any
// number of grouping families (default "g") holding role assignments like
// (user, role) or (user, role, domain). Each family declares a fixed arity at
// construction; every rule in the family must match it exactly.
//
// The store preserves insertion order for enumeration and applies set
// semantics for mutation: adding an existing rule or removing a missing one
// reports false without touching state.
//
// # Usage
//
//	import "github.com/dmitrymomot/authzkit/pkg/policy"
//
//	store := policy.New(
//	    policy.WithGrouping("g2", 2),
//	)
//
//	store.Add(policy.PermissionFamily, "alice", "data1", "read")
//	store.Add(policy.DefaultGrouping, "alice", "admin")
//
//	rules, _ := store.Filtered(policy.PermissionFamily, 0, "alice")
//
// Filtered queries and removals treat empty filter values as wildcards at
// their position; RemoveFiltered returns the removed rules so callers can
// mirror the change elsewhere (e.g., unlink role graph edges).
//
// # Error Handling
//
// Mutations and queries fail loudly on contract violations:
//
//   - ErrInvalidArity: the tuple or filter does not fit the family's arity.
//   - ErrUnknownFamily: the named family was never declared.
//
// Both can be matched with errors.Is. Everything else is reported through
// boolean results, never errors.
//
// The store is safe for concurrent use and returns defensive copies; callers
// can retain and mutate returned slices freely.
package policy
