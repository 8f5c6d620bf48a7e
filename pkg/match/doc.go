// Package match provides string pattern matching primitives used across
// authorization rules: role names, object paths and domain labels.
//
// Three pattern styles are supported:
//
//   - Wildcard: dotted hierarchies with a trailing star, e.g. "admin.*"
//     matches "admin.users" and "admin.billing.read". A bare "*" matches
//     everything.
//   - Path: URL-style segments, e.g. "/files/*" matches "/files/report.pdf",
//     and "/users/:id" matches "/users/42" with any single segment in the
//     parameter position.
//   - Domain: tenant or realm labels, wildcard rules applied to values such
//     as "tenant1" or "eu.*".
//
// # Usage
//
//	import "github.com/dmitrymomot/authzkit/pkg/match"
//
//	match.Wildcard("admin.users", "admin.*") // true
//	match.Path("/files/report.pdf", "/files/*") // true
//	match.Path("/users/42", "/users/:id") // true
//	match.Domain("tenant1", "*") // true
//
// The Func type is the hook signature accepted by role graphs, which lets
// pattern roles like "role.*" act as grantors for concrete role names.
//
// All functions are allocation-free for exact and global-wildcard matches.
package match
