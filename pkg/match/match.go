package match

import "strings"

const (
	// Star is the wildcard token. Alone it matches any value; as a trailing
	// segment it matches any suffix within its hierarchy.
	Star = "*"

	// Delimiter separates levels in dotted patterns (e.g., "admin.read").
	Delimiter = "."

	// PathSeparator separates segments in URL-style paths.
	PathSeparator = "/"

	// ParamPrefix marks a named parameter segment in URL-style patterns.
	ParamPrefix = ":"
)

// Func reports whether value satisfies pattern. Role graphs accept a Func to
// resolve pattern-shaped role or domain names during traversal.
type Func func(value, pattern string) bool

// Wildcard checks if a value matches a dotted wildcard pattern.
//
// Matching rules:
// - Direct match: "read" matches "read"
// - Global wildcard: "*" matches any value
// - Hierarchy wildcard: "admin.*" matches any value starting with "admin."
func Wildcard(value, pattern string) bool {
	if value == pattern || pattern == Star {
		return true
	}

	if strings.HasSuffix(pattern, Star) {
		prefix := strings.TrimSuffix(pattern, Star)
		prefix = strings.TrimSuffix(prefix, Delimiter)
		return strings.HasPrefix(value, prefix+Delimiter)
	}

	return false
}

// Path checks if a URL-style value matches a segmented pattern.
//
// Matching rules:
// - Direct match: "/data" matches "/data"
// - Global wildcard: "*" matches any value
// - Trailing star: "/files/*" matches "/files/a" and "/files/a/b", but not "/files"
// - Parameter segment: "/users/:id" matches "/users/42" (exactly one segment)
func Path(value, pattern string) bool {
	if value == pattern || pattern == Star {
		return true
	}

	vparts := strings.Split(value, PathSeparator)
	pparts := strings.Split(pattern, PathSeparator)

	for i, pp := range pparts {
		if pp == Star && i == len(pparts)-1 {
			return i < len(vparts)
		}
		if i >= len(vparts) {
			return false
		}
		switch {
		case pp == Star:
			// single-segment wildcard mid-pattern
		case strings.HasPrefix(pp, ParamPrefix):
			if vparts[i] == "" {
				return false
			}
		default:
			if vparts[i] != pp {
				return false
			}
		}
	}

	return len(vparts) == len(pparts)
}

// Domain checks if a domain label matches a pattern. Empty pattern matches
// only the empty label; otherwise wildcard rules apply.
func Domain(value, pattern string) bool {
	if pattern == "" {
		return value == ""
	}
	return Wildcard(value, pattern)
}

// Any checks if the value matches at least one of the wildcard patterns.
func Any(value string, patterns []string) bool {
	for _, p := range patterns {
		if Wildcard(value, p) {
			return true
		}
	}
	return false
}

// All checks if the value matches every one of the wildcard patterns.
// Returns true for an empty pattern list.
func All(value string, patterns []string) bool {
	for _, p := range patterns {
		if !Wildcard(value, p) {
			return false
		}
	}
	return true
}
