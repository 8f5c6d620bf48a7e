package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Subject records the acting or queried subject under the key "subject".
func Subject(subject string) slog.Attr {
	return slog.String("subject", subject)
}

// Domain records the tenant domain under the key "domain".
// If domain is empty, it returns an empty Attr.
func Domain(domain string) slog.Attr {
	if domain == "" {
		return slog.Attr{}
	}
	return slog.String("domain", domain)
}

// Relation records a grouping relation name under the key "relation".
func Relation(name string) slog.Attr {
	return slog.String("relation", name)
}

// Rule records a rule tuple under the key "rule".
func Rule(rule []string) slog.Attr {
	return slog.Any("rule", rule)
}

// Decision records an allow/deny outcome under the key "allowed".
func Decision(allowed bool) slog.Attr {
	return slog.Bool("allowed", allowed)
}

// RequestID records the request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
