package authzkit

import "context"

// subjectCtxKey is the context key for storing the acting subject.
type subjectCtxKey struct{}

// domainCtxKey is the context key for storing the tenant domain.
type domainCtxKey struct{}

// SetSubjectToContext stores the acting subject in the context.
func SetSubjectToContext(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectCtxKey{}, subject)
}

// GetSubjectFromContext retrieves the acting subject from the context.
func GetSubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectCtxKey{}).(string)
	return subject, ok
}

// SetDomainToContext stores the tenant domain in the context.
func SetDomainToContext(ctx context.Context, domain string) context.Context {
	return context.WithValue(ctx, domainCtxKey{}, domain)
}

// GetDomainFromContext retrieves the tenant domain from the context.
func GetDomainFromContext(ctx context.Context) (string, bool) {
	domain, ok := ctx.Value(domainCtxKey{}).(string)
	return domain, ok
}
