package authz

import (
	"net/http"

	"log/slog"

	"github.com/dmitrymomot/authzkit"
	"github.com/dmitrymomot/authzkit/pkg/logger"
)

// SubjectContext copies the subject and domain headers into the request
// context when upstream middleware has not already resolved them. The
// headers are a deployment convenience; authenticated setups should inject
// the subject themselves via authzkit.SetSubjectToContext. The module
// router applies it on every route; host applications can reuse it in
// front of RequirePermission.
func (m *Module) SubjectContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := authzkit.GetSubjectFromContext(ctx); !ok {
			if subject := r.Header.Get(m.cfg.SubjectHeader); subject != "" {
				ctx = authzkit.SetSubjectToContext(ctx, subject)
			}
		}
		if _, ok := authzkit.GetDomainFromContext(ctx); !ok {
			if domain := r.Header.Get(m.cfg.DomainHeader); domain != "" {
				ctx = authzkit.SetDomainToContext(ctx, domain)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission guards a handler behind an enforcement check for the
// context subject on (object, action). A context domain, when present, is
// inserted after the subject, so the request tuple must line up with the
// backend's declared permission arity. Missing subject and denied requests
// both produce 403.
func (m *Module) RequirePermission(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			subject, ok := authzkit.GetSubjectFromContext(ctx)
			if !ok || subject == "" {
				respondProblem(w, http.StatusForbidden, "Forbidden", "no acting subject")
				return
			}

			request := []string{subject}
			if domain, ok := authzkit.GetDomainFromContext(ctx); ok {
				request = append(request, domain)
			}
			request = append(request, object, action)

			allowed, err := m.engine.Enforce(request...)
			if err != nil {
				m.log.ErrorContext(ctx, "enforcement failed", logger.Error(err), logger.Subject(subject))
				respondProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
				return
			}
			m.metrics.ObserveDecision(allowed)
			if !allowed {
				m.log.DebugContext(ctx, "request denied",
					logger.Subject(subject),
					slog.String("object", object),
					slog.String("action", action),
				)
				respondProblem(w, http.StatusForbidden, "Forbidden", "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
