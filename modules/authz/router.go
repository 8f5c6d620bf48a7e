package authz

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/dmitrymomot/authzkit"
	"github.com/dmitrymomot/authzkit/pkg/requestid"
)

// Module exposes a Resolution Engine over JSON, for deployments running the
// query layer as a sidecar service.
type Module struct {
	engine  *authzkit.Engine
	cfg     Config
	log     *slog.Logger
	metrics *Metrics
}

// Option configures a Module during construction.
type Option func(*Module)

// WithLogger attaches a structured logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Module) {
		if log != nil {
			m.log = log
		}
	}
}

// WithMetrics supplies a pre-built metrics bundle, letting the caller share
// one Prometheus registry across modules. Defaults to a private registry.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Module) {
		if metrics != nil {
			m.metrics = metrics
		}
	}
}

// New creates the HTTP module over the given engine.
func New(engine *authzkit.Engine, cfg Config, opts ...Option) (*Module, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if cfg.MutationLimit <= 0 {
		cfg.MutationLimit = 60
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 65536
	}
	if cfg.SubjectHeader == "" {
		cfg.SubjectHeader = "X-Subject"
	}
	if cfg.DomainHeader == "" {
		cfg.DomainHeader = "X-Domain"
	}
	m := &Module{
		engine: engine,
		cfg:    cfg,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = NewMetrics(nil)
	}
	return m, nil
}

// Metrics returns the module's metrics bundle, e.g. to mount its Handler.
func (m *Module) Metrics() *Metrics {
	return m.metrics
}

// Handler builds the module router.
//
// Query routes are unthrottled reads; mutation routes are rate limited per
// client IP. Mount under a path prefix of the host application:
//
//	r.Mount("/authz", module.Handler())
func (m *Module) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(m.metrics.instrument)
	r.Use(m.SubjectContext)

	r.Get("/subjects/{subject}/roles", m.handleRoles)
	r.Get("/subjects/{subject}/roles/implicit", m.handleImplicitRoles)
	r.Get("/roles/{role}/users", m.handleUsers)
	r.Get("/subjects/{subject}/permissions", m.handlePermissions)
	r.Get("/subjects/{subject}/permissions/implicit", m.handleImplicitPermissions)
	r.Post("/permissions/users", m.handleImplicitUsers)
	r.Post("/enforce", m.handleEnforce)

	r.Group(func(mut chi.Router) {
		mut.Use(httprate.LimitByIP(m.cfg.MutationLimit, time.Minute))
		mut.Post("/roles/grant", m.handleGrantRole)
		mut.Post("/roles/revoke", m.handleRevokeRole)
		mut.Post("/roles/revoke-all", m.handleRevokeRoles)
		mut.Post("/roles/delete", m.handleDeleteRole)
		mut.Post("/subjects/delete", m.handleDeleteUser)
		mut.Post("/permissions/grant", m.handleGrantPermission)
		mut.Post("/permissions/revoke", m.handleRevokePermission)
		mut.Post("/permissions/revoke-all", m.handleRevokePermissions)
		mut.Post("/permissions/delete", m.handleDeletePermission)
	})

	return r
}
