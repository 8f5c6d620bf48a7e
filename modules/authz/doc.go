// Package authz mounts a Resolution Engine as a JSON HTTP API.
//
// The module serves the engine's query operations (direct and implicit
// roles, permissions, implicit users, enforcement checks) as reads and the
// mutation composites (grant/revoke/delete) as rate-limited writes. It is
// meant to be mounted into a host application's router:
//
//	backend, _ := enforce.New()
//	engine, _ := authzkit.New(backend)
//
//	var cfg authz.Config
//	config.MustLoad(&cfg)
//
//	module, err := authz.New(engine, cfg,
//	    authz.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/authz", module.Handler())
//	r.Handle("/metrics", module.Metrics().Handler())
//
// The acting subject and tenant domain are resolved from the request
// context, falling back to the configured headers. RequirePermission wraps
// arbitrary handlers of the host application behind an enforcement check.
//
// Errors follow RFC7807 problem details: contract violations (bad tuple
// arity, malformed payloads) are 400s, denied enforcement is 403, anything
// else is a 500 with the detail kept out of the response.
package authz
