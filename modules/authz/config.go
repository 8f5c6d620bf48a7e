package authz

// Config holds the HTTP module settings, loadable from the environment via
// pkg/config.
type Config struct {
	// SubjectHeader names the header carrying the acting subject when no
	// upstream middleware put one in the context.
	SubjectHeader string `env:"AUTHZ_SUBJECT_HEADER" envDefault:"X-Subject"`
	// DomainHeader names the header carrying the tenant domain.
	DomainHeader string `env:"AUTHZ_DOMAIN_HEADER" envDefault:"X-Domain"`
	// MutationLimit caps mutation requests per client IP per minute.
	MutationLimit int `env:"AUTHZ_MUTATION_LIMIT" envDefault:"60"`
	// MaxBodyBytes bounds request body size for mutation payloads.
	MaxBodyBytes int64 `env:"AUTHZ_MAX_BODY_BYTES" envDefault:"65536"`
}
