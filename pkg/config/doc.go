// Package config loads typed configuration structs from environment
// variables.
//
// Load wraps caarlos0/env struct-tag parsing with a one-time godotenv
// bootstrap, so local development picks up a .env file while deployed
// processes read the real environment. Parsing failures are wrapped in
// ErrParsingConfig with the underlying detail joined in.
//
//	type Config struct {
//	    SubjectHeader string `env:"AUTHZ_SUBJECT_HEADER" envDefault:"X-Subject"`
//	    DomainHeader  string `env:"AUTHZ_DOMAIN_HEADER" envDefault:"X-Domain"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
