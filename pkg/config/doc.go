// Package config loads application configuration from environment variables
// into tagged structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is loaded once per process, then env.Parse fills the
// struct from field tags. Each configuration type is parsed at most once and
// cached, so sections can be loaded independently from anywhere in the
// application without duplicate work.
//
// Usage:
//
//	type PGConfig struct {
//		URL string `env:"DATABASE_URL,required"`
//	}
//
//	var cfg PGConfig
//	config.MustLoad(&cfg)
package config
