// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/clipsync/core/config"
//
//	type HTTPConfig struct {
//		Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
//		Port int    `env:"PORT" envDefault:"18889"`
//	}
//
//	func main() {
//		var cfg HTTPConfig
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var a, b HTTPConfig
//	config.Load(&a) // parses the environment
//	config.Load(&b) // copies the cached value
//
// Different types are cached independently. Parse skips both the process
// environment and the cache, which suits tests.
package config
