// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file from the working directory on first use and
// uses the caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/livemodel/core/config"
//
//	type MirrorConfig struct {
//		Prefix string        `env:"MIRROR_PREFIX" envDefault:"livemodel"`
//		TTL    time.Duration `env:"MIRROR_TTL" envDefault:"0s"`
//	}
//
//	func main() {
//		var cfg MirrorConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once until Reset is called:
//
//	var a livemodel.Config
//	config.Load(&a) // Loads from environment
//
//	var b livemodel.Config
//	config.Load(&b) // Returns cached value, a == b
//
// Different types are cached independently. Tests that change the environment
// with t.Setenv call Reset before loading.
package config
