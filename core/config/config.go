package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilConfig is returned when Load receives a nil pointer.
	ErrNilConfig = errors.New("config target must not be nil")

	// ErrParse is returned when environment variables cannot be parsed into the target.
	ErrParse = errors.New("failed to parse configuration from environment")
)

var (
	dotenvOnce sync.Once

	mu    sync.Mutex
	cache = make(map[reflect.Type]any)
)

// Load populates cfg from environment variables using `env` struct tags.
// The first successful load for a type is cached; later calls for the same
// type copy the cached value without reading the environment again.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	loadDotenv()

	key := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[key]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	cache[key] = *cfg
	return nil
}

// MustLoad is like Load but panics on failure. Useful during startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops every cached configuration so the next Load reads the environment again.
// Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	clear(cache)
}

// loadDotenv reads a .env file from the working directory once.
// A missing file is not an error: real environments set variables directly.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}
