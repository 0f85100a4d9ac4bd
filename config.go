package livemodel

import (
	"time"

	"github.com/dmitrymomot/livemodel/core/config"
)

// Config holds the settings of this package that can be supplied through the environment.
type Config struct {
	IngestTimeout time.Duration `env:"LIVEMODEL_INGEST_TIMEOUT" envDefault:"0s"`
}

// LoadConfig reads Config from the environment (and a .env file, if present).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
