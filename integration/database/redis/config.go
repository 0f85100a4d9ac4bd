package redis

import (
	"time"

	"github.com/dmitrymomot/livemodel/core/config"
)

// Config holds Redis connection settings and the layout of mirrored models.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	KeyPrefix      string        `env:"LIVEMODEL_REDIS_PREFIX" envDefault:"livemodel"`
	Codec          string        `env:"LIVEMODEL_REDIS_CODEC" envDefault:"json"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options converts the model layout part of the config into options for
// NewSource and NewMirror.
func (c Config) Options() ([]Option, error) {
	codec, err := CodecByName(c.Codec)
	if err != nil {
		return nil, err
	}
	return []Option{WithKeyPrefix(c.KeyPrefix), WithCodec(codec)}, nil
}
