package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const minReadBufferSize = 512

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Addr           string        `env:"KIEZEL_ADDR" envDefault:"127.0.0.1:8080"`
	Name           string        `env:"KIEZEL_NAME" envDefault:"kiezel"`
	ReadBufferSize int           `env:"KIEZEL_READ_BUFFER_SIZE" envDefault:"8192"`
	MaxConns       int           `env:"KIEZEL_MAX_CONNS" envDefault:"0"`
	IdleTimeout    time.Duration `env:"KIEZEL_IDLE_TIMEOUT" envDefault:"0s"`
	WriteTimeout   time.Duration `env:"KIEZEL_WRITE_TIMEOUT" envDefault:"0s"`
	ReusePort      bool          `env:"KIEZEL_REUSE_PORT" envDefault:"false"`
	Telemetry      bool          `env:"KIEZEL_TELEMETRY" envDefault:"false"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from vars instead of the environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: KIEZEL_ADDR must not be empty", ErrInvalid)
	case cfg.ReadBufferSize < minReadBufferSize:
		return fmt.Errorf("%w: KIEZEL_READ_BUFFER_SIZE must be at least %d, got %d", ErrInvalid, minReadBufferSize, cfg.ReadBufferSize)
	case cfg.MaxConns < 0:
		return fmt.Errorf("%w: KIEZEL_MAX_CONNS must not be negative", ErrInvalid)
	case cfg.IdleTimeout < 0 || cfg.WriteTimeout < 0:
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalid)
	}
	return nil
}
