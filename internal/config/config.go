// Package config loads the service configuration from environment
// variables.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full service configuration. Every field has a
// default so the binary runs with an empty environment.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Solver struct {
		// Default selects the solver used when a request names none.
		Default string `env:"SOLVER_DEFAULT" envDefault:"bfgs"`
		// MaxIterationsCap bounds the per-request iteration budget.
		MaxIterationsCap int `env:"SOLVER_MAX_ITERATIONS_CAP" envDefault:"100000"`
		// LBFGSMemory is the history size used when a request does
		// not override it.
		LBFGSMemory int `env:"SOLVER_LBFGS_MEMORY" envDefault:"10"`
	}
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
