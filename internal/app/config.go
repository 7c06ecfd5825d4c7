package app

import (
	"errors"
	"fmt"
)

// Run modes of the application.
const (
	ModeBuild    = "build"
	ModeValidate = "validate"
)

// Config holds all the necessary configuration for an App instance to
// run.
type Config struct {
	PlanPath   string // blueprint yaml file
	ConfigPath string // symmetry config hcl file, optional

	Mode string // build or validate

	// Init creates a fresh default blueprint at PlanPath instead of
	// running one.
	Init string // output name for the new blueprint

	CancelOnInterrupt bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	switch cfg.Mode {
	case ModeBuild, ModeValidate:
	default:
		return nil, fmt.Errorf("invalid mode: %q", cfg.Mode)
	}
	return &cfg, nil
}
