package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/sagegrid/internal/pipeline"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Pipelines []string // catalog names or "all"

	// Defaults override the parameter defaults recorded in every archive,
	// keyed by parameter name. Only explicitly set flags end up here.
	Defaults map[string]string

	OutDir         string
	Output         string
	ComponentsPath string // extra manifests, HCL or KFP YAML

	List   bool
	Strict bool

	LogFormat string
	LogLevel  string
}

// NewConfig checks cfg and fills in defaults for the output directory and
// logging. An explicit output path is accepted for a single named pipeline only.
func NewConfig(cfg Config) (*Config, error) {
	if !cfg.List && len(cfg.Pipelines) == 0 {
		return nil, errors.New("at least one pipeline name is required")
	}

	if cfg.Output != "" {
		if len(cfg.Pipelines) != 1 || slices.Contains(cfg.Pipelines, pipeline.All) {
			return nil, fmt.Errorf("an explicit output path needs exactly one pipeline, got %d selectors", len(cfg.Pipelines))
		}
	}

	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return &cfg, nil
}
