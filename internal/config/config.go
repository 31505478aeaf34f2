// Package config loads project configuration for the mmm CLI from an
// mmm.yaml file, environment variables, and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "mmm.yaml"

// envPrefix namespaces environment overrides, e.g. MMM_SAMPLER_DRAWS.
const envPrefix = "MMM_"

// DataConfig locates the observation table.
type DataConfig struct {
	// Path is a CSV or Parquet file readable by DuckDB.
	Path string `koanf:"path"`
	// Query optionally replaces the default SELECT over Path.
	Query string `koanf:"query"`
	// DateColumn names the date column.
	DateColumn string `koanf:"date_column"`
}

// ModelConfig selects and configures the variant.
type ModelConfig struct {
	// Variant is one of straight, confounder, metrics.
	Variant string `koanf:"variant"`

	AllowIntercept     bool `koanf:"allow_intercept"`
	AllowAdstockAndSat bool `koanf:"allow_adstock_and_sat"`
	AdstockMaxLag      int  `koanf:"adstock_max_lag"`

	FacebookMetric string `koanf:"facebook_metric"`
	GoogleMetric   string `koanf:"google_metric"`
}

// SamplerConfig configures inference.
type SamplerConfig struct {
	Chains   int     `koanf:"chains"`
	Draws    int     `koanf:"draws"`
	BurnIn   int     `koanf:"burn_in"`
	Thin     int     `koanf:"thin"`
	StepSize float64 `koanf:"step_size"`
	Seed     uint64  `koanf:"seed"`
}

// OutputConfig controls artifacts.
type OutputConfig struct {
	// Dir receives the rendered charts and summary.
	Dir string `koanf:"dir"`
	// OriginalScale expresses results in original spend/sales units.
	OriginalScale bool `koanf:"original_scale"`
}

// Config is the full project configuration.
type Config struct {
	Data     DataConfig    `koanf:"data"`
	Channels []string      `koanf:"channels"`
	Model    ModelConfig   `koanf:"model"`
	Sampler  SamplerConfig `koanf:"sampler"`
	Output   OutputConfig  `koanf:"output"`
	Verbose  bool          `koanf:"verbose"`
}

// defaults mirrors the zero configuration a fresh project starts from.
func defaults() map[string]any {
	return map[string]any{
		"data.date_column":      "date",
		"channels":              []string{"spend_fb", "spend_google"},
		"model.variant":         "straight",
		"model.adstock_max_lag": 6,
		"sampler.chains":        4,
		"sampler.draws":         1000,
		"sampler.burn_in":       1000,
		"sampler.thin":          1,
		"sampler.step_size":     0.05,
		"output.dir":            "out",
		"output.original_scale": true,
	}
}

// Load builds the configuration: defaults, then the config file (when
// present), then MMM_* environment variables, then flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(ConfigFileName); err == nil {
			path = ConfigFileName
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
