// Package config handles ctmcfit configuration loading.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ctmcfit/ctmc"
	"github.com/katalvlaran/ctmcfit/panel"
)

// Config is the root configuration structure.
type Config struct {
	Fit   FitConfig   `yaml:"fit"`
	Panel PanelConfig `yaml:"panel"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

// FitConfig holds estimation settings.
type FitConfig struct {
	Policy      string  `yaml:"policy"`      // strict | tolerant
	TransIntv   float64 `yaml:"transintv"`   // Δt of the transition matrix
	TolTime     float64 `yaml:"toltime"`     // smallest usable duration
	Checks      bool    `yaml:"checks"`      // strict DataCheck + ErrorCheck
	Diagnostics string  `yaml:"diagnostics"` // collect | raise | silent
	Workers     int     `yaml:"workers"`
}

// PanelConfig holds table-transform settings.
type PanelConfig struct {
	Labels []string `yaml:"labels"`
	// SubjectEnd ends each final spell at the subject's last observation
	// rather than the table-wide last date.
	SubjectEnd bool `yaml:"subject_end"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// Path of the SQLite file; empty means $CTMCFIT_DB or ~/.ctmcfit/runs.db.
	Path string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Fit: FitConfig{
			Policy:      ctmc.Strict.String(),
			TransIntv:   ctmc.DefaultTransIntv,
			TolTime:     ctmc.DefaultTolTime,
			Checks:      true,
			Diagnostics: ctmc.DiagnosticsCollect.String(),
			Workers:     ctmc.DefaultWorkers,
		},
		Panel: PanelConfig{
			Labels: append([]string(nil), panel.RatingLabels...),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads configuration from a file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks enumerations and numeric ranges by building the options.
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.Panel.Labels) > 0 {
		if _, err := panel.NewLabelEncoder(c.Panel.Labels); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

// Options translates the fit section into ctmc options.
func (c *Config) Options() ([]ctmc.Option, error) {
	policy, err := ctmc.ParsePolicy(c.Fit.Policy)
	if err != nil {
		return nil, err
	}
	mode, err := ctmc.ParseDiagnostics(c.Fit.Diagnostics)
	if err != nil {
		return nil, err
	}
	opts := []ctmc.Option{
		ctmc.WithPolicy(policy),
		ctmc.WithTransIntv(c.Fit.TransIntv),
		ctmc.WithTolTime(c.Fit.TolTime),
		ctmc.WithChecks(c.Fit.Checks),
		ctmc.WithDiagnostics(mode),
		ctmc.WithWorkers(c.Fit.Workers),
	}
	if err := ctmc.ValidateOptions(opts...); err != nil {
		return nil, err
	}
	return opts, nil
}

// Logger builds a slog.Logger writing to w in the configured format and level.
func (c *LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}

// parseLevel accepts slog level names; empty means warn.
func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
