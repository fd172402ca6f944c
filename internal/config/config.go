// Package config loads fiscal-validator settings from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rezonia/fiscal-validator/internal/cnpj"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

// Config holds all runtime settings.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Validation ValidationConfig `yaml:"validation"`
	LLM        LLMConfig        `yaml:"llm"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Debug        bool          `yaml:"debug"`
}

// ValidationConfig configures the validator and the batch pipeline.
type ValidationConfig struct {
	Tolerance           string `yaml:"tolerance"`
	LegacyCNPJOverrides bool   `yaml:"legacy_cnpj_overrides"`
	Workers             int    `yaml:"workers"`
}

// LLMConfig configures the optional fiscal code review.
type LLMConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	CacheDir     string        `yaml:"cache_dir"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	CacheEnabled bool          `yaml:"cache_enabled"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Validation: ValidationConfig{
			Tolerance:           "0.01",
			LegacyCNPJOverrides: true,
			Workers:             4,
		},
		LLM: LLMConfig{
			CacheDir:     ".fiscal_cache",
			CacheTTL:     720 * time.Hour,
			CacheEnabled: true,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from FISCAL_* and LLM_* variables.
func (c *Config) ApplyEnv() error {
	if addr := os.Getenv("FISCAL_ADDR"); addr != "" {
		c.Server.Address = addr
	}
	if tol := os.Getenv("FISCAL_TOLERANCE"); tol != "" {
		c.Validation.Tolerance = tol
	}
	if workers := os.Getenv("FISCAL_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("FISCAL_WORKERS: %w", err)
		}
		c.Validation.Workers = n
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if url := os.Getenv("LLM_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if dir := os.Getenv("LLM_CACHE_DIR"); dir != "" {
		c.LLM.CacheDir = dir
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := c.Validation.ToleranceValue(); err != nil {
		return err
	}
	if c.Validation.Workers < 1 {
		return errors.New("validation.workers must be >= 1")
	}
	if c.LLM.CacheTTL < 0 {
		return errors.New("llm.cache_ttl must not be negative")
	}
	return nil
}

// ToleranceValue parses the tolerance setting.
func (v ValidationConfig) ToleranceValue() (decimal.Decimal, error) {
	tol, err := decimal.NewFromString(v.Tolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("validation.tolerance %q: %w", v.Tolerance, err)
	}
	if tol.IsNegative() {
		return decimal.Zero, fmt.Errorf("validation.tolerance %q must not be negative", v.Tolerance)
	}
	return tol, nil
}

// ValidatorOptions translates the validation settings into validator
// options. Invalid tolerance text falls back to the validator default.
func (v ValidationConfig) ValidatorOptions() []validator.Option {
	var opts []validator.Option
	if tol, err := v.ToleranceValue(); err == nil {
		opts = append(opts, validator.WithTolerance(tol))
	}
	if v.LegacyCNPJOverrides {
		opts = append(opts, validator.WithCNPJValidator(cnpj.NewValidator(cnpj.WithLegacyOverrides())))
	} else {
		opts = append(opts, validator.WithCNPJValidator(cnpj.NewValidator()))
	}
	return opts
}
