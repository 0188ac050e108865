// Package config loads the translator configuration once at cold start.
// Values come from built-in defaults, an optional YAML file and finally
// environment variables, in that order of precedence (env wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all translator settings. It is read-only after Load.
type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	Gemini   GeminiConfig   `yaml:"gemini"`
	Libre    LibreConfig    `yaml:"libretranslate"`
	MyMemory MyMemoryConfig `yaml:"mymemory"`
	OpusMT   OpusMTConfig   `yaml:"opus_mt"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

// GeminiConfig configures the keyed provider. An empty APIKey disables it.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// LibreConfig configures the LibreTranslate detect+translate provider.
type LibreConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// MyMemoryConfig configures the MyMemory single-call provider.
type MyMemoryConfig struct {
	URL   string `yaml:"url"`
	Email string `yaml:"email"`
}

// OpusMTConfig toggles the self-hosted translator Lambdas.
type OpusMTConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PipelineConfig configures the fallback orchestrator.
type PipelineConfig struct {
	ProviderTimeout  time.Duration `yaml:"provider_timeout"`
	IdentityFallback bool          `yaml:"identity_fallback"`
}

// LedgerConfig bounds the in-memory query ledger.
type LedgerConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Environment: "dev",
		LogLevel:    "info",
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Libre: LibreConfig{
			URL: "https://libretranslate.de",
		},
		MyMemory: MyMemoryConfig{
			URL: "https://api.mymemory.translated.net",
		},
		Pipeline: PipelineConfig{
			ProviderTimeout:  10 * time.Second,
			IdentityFallback: true,
		},
		Ledger: LedgerConfig{
			MaxEntries: 500,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any) and environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variables on top of file values.
func (c *Config) applyEnvOverrides() error {
	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Libre.URL, "LIBRETRANSLATE_URL")
	setString(&c.Libre.APIKey, "LIBRETRANSLATE_API_KEY")
	setString(&c.MyMemory.URL, "MYMEMORY_URL")
	setString(&c.MyMemory.Email, "MYMEMORY_EMAIL")

	if err := setBool(&c.OpusMT.Enabled, "OPUSMT_ENABLED"); err != nil {
		return err
	}
	if err := setBool(&c.Pipeline.IdentityFallback, "IDENTITY_FALLBACK"); err != nil {
		return err
	}

	if v := strings.TrimSpace(os.Getenv("PROVIDER_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PROVIDER_TIMEOUT: %w", err)
		}
		c.Pipeline.ProviderTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("LEDGER_MAX_ENTRIES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEDGER_MAX_ENTRIES: %w", err)
		}
		c.Ledger.MaxEntries = n
	}
	return nil
}

// Validate checks values that would otherwise fail at request time.
func (c *Config) Validate() error {
	if c.Pipeline.ProviderTimeout <= 0 {
		return fmt.Errorf("provider timeout must be positive, got %s", c.Pipeline.ProviderTimeout)
	}
	if c.Ledger.MaxEntries < 0 {
		return fmt.Errorf("ledger max entries must not be negative, got %d", c.Ledger.MaxEntries)
	}
	return nil
}

// GeminiEnabled reports whether the keyed provider has a credential.
func (c *Config) GeminiEnabled() bool {
	return c.Gemini.APIKey != ""
}

// Secrets lists credential and contact values that must never appear in
// logs. The MyMemory email travels in request URLs.
func (c *Config) Secrets() []string {
	return []string{c.Gemini.APIKey, c.Libre.APIKey, c.MyMemory.Email}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
