// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Journal     JournalConfig     `mapstructure:"journal"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Enrichment  EnrichmentConfig  `mapstructure:"enrichment"`
	UI          UIConfig          `mapstructure:"ui"`
	Credentials Credentials       `mapstructure:"-"` // Loaded separately
}

// JournalConfig holds journal storage configuration.
type JournalConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	Currency     string `mapstructure:"currency"`
}

// AnalysisConfig holds analysis thresholds that are meant to be tunable.
// Algorithm-internal constants (streak length, trend window) are fixed.
type AnalysisConfig struct {
	MinTrades     int `mapstructure:"min_trades"`      // precondition for analyze
	GridStartHour int `mapstructure:"grid_start_hour"` // weekday grid, inclusive
	GridEndHour   int `mapstructure:"grid_end_hour"`   // weekday grid, inclusive
}

// EnrichmentConfig holds optional AI enrichment configuration.
type EnrichmentConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradebook"
	}
	return filepath.Join(home, ".config", "tradebook")
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			DatabasePath: filepath.Join(DefaultConfigDir(), "tradebook.db"),
			Currency:     "USD",
		},
		Analysis: AnalysisConfig{
			MinTrades:     5,
			GridStartHour: 7,
			GridEndHour:   17,
		},
		Enrichment: EnrichmentConfig{
			Enabled: false,
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "2006-01-02",
			TimeFormat:   "15:04",
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("journal.database_path", filepath.Join(configDir, "tradebook.db"))
	v.SetDefault("journal.currency", "USD")
	v.SetDefault("analysis.min_trades", 5)
	v.SetDefault("analysis.grid_start_hour", 7)
	v.SetDefault("analysis.grid_end_hour", 17)
	v.SetDefault("enrichment.enabled", false)
	v.SetDefault("enrichment.model", "gpt-4o-mini")
	v.SetDefault("enrichment.timeout", "30s")
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.time_format", "15:04")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRADEBOOK_DB"); v != "" {
		cfg.Journal.DatabasePath = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.MinTrades < 1 {
		return fmt.Errorf("analysis.min_trades must be at least 1")
	}
	if c.Analysis.GridStartHour < 0 || c.Analysis.GridStartHour > 23 {
		return fmt.Errorf("analysis.grid_start_hour must be between 0 and 23")
	}
	if c.Analysis.GridEndHour < c.Analysis.GridStartHour || c.Analysis.GridEndHour > 23 {
		return fmt.Errorf("analysis.grid_end_hour must be between grid_start_hour and 23")
	}
	if c.Enrichment.Enabled && c.Enrichment.Timeout <= 0 {
		return fmt.Errorf("enrichment.timeout must be positive")
	}
	return nil
}

// EnrichmentReady reports whether enrichment is enabled and credentialed.
func (c *Config) EnrichmentReady() bool {
	return c.Enrichment.Enabled && c.Credentials.OpenAI.APIKey != ""
}
