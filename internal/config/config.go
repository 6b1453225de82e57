// Package config loads application settings for the bundler TUI. The env
// document the tool edits is separate; this file only configures the tool
// itself (paths, logging, licensing, fee defaults).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds application settings loaded from bundler.json.
type Config struct {
	EnvPath      string `mapstructure:"env_path"`
	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`

	// Keygen.sh licensing. An empty license runs the tool unlicensed.
	License            string `mapstructure:"license"`
	KeygenAccountID    string `mapstructure:"keygen_account_id"`
	KeygenProductToken string `mapstructure:"keygen_product_token"`
	KeygenProductID    string `mapstructure:"keygen_product_id"`

	// Seeds offered before the operator configures fees, plus the sample
	// amount used by fee previews.
	DefaultMinTipLamports uint64 `mapstructure:"default_min_tip_lamports"`
	DefaultTipPercent     uint64 `mapstructure:"default_tip_percent"`
	DefaultFeeRecipient   string `mapstructure:"default_fee_recipient"`
	PreviewAmountLamports uint64 `mapstructure:"preview_amount_lamports"`
}

const (
	DefaultEnvPath        = ".env"
	DefaultMinTipLamports = 10_000
	DefaultTipPercent     = 50
	DefaultPreviewAmount  = 1_000_000_000

	// DefaultFeeRecipientAddress is a Jito mainnet tip account, offered
	// when the operator has not chosen a recipient yet.
	DefaultFeeRecipientAddress = "96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"
)

// LoadConfig reads configuration from the specified file path and performs
// validation. A missing file is not an error: the tool runs on defaults
// plus BUNDLER_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"env_path":                 DefaultEnvPath,
		"debug_logging":            false,
		"log_file":                 "",
		"license":                  "",
		"keygen_account_id":        "",
		"keygen_product_token":     "",
		"keygen_product_id":        "",
		"default_min_tip_lamports": DefaultMinTipLamports,
		"default_tip_percent":      DefaultTipPercent,
		"default_fee_recipient":    DefaultFeeRecipientAddress,
		"preview_amount_lamports":  DefaultPreviewAmount,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.EnvPath == "" {
		return errors.New("env_path cannot be empty")
	}
	if cfg.DefaultTipPercent > 100 {
		return fmt.Errorf("default_tip_percent must be between 0 and 100, got %d", cfg.DefaultTipPercent)
	}
	if cfg.PreviewAmountLamports == 0 {
		return errors.New("preview_amount_lamports must be greater than zero")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("BUNDLER")

	if envPath := v.GetString("ENV_PATH"); envPath != "" {
		cfg.EnvPath = envPath
	}
	if license := v.GetString("LICENSE"); license != "" {
		cfg.License = license
	}
	if token := v.GetString("KEYGEN_PRODUCT_TOKEN"); token != "" {
		cfg.KeygenProductToken = token
	}
	if logFile := v.GetString("LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}
	if recipient := v.GetString("DEFAULT_FEE_RECIPIENT"); recipient != "" {
		cfg.DefaultFeeRecipient = recipient
	}
}
