// Package config loads bomx settings from bomx.toml and BOMX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full bomx configuration
type Config struct {
	Log      LogConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Explode  ExplodeConfig
}

// LogConfig selects the zap logger setup
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// CatalogConfig points at the catalog to load
type CatalogConfig struct {
	Path   string
	Format string // auto, csv, toml
}

// DatabaseConfig optionally persists the catalog through GORM
type DatabaseConfig struct {
	Driver   string // none, sqlite, postgres
	DSN      string
	LogLevel string
}

// Enabled reports whether a database driver is configured
func (d DatabaseConfig) Enabled() bool {
	return d.Driver != "" && d.Driver != "none"
}

// ExplodeConfig holds explosion defaults
type ExplodeConfig struct {
	CompanyID     int64
	PickingTypeID int64
	Format        string // text, json, csv, svg
	OutputDir     string
}

// Load reads configuration.
//
// Priority (highest to lowest):
// 1. Environment variables with BOMX_ prefix (e.g., BOMX_CATALOG_PATH)
// 2. the file at path, or bomx.toml in . or $HOME/.config/bomx when path is empty
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bomx")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/bomx")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("BOMX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Catalog: CatalogConfig{
			Path:   v.GetString("catalog.path"),
			Format: v.GetString("catalog.format"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("database.driver"),
			DSN:      v.GetString("database.dsn"),
			LogLevel: v.GetString("database.log_level"),
		},
		Explode: ExplodeConfig{
			CompanyID:     v.GetInt64("explode.company_id"),
			PickingTypeID: v.GetInt64("explode.picking_type_id"),
			Format:        v.GetString("explode.format"),
			OutputDir:     v.GetString("explode.output_dir"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "catalog"
	}
	if cfg.Catalog.Format == "" {
		cfg.Catalog.Format = "auto"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "none"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "silent"
	}
	if cfg.Explode.Format == "" {
		cfg.Explode.Format = "text"
	}
}

func (c *Config) validate() error {
	switch c.Catalog.Format {
	case "auto", "csv", "toml":
	default:
		return fmt.Errorf("catalog.format must be auto, csv or toml, got %q", c.Catalog.Format)
	}
	switch c.Database.Driver {
	case "none":
	case "sqlite", "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be none, sqlite or postgres, got %q", c.Database.Driver)
	}
	switch c.Explode.Format {
	case "text", "json", "csv", "svg":
	default:
		return fmt.Errorf("explode.format must be text, json, csv or svg, got %q", c.Explode.Format)
	}
	if c.Explode.CompanyID < 0 || c.Explode.PickingTypeID < 0 {
		return fmt.Errorf("explode.company_id and explode.picking_type_id cannot be negative")
	}
	return nil
}
