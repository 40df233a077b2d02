package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conduit-lang/typegraph/internal/logging"
)

// FileName is the base name of the configuration file (typegraph.yml or typegraph.yaml).
const FileName = "typegraph"

// EnvPrefix prefixes environment overrides, e.g. TYPEGRAPH_CATALOG_DIR.
const EnvPrefix = "TYPEGRAPH"

// Config represents the typegraph configuration
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Output   OutputConfig   `mapstructure:"output"`
	Settings SettingsConfig `mapstructure:"settings"`
	Schema   SchemaConfig   `mapstructure:"schema"`
	Log      LogConfig      `mapstructure:"log"`

	// File is the configuration file that was read, empty when defaults were used.
	File string `mapstructure:"-"`
}

// CatalogConfig locates the catalog read by list, properties and schema
type CatalogConfig struct {
	Dir string `mapstructure:"dir"`
}

// OutputConfig controls where generate writes the catalog
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	Compress bool   `mapstructure:"compress"`
}

// SettingsConfig is copied into the settings block of generated indexes
type SettingsConfig struct {
	Name      string `mapstructure:"name"`
	Version   string `mapstructure:"version"`
	Singleton bool   `mapstructure:"singleton"`
}

// SchemaConfig controls JSON Schema projection
type SchemaConfig struct {
	MaxDepth     int  `mapstructure:"max_depth"`
	Concurrency  int  `mapstructure:"concurrency"`
	Descriptions bool `mapstructure:"descriptions"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load finds typegraph.yml in the working directory or one of its parents
// and loads it. Defaults are used when no file exists.
func Load() (*Config, error) {
	dir, err := FindRoot()
	if err != nil {
		dir = "."
	}
	return LoadFrom(dir)
}

// LoadFrom loads the configuration from typegraph.yml or typegraph.yaml in dir.
// Relative directories in the file are resolved against dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("catalog.dir", "output")
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.compress", false)
	v.SetDefault("settings.name", "Testing")
	v.SetDefault("settings.version", "0.0.1")
	v.SetDefault("settings.singleton", false)
	v.SetDefault("schema.max_depth", 0)
	v.SetDefault("schema.concurrency", 4)
	v.SetDefault("schema.descriptions", false)
	v.SetDefault("log.level", "warn")

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.File = v.ConfigFileUsed()

	if config.File != "" {
		base := filepath.Dir(config.File)
		config.Catalog.Dir = resolve(base, config.Catalog.Dir)
		config.Output.Dir = resolve(base, config.Output.Dir)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindRoot walks up from the working directory to the first directory
// holding a typegraph.yml or typegraph.yaml.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, ext := range []string{".yml", ".yaml"} {
			if _, err := os.Stat(filepath.Join(dir, FileName+ext)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s.yml found in the working directory or its parents", FileName)
		}
		dir = parent
	}
}

func resolve(base, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Catalog.Dir == "" {
		return fmt.Errorf("catalog.dir must not be empty")
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if cfg.Schema.MaxDepth < 0 {
		return fmt.Errorf("schema.max_depth must not be negative, got: %d", cfg.Schema.MaxDepth)
	}
	if cfg.Schema.Concurrency < 0 {
		return fmt.Errorf("schema.concurrency must not be negative, got: %d", cfg.Schema.Concurrency)
	}
	if !logging.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be one of %s, got: %s", strings.Join(logging.Levels, ", "), cfg.Log.Level)
	}
	return nil
}
