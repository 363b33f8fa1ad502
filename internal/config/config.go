package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/willibrandon/spsh/internal/logger"
)

// History backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config represents the root configuration structure
type Config struct {
	Editor EditorConfig `mapstructure:"editor" yaml:"editor"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Debug  bool         `mapstructure:"debug" yaml:"debug"`
}

// EditorConfig holds line editor preferences
type EditorConfig struct {
	Name                string `mapstructure:"name" yaml:"name"`
	Prompt              string `mapstructure:"prompt" yaml:"prompt"`
	HistorySize         int    `mapstructure:"history_size" yaml:"history_size"`
	HistoryBackend      string `mapstructure:"history_backend" yaml:"history_backend"`
	HistoryPath         string `mapstructure:"history_path" yaml:"history_path"`
	TabAtStartCompletes bool   `mapstructure:"tab_at_start_completes" yaml:"tab_at_start_completes"`
}

// LogConfig holds log file settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Path  string `mapstructure:"path" yaml:"path"`
}

// LoadFromPath loads configuration from a specific path.
// If configPath is empty, it searches default locations.
func LoadFromPath(configPath string) (*Config, error) {
	v := viper.New()

	// Environment variable support
	v.SetEnvPrefix("SPSH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "spsh"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "spsh"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("loaded config", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Editor.HistoryPath = expandPath(cfg.Editor.HistoryPath)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Editor.HistorySize < 1 {
		return fmt.Errorf("editor.history_size must be at least 1, got %d", c.Editor.HistorySize)
	}

	switch c.Editor.HistoryBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("editor.history_backend must be %q or %q, got %q",
			BackendFile, BackendSQLite, c.Editor.HistoryBackend)
	}

	if c.Editor.HistoryBackend == BackendSQLite && c.Editor.Name == "" {
		return fmt.Errorf("editor.name is required for the sqlite history backend")
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// LogLevel returns the configured log level, raised to debug when Debug is set.
func (c *Config) LogLevel() logger.LogLevel {
	if c.Debug {
		return logger.LevelDebug
	}
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

// applyDefaults sets default configuration values.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("editor.name", "spsh")
	v.SetDefault("editor.prompt", "spsh> ")
	v.SetDefault("editor.history_size", 300)
	v.SetDefault("editor.history_backend", BackendFile)
	v.SetDefault("editor.history_path", "")
	v.SetDefault("editor.tab_at_start_completes", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")

	v.SetDefault("debug", false)
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
