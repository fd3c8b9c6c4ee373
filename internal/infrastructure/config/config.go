// Package config loads runtime configuration from file, environment and
// flag-bound viper keys.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// StorageConfig selects the key-value store backend.
type StorageConfig struct {
	// Driver is sqlite3, postgres or memory.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TTSConfig selects the speech provider.
type TTSConfig struct {
	Provider string `mapstructure:"provider"`
	Command  string `mapstructure:"command"`
}

// Config is the application configuration tree.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	TTS     TTSConfig     `mapstructure:"tts"`
}

func setDefaults() {
	viper.SetDefault("storage.driver", "sqlite3")
	viper.SetDefault("storage.dsn", "polyglot.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("tts.provider", "espeak")
	viper.SetDefault("tts.command", "espeak-ng")
}

// Load reads an optional polyglot.yaml from the working directory, applies
// POLYGLOT_* environment overrides and unmarshals the result.
func Load() (*Config, error) {
	setDefaults()

	viper.SetConfigName("polyglot")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("POLYGLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
