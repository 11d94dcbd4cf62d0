package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. METAVIEW_LOG_LEVEL.
const EnvPrefix = "METAVIEW"

type Config struct {
	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Save prompt and report output
	SaveToken  string `mapstructure:"SAVE_TOKEN" validate:"required"`
	SaveFormat string `mapstructure:"SAVE_FORMAT" validate:"oneof=text json yaml"`
	OutputDir  string `mapstructure:"OUTPUT_DIR" validate:"required"`

	// EXIF decoding
	MakerNotes bool `mapstructure:"MAKER_NOTES"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	typ := reflect.TypeOf(c)
	for i := 0; i < typ.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("mapstructure"); tag != "" {
			viper.BindEnv(tag)
		}
	}
}

// LoadConfig reads the configuration from METAVIEW_* environment variables
// and an optional metaview.yaml in the working directory. Environment
// variables win over the file.
func LoadConfig(ctx context.Context) (*Config, error) {
	viper.SetEnvPrefix(EnvPrefix)
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("LOG_LEVEL", "warn")
	viper.SetDefault("SAVE_TOKEN", "y")
	viper.SetDefault("SAVE_FORMAT", "text")
	viper.SetDefault("OUTPUT_DIR", ".")
	viper.SetDefault("MAKER_NOTES", true)

	viper.SetConfigName("metaview")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	slog.DebugContext(ctx, "Loaded configuration", "config", cfg)
	return &cfg, nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}
