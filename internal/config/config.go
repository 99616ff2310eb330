// Package config loads the card daemon configuration from the environment.
//
// The loading sequence is:
//  1. Load a .env file via godotenv (non-fatal if absent).
//  2. Populate the Config struct from envconfig tags.
//  3. Validate the struct using go-playground/validator.
//
// The initial card configuration may also be supplied through CARD_*
// variables; when CARD_ENTITY is unset the daemon starts unconfigured and
// waits for a configuration push over the API.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"meteocard/internal/types"
)

// ConfigError is a diagnostic error type returned by Load to aid debugging.
type ConfigError struct {
	Stage   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8094" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// CardEnv mirrors the card configuration as environment variables, for
// hosts that provision the widget at startup instead of over the API.
type CardEnv struct {
	Entity             string `envconfig:"CARD_ENTITY"`
	Name               string `envconfig:"CARD_NAME"`
	RainForecastEntity string `envconfig:"CARD_RAIN_FORECAST_ENTITY"`
	AlertEntity        string `envconfig:"CARD_ALERT_ENTITY"`
	RainChanceEntity   string `envconfig:"CARD_RAIN_CHANCE_ENTITY"`
	FreezeChanceEntity string `envconfig:"CARD_FREEZE_CHANCE_ENTITY"`
	SnowChanceEntity   string `envconfig:"CARD_SNOW_CHANCE_ENTITY"`
	UVEntity           string `envconfig:"CARD_UV_ENTITY"`

	ShowCurrent        bool `envconfig:"CARD_SHOW_CURRENT" default:"true"`
	ShowDetails        bool `envconfig:"CARD_SHOW_DETAILS" default:"true"`
	ShowRainForecast   bool `envconfig:"CARD_SHOW_RAIN_FORECAST" default:"true"`
	ShowAlert          bool `envconfig:"CARD_SHOW_ALERT" default:"true"`
	ShowHourlyForecast bool `envconfig:"CARD_SHOW_HOURLY_FORECAST" default:"true"`
	ShowDailyForecast  bool `envconfig:"CARD_SHOW_DAILY_FORECAST" default:"true"`

	HourlyForecastCount int `envconfig:"CARD_HOURLY_ROWS" default:"6" validate:"min=1,max=24"`
	DailyForecastCount  int `envconfig:"CARD_DAILY_ROWS" default:"5" validate:"min=1,max=7"`
}

// Config is the full daemon configuration.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	Server ServerConfig
	Card   CardEnv
}

// Load reads, populates, and validates the daemon configuration.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{Stage: "env", Message: "processing environment", Err: err}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, &ConfigError{Stage: "validate", Message: "configuration out of bounds", Err: err}
	}

	return &cfg, nil
}

// CardConfigured reports whether the environment provisions an initial
// card configuration.
func (c *Config) CardConfigured() bool {
	return c.Card.Entity != ""
}

// CardConfig converts the CARD_* environment block into a CardConfig.
func (c *Config) CardConfig() types.CardConfig {
	return types.CardConfig{
		Entity:              c.Card.Entity,
		Name:                c.Card.Name,
		RainForecastEntity:  c.Card.RainForecastEntity,
		AlertEntity:         c.Card.AlertEntity,
		RainChanceEntity:    c.Card.RainChanceEntity,
		FreezeChanceEntity:  c.Card.FreezeChanceEntity,
		SnowChanceEntity:    c.Card.SnowChanceEntity,
		UVEntity:            c.Card.UVEntity,
		ShowCurrent:         c.Card.ShowCurrent,
		ShowDetails:         c.Card.ShowDetails,
		ShowRainForecast:    c.Card.ShowRainForecast,
		ShowAlert:           c.Card.ShowAlert,
		ShowHourlyForecast:  c.Card.ShowHourlyForecast,
		ShowDailyForecast:   c.Card.ShowDailyForecast,
		HourlyForecastCount: c.Card.HourlyForecastCount,
		DailyForecastCount:  c.Card.DailyForecastCount,
	}
}

// SlogLevel maps the configured log level onto slog's levels.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
