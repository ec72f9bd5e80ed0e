package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"odds-forecaster/internal/competition"
	"odds-forecaster/internal/logging"
)

// ErrMissingAPIKey is the configuration fault raised before any odds request
// when no credential is available.
var ErrMissingAPIKey = errors.New("odds_api.api_key is required (set FORECASTER_ODDS_API_API_KEY or ODDS_API_KEY)")

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api"`
	Forecast  ForecastConfig  `mapstructure:"forecast"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Timezone    string `mapstructure:"timezone"`
}

// OddsAPIConfig covers The Odds API access.
type OddsAPIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Regions        string        `mapstructure:"regions"`
	Markets        string        `mapstructure:"markets"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// ForecastConfig drives the selection pipeline.
type ForecastConfig struct {
	HistoryPath  string   `mapstructure:"history_path"`
	TopN         int      `mapstructure:"top_n"`
	WindowDays   int      `mapstructure:"window_days"`
	ActiveOnly   bool     `mapstructure:"active_only"`
	Competitions []string `mapstructure:"competitions"`
}

// DatabaseConfig encapsulates the optional PostgreSQL mirror.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SchedulerConfig governs the watch loop cadence.
type SchedulerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	AlignToBucket   bool          `mapstructure:"align_to_bucket"`
	AdvisoryLockKey int64         `mapstructure:"advisory_lock_key"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
}

// AlertingConfig defines where picks are published.
type AlertingConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes Telegram delivery.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxRecords int `mapstructure:"max_records"`
}

// Load builds configuration from file, environment, and defaults. A .env
// file in the working directory is honoured when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FORECASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("odds_api.api_key", "FORECASTER_ODDS_API_API_KEY", "ODDS_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind api key env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "forecaster")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.timezone", "Local")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("odds_api.regions", "eu")
	v.SetDefault("odds_api.markets", "h2h")
	v.SetDefault("odds_api.request_timeout", "30s")
	v.SetDefault("odds_api.user_agent", "forecaster/1.0")

	v.SetDefault("forecast.history_path", "historial_pronosticos.json")
	v.SetDefault("forecast.top_n", 5)
	v.SetDefault("forecast.window_days", 7)
	v.SetDefault("forecast.active_only", true)
	v.SetDefault("forecast.competitions", competition.All())

	v.SetDefault("scheduler.interval", "24h")
	v.SetDefault("scheduler.align_to_bucket", true)
	v.SetDefault("scheduler.advisory_lock_key", int64(0x666f7263))
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("export.max_records", 10000)

	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Forecast.TopN <= 0 {
		return fmt.Errorf("forecast.top_n must be greater than zero")
	}
	if c.Forecast.WindowDays < 0 {
		return fmt.Errorf("forecast.window_days cannot be negative")
	}
	if c.Forecast.HistoryPath == "" {
		return fmt.Errorf("forecast.history_path is required")
	}
	if len(c.Forecast.Competitions) == 0 {
		return fmt.Errorf("forecast.competitions must list at least one competition")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Export.MaxRecords <= 0 {
		return fmt.Errorf("export.max_records must be greater than zero")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token is required when telegram is enabled")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

// RequireOddsAPI reports the configuration fault that must stop any command
// about to query the odds provider.
func (c *Config) RequireOddsAPI() error {
	if strings.TrimSpace(c.OddsAPI.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Location resolves app.timezone, which decides the calendar date of "today".
func (c *Config) Location() (*time.Location, error) {
	name := c.App.Timezone
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("app.timezone: %w", err)
	}
	return loc, nil
}

// ResolveMaxRecords returns either the CLI override or config default.
func (c *Config) ResolveMaxRecords(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxRecords
}
