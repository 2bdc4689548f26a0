package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Board     BoardConfig     `mapstructure:"board"`
	Entur     EnturConfig     `mapstructure:"entur"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	ReadTimeout    int `mapstructure:"read_timeout"`
	WriteTimeout   int `mapstructure:"write_timeout"`
	RequestTimeout int `mapstructure:"request_timeout"`
	RateLimit      int `mapstructure:"rate_limit"`
}

// AuthConfig holds the shared secret display clients pass as ?secret=.
type AuthConfig struct {
	Secret string `mapstructure:"secret"`
}

// BoardConfig holds the defaults applied to board requests.
type BoardConfig struct {
	DefaultStop   string `mapstructure:"default_stop"`
	WindowMinutes int    `mapstructure:"window_minutes"`
	LeadMinutes   int    `mapstructure:"lead_minutes"`
	FetchLimit    int    `mapstructure:"fetch_limit"`
	MaxWindow     int    `mapstructure:"max_window"`
	MaxFetchLimit int    `mapstructure:"max_fetch_limit"`
}

type EnturConfig struct {
	URL        string `mapstructure:"url"`
	ClientName string `mapstructure:"client_name"`
	Contact    string `mapstructure:"contact"`
	Timeout    int    `mapstructure:"timeout"`
}

// NATSConfig is optional; an empty URL disables board events.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// ValkeyConfig is optional; an empty address keeps rate limits in memory.
type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env, an optional config file and
// environment variables.
func Load(service string) (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: TRMNL_AUTH_SECRET → auth.secret
	v.SetEnvPrefix("TRMNL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.request_timeout", 15)
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("auth.secret", "public")
	v.SetDefault("board.default_stop", "NSR:StopPlace:58366")
	v.SetDefault("board.window_minutes", 30)
	v.SetDefault("board.lead_minutes", 3)
	v.SetDefault("board.fetch_limit", 200)
	v.SetDefault("board.max_window", 1440)
	v.SetDefault("board.max_fetch_limit", 1000)
	v.SetDefault("entur.url", "https://api.entur.io/journey-planner/v3/graphql")
	v.SetDefault("entur.client_name", "private-dashboard")
	v.SetDefault("entur.contact", "")
	v.SetDefault("entur.timeout", 10)
	v.SetDefault("nats.url", "")
	v.SetDefault("valkey.addr", "")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "server.request_timeout must be positive")
	}
	if c.Server.RateLimit <= 0 {
		errs = append(errs, "server.rate_limit must be positive")
	}
	if c.Auth.Secret == "" {
		errs = append(errs, "auth.secret is required")
	}
	if c.Board.DefaultStop == "" {
		errs = append(errs, "board.default_stop is required")
	}
	if c.Board.MaxWindow <= 0 {
		errs = append(errs, "board.max_window must be positive")
	}
	if c.Board.WindowMinutes <= 0 || c.Board.WindowMinutes > c.Board.MaxWindow {
		errs = append(errs, fmt.Sprintf("board.window_minutes must be 1-%d, got %d", c.Board.MaxWindow, c.Board.WindowMinutes))
	}
	if c.Board.LeadMinutes < 0 {
		errs = append(errs, "board.lead_minutes must not be negative")
	}
	if c.Board.MaxFetchLimit <= 0 {
		errs = append(errs, "board.max_fetch_limit must be positive")
	}
	if c.Board.FetchLimit <= 0 || c.Board.FetchLimit > c.Board.MaxFetchLimit {
		errs = append(errs, fmt.Sprintf("board.fetch_limit must be 1-%d, got %d", c.Board.MaxFetchLimit, c.Board.FetchLimit))
	}
	if c.Entur.URL == "" {
		errs = append(errs, "entur.url is required")
	}
	if c.Entur.ClientName == "" {
		errs = append(errs, "entur.client_name is required")
	}
	if c.Entur.Timeout <= 0 {
		errs = append(errs, "entur.timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
