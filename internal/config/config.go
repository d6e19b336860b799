package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backend selectors
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Match   MatchConfig   `mapstructure:"match"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds the UDP listener settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the host:port listen address
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MatchConfig holds the match rules
type MatchConfig struct {
	MinPlayers int           `mapstructure:"min_players"`
	MaxPlayers int           `mapstructure:"max_players"`
	Countdown  time.Duration `mapstructure:"countdown"`
	Tick       time.Duration `mapstructure:"tick"`
}

// HTTPConfig holds the status API listener settings
type HTTPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Addr returns the host:port listen address
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// StorageConfig selects and configures the match archive backend
type StorageConfig struct {
	Type     string `mapstructure:"type"`
	RedisURL string `mapstructure:"redis_url"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SlogLevel maps the configured level onto slog. Unknown values fall
// back to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
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

// Load reads configuration from defaults, an optional mazewars.yaml,
// and MAZEWARS_-prefixed environment variables. An empty path searches
// the working directory; a non-empty path names the file explicitly
// and must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mazewars")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MAZEWARS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine unless it was named explicitly
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 2025)

	v.SetDefault("match.min_players", 2)
	v.SetDefault("match.max_players", 10)
	v.SetDefault("match.countdown", 5*time.Second)
	v.SetDefault("match.tick", time.Second)

	v.SetDefault("http.enabled", true)
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)

	v.SetDefault("storage.type", StorageTypeMemory)
	v.SetDefault("storage.redis_url", "redis://localhost:6379")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks cross-field constraints
func (c Config) Validate() error {
	if c.Match.MinPlayers < 1 {
		return fmt.Errorf("match.min_players must be at least 1, got %d", c.Match.MinPlayers)
	}
	if c.Match.MaxPlayers < c.Match.MinPlayers {
		return fmt.Errorf("match.max_players (%d) must be at least match.min_players (%d)",
			c.Match.MaxPlayers, c.Match.MinPlayers)
	}
	if c.Match.MaxPlayers > 255 {
		return fmt.Errorf("match.max_players must be at most 255, got %d", c.Match.MaxPlayers)
	}
	if c.Match.Countdown <= 0 {
		return fmt.Errorf("match.countdown must be positive, got %s", c.Match.Countdown)
	}
	if c.Match.Tick <= 0 {
		return fmt.Errorf("match.tick must be positive, got %s", c.Match.Tick)
	}

	switch c.Storage.Type {
	case StorageTypeMemory, StorageTypeRedis:
	default:
		return fmt.Errorf("unknown storage.type %q", c.Storage.Type)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}

	return nil
}
