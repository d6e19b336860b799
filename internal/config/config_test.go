package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

// writeConfig writes yaml to a temp file and returns its path
func (s *ConfigSuite) writeConfig(yaml string) string {
	path := filepath.Join(s.T().TempDir(), "mazewars.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(yaml), 0644))
	return path
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal("0.0.0.0", cfg.Server.Host)
	s.Equal(2025, cfg.Server.Port)
	s.Equal(2, cfg.Match.MinPlayers)
	s.Equal(10, cfg.Match.MaxPlayers)
	s.Equal(5*time.Second, cfg.Match.Countdown)
	s.Equal(time.Second, cfg.Match.Tick)
	s.True(cfg.HTTP.Enabled)
	s.Equal(8080, cfg.HTTP.Port)
	s.Equal(StorageTypeMemory, cfg.Storage.Type)
	s.Equal("redis://localhost:6379", cfg.Storage.RedisURL)
	s.Equal("info", cfg.Log.Level)
	s.Equal("json", cfg.Log.Format)
}

func (s *ConfigSuite) TestLoadFromFile() {
	path := s.writeConfig(`
server:
  host: 127.0.0.1
  port: 3025
match:
  min_players: 3
  countdown: 10s
storage:
  type: redis
  redis_url: redis://cache:6379
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal("127.0.0.1", cfg.Server.Host)
	s.Equal(3025, cfg.Server.Port)
	s.Equal(3, cfg.Match.MinPlayers)
	s.Equal(10*time.Second, cfg.Match.Countdown)
	s.Equal(StorageTypeRedis, cfg.Storage.Type)
	s.Equal("redis://cache:6379", cfg.Storage.RedisURL)

	// Unset keys keep their defaults
	s.Equal(10, cfg.Match.MaxPlayers)
	s.Equal(time.Second, cfg.Match.Tick)
}

func (s *ConfigSuite) TestMissingExplicitFile() {
	_, err := Load("/nonexistent/mazewars.yaml")
	s.Require().Error(err)
	s.Contains(err.Error(), "reading config file")
}

func (s *ConfigSuite) TestMalformedFile() {
	path := s.writeConfig("match: [not a mapping")

	_, err := Load(path)
	s.Require().Error(err)
	s.Contains(err.Error(), "reading config file")
}

func (s *ConfigSuite) TestEnvOverrides() {
	s.T().Setenv("MAZEWARS_SERVER_PORT", "4025")
	s.T().Setenv("MAZEWARS_MATCH_MAX_PLAYERS", "5")
	s.T().Setenv("MAZEWARS_STORAGE_TYPE", "redis")

	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal(4025, cfg.Server.Port)
	s.Equal(5, cfg.Match.MaxPlayers)
	s.Equal(StorageTypeRedis, cfg.Storage.Type)
}

func (s *ConfigSuite) TestValidationMinPlayers() {
	path := s.writeConfig("match:\n  min_players: 0\n")

	_, err := Load(path)
	s.Require().Error(err)
	s.Contains(err.Error(), "min_players")
}

func (s *ConfigSuite) TestValidationMaxBelowMin() {
	path := s.writeConfig("match:\n  min_players: 5\n  max_players: 3\n")

	_, err := Load(path)
	s.Require().Error(err)
	s.Contains(err.Error(), "max_players")
}

func (s *ConfigSuite) TestValidationMaxPlayersCap() {
	path := s.writeConfig("match:\n  max_players: 300\n")

	_, err := Load(path)
	s.Require().Error(err)
	s.Contains(err.Error(), "at most 255")
}

func (s *ConfigSuite) TestValidationStorageType() {
	path := s.writeConfig("storage:\n  type: postgres\n")

	_, err := Load(path)
	s.Require().Error(err)
	s.Contains(err.Error(), "storage.type")
}

func (s *ConfigSuite) TestValidationLogFormat() {
	path := s.writeConfig("log:\n  format: xml\n")

	_, err := Load(path)
	s.Require().Error(err)
	s.Contains(err.Error(), "log.format")
}

func (s *ConfigSuite) TestAddr() {
	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal("0.0.0.0:2025", cfg.Server.Addr())
	s.Equal("0.0.0.0:8080", cfg.HTTP.Addr())
}

func (s *ConfigSuite) TestSlogLevel() {
	s.Equal(slog.LevelDebug, LogConfig{Level: "debug"}.SlogLevel())
	s.Equal(slog.LevelInfo, LogConfig{Level: "info"}.SlogLevel())
	s.Equal(slog.LevelWarn, LogConfig{Level: "WARN"}.SlogLevel())
	s.Equal(slog.LevelError, LogConfig{Level: "error"}.SlogLevel())
	s.Equal(slog.LevelInfo, LogConfig{Level: "verbose"}.SlogLevel())
}
