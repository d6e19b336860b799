package factory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mazewars/mazewars-go/internal/config"
	"github.com/mazewars/mazewars-go/internal/match"
	"github.com/mazewars/mazewars-go/internal/testutil"
)

func TestNew_MemoryStorage(t *testing.T) {
	cfg := config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Storage.Type = config.StorageTypeMemory

	app, err := New(cfg, testutil.NopLogger())
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	require.NotNil(t, app.Archive)
	require.NotNil(t, app.Match)
	require.NotNil(t, app.Server)
	require.Nil(t, app.Status)

	// Defaults fill the unset match rules
	snap := app.Server.Snapshot()
	require.Equal(t, match.DefaultConfig().MinPlayers, snap.MinPlayers)
	require.Equal(t, match.DefaultConfig().MaxPlayers, snap.MaxPlayers)
}

func TestNew_StatusServerWhenEnabled(t *testing.T) {
	cfg := config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.HTTP.Enabled = true
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = 0

	app, err := New(cfg, testutil.NopLogger())
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	require.NotNil(t, app.Status)
}

func TestNew_InvalidStorageType(t *testing.T) {
	cfg := config.Config{}
	cfg.Storage.Type = "postgres"

	_, err := New(cfg, testutil.NopLogger())
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid storage.type")
}

func TestNew_RedisRequiresURL(t *testing.T) {
	cfg := config.Config{}
	cfg.Storage.Type = config.StorageTypeRedis

	_, err := New(cfg, testutil.NopLogger())
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis_url")
}
