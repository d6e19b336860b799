package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mazewars/mazewars-go/internal/archive"
	archivememory "github.com/mazewars/mazewars-go/internal/archive/memory"
	archiveredis "github.com/mazewars/mazewars-go/internal/archive/redis"
	"github.com/mazewars/mazewars-go/internal/config"
	"github.com/mazewars/mazewars-go/internal/dependencies/clock"
	"github.com/mazewars/mazewars-go/internal/dependencies/random"
	"github.com/mazewars/mazewars-go/internal/match"
	"github.com/mazewars/mazewars-go/internal/server"
	"github.com/mazewars/mazewars-go/internal/status"
)

// App contains all wired application components
type App struct {
	Config config.Config
	Logger *slog.Logger

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Components
	Archive archive.Store
	Match   *match.Match
	Server  *server.Server
	Status  *status.Server
}

// New creates a new application with all dependencies wired. The UDP
// socket is bound here so startup failures surface before Run.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newArchiveStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("creating archive store: %w", err)
	}

	clk := clock.New()
	rnd := random.New()

	// Zero values fall back to the component defaults so a partially
	// filled config still yields a runnable app
	matchCfg := match.DefaultConfig()
	if cfg.Match.MinPlayers > 0 {
		matchCfg.MinPlayers = cfg.Match.MinPlayers
	}
	if cfg.Match.MaxPlayers > 0 {
		matchCfg.MaxPlayers = cfg.Match.MaxPlayers
	}
	if cfg.Match.Countdown > 0 {
		matchCfg.Countdown = cfg.Match.Countdown
	}

	m := match.New(matchCfg, clk, rnd)

	serverCfg := server.DefaultConfig()
	if cfg.Server.Host != "" {
		serverCfg.Host = cfg.Server.Host
	}
	serverCfg.Port = cfg.Server.Port
	if cfg.Match.Tick > 0 {
		serverCfg.TickInterval = cfg.Match.Tick
	}

	srv, err := server.New(serverCfg, m, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("creating udp server: %w", err)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Clock:   clk,
		Random:  rnd,
		Archive: store,
		Match:   m,
		Server:  srv,
	}

	if cfg.HTTP.Enabled {
		handler := status.NewRouter(status.RouterConfig{
			Logger:     logger,
			Controller: srv,
			Archive:    store,
		})
		statusCfg := status.DefaultServerConfig()
		if cfg.HTTP.Host != "" {
			statusCfg.Host = cfg.HTTP.Host
		}
		statusCfg.Port = cfg.HTTP.Port
		app.Status = status.NewServer(handler, statusCfg, logger)
	}

	return app, nil
}

// Run starts all servers and blocks until the context is cancelled or
// one of them fails
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Server.Run(ctx)
	})

	if a.Status != nil {
		g.Go(func() error {
			return a.Status.Start()
		})
		g.Go(func() error {
			<-ctx.Done()
			return a.Status.Shutdown(context.Background())
		})
	}

	return g.Wait()
}

// Close releases resources that outlive Run
func (a *App) Close() error {
	return a.Archive.Close()
}

func newArchiveStore(cfg config.StorageConfig) (archive.Store, error) {
	storageType := cfg.Type
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		return archivememory.New(), nil
	case config.StorageTypeRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("storage.redis_url required when storage.type is redis")
		}
		redisCfg := archiveredis.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		return archiveredis.New(redisCfg)
	default:
		return nil, fmt.Errorf("invalid storage.type %q: must be %q or %q", cfg.Type, config.StorageTypeMemory, config.StorageTypeRedis)
	}
}
