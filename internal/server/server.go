package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mazewars/mazewars-go/internal/archive"
	"github.com/mazewars/mazewars-go/internal/match"
	"github.com/mazewars/mazewars-go/internal/model"
)

// readBufferSize bounds a single inbound datagram
const readBufferSize = 2048

// Config holds the UDP listener settings
type Config struct {
	Host         string
	Port         int
	TickInterval time.Duration
}

// DefaultConfig returns the listener defaults
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         2025,
		TickInterval: time.Second,
	}
}

// Server owns the UDP socket and drives the match: one goroutine reads
// datagrams, another ticks the countdown.
type Server struct {
	config     Config
	conn       *net.UDPConn
	match      *match.Match
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// New binds the UDP socket and wires up the dispatcher. A bind failure
// is returned to the caller so startup can abort.
func New(config Config, m *match.Match, store archive.Store, logger *slog.Logger) (*Server, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(config.Host, strconv.Itoa(config.Port)))
	if err != nil {
		return nil, fmt.Errorf("resolving listen address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding udp socket: %w", err)
	}

	transport := NewTransport(conn, logger)

	return &Server{
		config:     config,
		conn:       conn,
		match:      m,
		dispatcher: NewDispatcher(m, transport, store, logger),
		logger:     logger.With(slog.String("component", "server")),
	}, nil
}

// Addr returns the bound listen address. Useful when the configured
// port is 0.
func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Snapshot returns the live match state
func (s *Server) Snapshot() model.MatchSnapshot {
	return s.match.Snapshot()
}

// Kick removes a player on behalf of the operator API
func (s *Server) Kick(ctx context.Context, username string) error {
	return s.dispatcher.Kick(ctx, username)
}

// Run serves until ctx is cancelled or the socket fails
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("game server listening",
		slog.String("addr", s.conn.LocalAddr().String()),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Closing the socket unblocks the read loop on shutdown
		<-ctx.Done()
		return s.conn.Close()
	})
	g.Go(func() error {
		return s.receiveLoop(ctx)
	})
	g.Go(func() error {
		return s.tickLoop(ctx)
	})

	err := g.Wait()
	s.logger.Info("game server stopped")
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) receiveLoop(ctx context.Context) error {
	buf := make([]byte, readBufferSize)
	for {
		n, sender, err := s.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("udp read failed", slog.String("error", err.Error()))
			continue
		}

		s.dispatcher.HandleDatagram(ctx, buf[:n], sender)
	}
}

func (s *Server) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.dispatcher.HandleTick(ctx)
		}
	}
}
