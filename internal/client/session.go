package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mazewars/mazewars-go/internal/model"
	"github.com/mazewars/mazewars-go/internal/protocol"
)

const (
	// readBufferSize bounds a single inbound datagram
	readBufferSize = 1024

	// eventBufferSize is the capacity of the session event channel.
	// A consumer that falls behind loses events rather than stalling
	// the receive loop.
	eventBufferSize = 256
)

// Session is one client's connection to a game server: it owns the
// UDP socket, keeps the local mirror of remote players in sync with
// server broadcasts, and applies the send-on-change policy to the
// outbound transform stream.
//
// A renderer reads Mirror and Self once per frame; it never mutates
// network state through this type.
type Session struct {
	conn   *net.UDPConn
	logger *slog.Logger

	mu          sync.Mutex
	state       *state
	lastSentPos model.Position
	lastSentRot model.Rotation
	sentMove    bool

	events chan Event

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the server at addr, sends the JoinGame request
// for username, and starts receiving broadcasts. The server's
// answer arrives asynchronously: either a lobby update that lists
// the username, or a rejection surfaced as a join_rejected event.
func Dial(addr, username string, logger *slog.Logger) (*Session, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolving server address: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("connecting to server: %w", err)
	}

	s := &Session{
		conn:   conn,
		logger: logger.With(slog.String("component", "client"), slog.String("username", username)),
		state:  newState(username),
		events: make(chan Event, eventBufferSize),
		done:   make(chan struct{}),
	}

	if err := s.send(protocol.JoinGame{Username: username}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sending join request: %w", err)
	}

	go s.receiveLoop()

	return s, nil
}

// Username returns the name this session joined under
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.username
}

// Self returns a point-in-time view of the local player
func (s *Session) Self() Self {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.self
}

// Mirror returns a copy of the last-known transforms of every other
// player
func (s *Session) Mirror() map[string]RemotePlayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.snapshotMirror()
}

// Events returns the channel session events are surfaced on. It is
// closed when the session shuts down.
func (s *Session) Events() <-chan Event {
	return s.events
}

// SendTransform reports the local player's transform to the server.
// A report identical to the last one sent is skipped, so callers can
// invoke this every frame without flooding the network. Reports are
// suppressed once the player is dead or the match is over. The
// return value tells whether a datagram actually went out.
func (s *Session) SendTransform(pos model.Position, rot model.Rotation, yield float32) (bool, error) {
	s.mu.Lock()
	if !s.state.canSend() {
		s.mu.Unlock()
		return false, nil
	}
	if s.sentMove && pos == s.lastSentPos && rot == s.lastSentRot {
		s.mu.Unlock()
		return false, nil
	}
	s.lastSentPos = pos
	s.lastSentRot = rot
	s.sentMove = true
	s.mu.Unlock()

	if err := s.send(protocol.Move{Position: pos, Rotation: rot, YieldControl: yield}); err != nil {
		return false, err
	}
	return true, nil
}

// Shoot declares a hit on the named player. Suppressed once the
// player is dead or the match is over.
func (s *Session) Shoot(target string) (bool, error) {
	s.mu.Lock()
	allowed := s.state.canSend()
	s.mu.Unlock()
	if !allowed {
		return false, nil
	}

	if err := s.send(protocol.ShotPlayer{PlayerUsername: target}); err != nil {
		return false, err
	}
	return true, nil
}

// Close shuts the session down. The event channel is closed once the
// receive loop has drained.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *Session) send(msg protocol.ClientMessage) error {
	raw, err := protocol.EncodeClientMessage(msg)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", msg.Kind(), err)
	}
	if _, err := s.conn.Write(raw); err != nil {
		return fmt.Errorf("sending %s: %w", msg.Kind(), err)
	}
	return nil
}

// receiveLoop reads server datagrams until the socket closes,
// folding each one into the local state. Undecodable datagrams are
// dropped silently.
func (s *Session) receiveLoop() {
	defer close(s.events)

	buf := make([]byte, readBufferSize)
	for {
		n, err := s.conn.Read(buf)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			// Connected UDP sockets surface ICMP failures as one-shot
			// read errors; the socket itself is still usable.
			s.logger.Warn("read failed", slog.String("error", err.Error()))
			continue
		}

		msg, err := protocol.DecodeServerMessage(buf[:n])
		if err != nil {
			s.logger.Debug("dropping undecodable datagram", slog.String("error", err.Error()))
			continue
		}

		s.mu.Lock()
		events := s.state.apply(msg, time.Now())
		s.mu.Unlock()

		for _, ev := range events {
			select {
			case s.events <- ev:
			default:
				s.logger.Warn("event dropped, consumer too slow", slog.String("type", string(ev.Type)))
			}
		}
	}
}
