package server

import (
	"fmt"
	"log/slog"
	"net/netip"

	"github.com/mazewars/mazewars-go/internal/protocol"
)

// PacketWriter is the transmit side of a UDP socket. *net.UDPConn
// satisfies it.
type PacketWriter interface {
	WriteToUDPAddrPort(b []byte, addr netip.AddrPort) (int, error)
}

// Transport encodes server messages and writes them to client
// addresses as UDP datagrams. Each message is serialized once, no
// matter how many recipients it has.
type Transport struct {
	conn   PacketWriter
	logger *slog.Logger
}

// NewTransport creates a transport writing through conn
func NewTransport(conn PacketWriter, logger *slog.Logger) *Transport {
	return &Transport{
		conn:   conn,
		logger: logger.With(slog.String("component", "transport")),
	}
}

// Unicast sends a single message to a single client
func (t *Transport) Unicast(msg protocol.ServerMessage, addr netip.AddrPort) error {
	raw, err := protocol.EncodeServerMessage(msg)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", msg.Kind(), err)
	}

	if _, err := t.conn.WriteToUDPAddrPort(raw, addr); err != nil {
		return fmt.Errorf("sending %s to %s: %w", msg.Kind(), addr, err)
	}

	return nil
}

// Broadcast sends a message to every address in addrs. Delivery is
// best-effort: a recipient whose write fails is logged and skipped so
// the remaining recipients still receive the message.
func (t *Transport) Broadcast(msg protocol.ServerMessage, addrs []netip.AddrPort) {
	if len(addrs) == 0 {
		return
	}

	raw, err := protocol.EncodeServerMessage(msg)
	if err != nil {
		t.logger.Error("broadcast encoding failed",
			slog.String("kind", string(msg.Kind())),
			slog.String("error", err.Error()),
		)
		return
	}

	sent := 0
	dropped := 0
	for _, addr := range addrs {
		if _, err := t.conn.WriteToUDPAddrPort(raw, addr); err != nil {
			dropped++
			t.logger.Warn("broadcast send failed",
				slog.String("kind", string(msg.Kind())),
				slog.String("addr", addr.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}

	if dropped > 0 {
		t.logger.Warn("broadcast incomplete",
			slog.String("kind", string(msg.Kind())),
			slog.Int("sent", sent),
			slog.Int("dropped", dropped),
		)
	}
}
