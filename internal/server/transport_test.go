package server

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mazewars/mazewars-go/internal/protocol"
	"github.com/mazewars/mazewars-go/internal/testutil"
)

// fakeWriter records datagrams instead of writing to a socket
type fakeWriter struct {
	sent    map[netip.AddrPort][][]byte
	failing map[netip.AddrPort]error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		sent:    make(map[netip.AddrPort][][]byte),
		failing: make(map[netip.AddrPort]error),
	}
}

func (w *fakeWriter) WriteToUDPAddrPort(b []byte, addr netip.AddrPort) (int, error) {
	if err, ok := w.failing[addr]; ok {
		return 0, err
	}
	payload := make([]byte, len(b))
	copy(payload, b)
	w.sent[addr] = append(w.sent[addr], payload)
	return len(b), nil
}

// receivedBy decodes every datagram recorded for addr
func (w *fakeWriter) receivedBy(t *testing.T, addr netip.AddrPort) []protocol.ServerMessage {
	t.Helper()
	msgs := make([]protocol.ServerMessage, 0, len(w.sent[addr]))
	for _, raw := range w.sent[addr] {
		msg, err := protocol.DecodeServerMessage(raw)
		if err != nil {
			t.Fatalf("recorded datagram did not decode: %v", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// receivedOf filters addr's decoded datagrams down to one message type
func receivedOf[T protocol.ServerMessage](t *testing.T, w *fakeWriter, addr netip.AddrPort) []T {
	t.Helper()
	var out []T
	for _, msg := range w.receivedBy(t, addr) {
		if typed, ok := msg.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

func testAddr(port uint16) netip.AddrPort {
	return netip.AddrPortFrom(netip.MustParseAddr("192.0.2.1"), port)
}

type TransportSuite struct {
	suite.Suite
	writer    *fakeWriter
	transport *Transport
}

func TestTransportSuite(t *testing.T) {
	suite.Run(t, new(TransportSuite))
}

func (s *TransportSuite) SetupTest() {
	s.writer = newFakeWriter()
	s.transport = NewTransport(s.writer, testutil.NopLogger())
}

func (s *TransportSuite) TestUnicast() {
	addr := testAddr(5000)

	err := s.transport.Unicast(protocol.Error{Message: "Invalid message format"}, addr)
	s.Require().NoError(err)

	msgs := s.writer.receivedBy(s.T(), addr)
	s.Require().Len(msgs, 1)
	s.Equal(protocol.Error{Message: "Invalid message format"}, msgs[0])
}

func (s *TransportSuite) TestUnicastWriteError() {
	addr := testAddr(5000)
	s.writer.failing[addr] = errors.New("network unreachable")

	err := s.transport.Unicast(protocol.GameOver{Winner: "alice"}, addr)
	s.Require().Error(err)
	s.Contains(err.Error(), "GameOver")
	s.Contains(err.Error(), addr.String())
}

func (s *TransportSuite) TestBroadcastReachesAllRecipients() {
	addrs := []netip.AddrPort{testAddr(5000), testAddr(5001), testAddr(5002)}

	s.transport.Broadcast(protocol.GameStart{MazeLevel: 2}, addrs)

	for _, addr := range addrs {
		msgs := s.writer.receivedBy(s.T(), addr)
		s.Require().Len(msgs, 1)
		s.Equal(protocol.GameStart{MazeLevel: 2}, msgs[0])
	}
}

func (s *TransportSuite) TestBroadcastContinuesPastFailedRecipient() {
	addrs := []netip.AddrPort{testAddr(5000), testAddr(5001), testAddr(5002)}
	s.writer.failing[addrs[1]] = errors.New("connection refused")

	s.transport.Broadcast(protocol.PlayersInLobby{
		PlayerCount: 2,
		Players:     []string{"alice", "bob"},
	}, addrs)

	s.Len(s.writer.receivedBy(s.T(), addrs[0]), 1)
	s.Empty(s.writer.receivedBy(s.T(), addrs[1]))
	s.Len(s.writer.receivedBy(s.T(), addrs[2]), 1)
}

func (s *TransportSuite) TestBroadcastNoRecipients() {
	s.transport.Broadcast(protocol.GameOver{Winner: "alice"}, nil)
	s.Empty(s.writer.sent)
}

func (s *TransportSuite) TestBroadcastSerializesOnce() {
	addrs := []netip.AddrPort{testAddr(5000), testAddr(5001)}

	s.transport.Broadcast(protocol.HealthUpdate{PlayerID: "bob", Health: 90}, addrs)

	s.Require().Len(s.writer.sent[addrs[0]], 1)
	s.Require().Len(s.writer.sent[addrs[1]], 1)
	s.Equal(s.writer.sent[addrs[0]][0], s.writer.sent[addrs[1]][0])
}
