package client

import (
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mazewars/mazewars-go/internal/model"
	"github.com/mazewars/mazewars-go/internal/protocol"
	"github.com/mazewars/mazewars-go/internal/testutil"
)

// fakeServer is a recording UDP endpoint sessions dial in tests
type fakeServer struct {
	t    *testing.T
	conn *net.UDPConn
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	addr, err := net.ResolveUDPAddr("udp", "127.0.0.1:0")
	require.NoError(t, err)
	conn, err := net.ListenUDP("udp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &fakeServer{t: t, conn: conn}
}

func (f *fakeServer) addr() string {
	return f.conn.LocalAddr().String()
}

// expectMessage reads one datagram and decodes it, reporting the
// sender so replies can be pushed back
func (f *fakeServer) expectMessage(timeout time.Duration) (protocol.ClientMessage, netip.AddrPort) {
	f.t.Helper()

	buf := make([]byte, 2048)
	require.NoError(f.t, f.conn.SetReadDeadline(time.Now().Add(timeout)))
	n, sender, err := f.conn.ReadFromUDPAddrPort(buf)
	require.NoError(f.t, err, "expected a client datagram")

	msg, err := protocol.DecodeClientMessage(buf[:n])
	require.NoError(f.t, err)
	return msg, sender
}

// expectSilence asserts that no datagram arrives within d
func (f *fakeServer) expectSilence(d time.Duration) {
	f.t.Helper()

	buf := make([]byte, 2048)
	require.NoError(f.t, f.conn.SetReadDeadline(time.Now().Add(d)))
	n, _, err := f.conn.ReadFromUDPAddrPort(buf)
	if err == nil {
		f.t.Fatalf("expected silence, got %q", buf[:n])
	}
	var netErr net.Error
	require.ErrorAs(f.t, err, &netErr)
	require.True(f.t, netErr.Timeout(), "read failed for a reason other than the deadline")
}

// push sends a server message to the client at addr
func (f *fakeServer) push(addr netip.AddrPort, msg protocol.ServerMessage) {
	f.t.Helper()

	raw, err := protocol.EncodeServerMessage(msg)
	require.NoError(f.t, err)
	_, err = f.conn.WriteToUDPAddrPort(raw, addr)
	require.NoError(f.t, err)
}

// pushRaw sends arbitrary bytes to the client at addr
func (f *fakeServer) pushRaw(addr netip.AddrPort, raw []byte) {
	f.t.Helper()

	_, err := f.conn.WriteToUDPAddrPort(raw, addr)
	require.NoError(f.t, err)
}

// dial connects a session to the fake server and consumes the
// JoinGame it sends, returning the session and the client's address
func dialTestSession(t *testing.T, f *fakeServer, username string) (*Session, netip.AddrPort) {
	t.Helper()

	sess, err := Dial(f.addr(), username, testutil.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	msg, sender := f.expectMessage(2 * time.Second)
	require.Equal(t, protocol.JoinGame{Username: username}, msg)
	return sess, sender
}

// nextEvent reads one session event or fails after timeout
func nextEvent(t *testing.T, sess *Session, timeout time.Duration) Event {
	t.Helper()

	select {
	case ev, ok := <-sess.Events():
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(timeout):
		t.Fatal("no session event arrived in time")
		return Event{}
	}
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestDialSendsJoinRequest(t *testing.T) {
	server := newFakeServer(t)

	sess, _ := dialTestSession(t, server, "alice")

	require.Equal(t, "alice", sess.Username())
	require.False(t, sess.Self().Started)
}

func TestBroadcastsDriveSessionState(t *testing.T) {
	server := newFakeServer(t)
	sess, addr := dialTestSession(t, server, "alice")

	server.push(addr, protocol.PlayersInLobby{PlayerCount: 2, Players: []string{"alice", "bob"}})
	ev := nextEvent(t, sess, 2*time.Second)
	require.Equal(t, EventLobbyUpdated, ev.Type)
	require.Equal(t, []string{"alice", "bob"}, sess.Self().LobbyPlayers)

	server.push(addr, protocol.GameStart{MazeLevel: 1})
	ev = nextEvent(t, sess, 2*time.Second)
	require.Equal(t, EventMatchStarted, ev.Type)

	self := sess.Self()
	require.True(t, self.Started)
	require.Equal(t, 1, self.Level)
}

func TestMirrorFollowsTransformRelays(t *testing.T) {
	server := newFakeServer(t)
	sess, addr := dialTestSession(t, server, "alice")

	pos := model.Position{X: 3.5, Y: 0, Z: 7.5}
	rot := model.Rotation{Yaw: 180}
	server.push(addr, protocol.PlayerMove{PlayerID: "bob", Position: pos, Rotation: rot})

	waitFor(t, func() bool {
		_, ok := sess.Mirror()["bob"]
		return ok
	}, "bob never appeared in the mirror")
	require.Equal(t, RemotePlayer{Position: pos, Rotation: rot}, sess.Mirror()["bob"])
}

func TestUndecodableDatagramSilentlyDropped(t *testing.T) {
	server := newFakeServer(t)
	sess, addr := dialTestSession(t, server, "alice")

	server.pushRaw(addr, []byte("{definitely not a message"))
	server.push(addr, protocol.GameStart{MazeLevel: 0})

	// The valid message still lands, so the loop survived the bad one
	ev := nextEvent(t, sess, 2*time.Second)
	require.Equal(t, EventMatchStarted, ev.Type)
}

func TestSendTransformOnlyOnChange(t *testing.T) {
	server := newFakeServer(t)
	sess, _ := dialTestSession(t, server, "alice")

	pos := model.Position{X: 1.5, Y: 0, Z: 1.5}
	rot := model.Rotation{Yaw: 45}

	sent, err := sess.SendTransform(pos, rot, 0.5)
	require.NoError(t, err)
	require.True(t, sent)

	msg, _ := server.expectMessage(2 * time.Second)
	require.Equal(t, protocol.Move{Position: pos, Rotation: rot, YieldControl: 0.5}, msg)

	// Unchanged transform: nothing goes out
	sent, err = sess.SendTransform(pos, rot, 0.5)
	require.NoError(t, err)
	require.False(t, sent)
	server.expectSilence(150 * time.Millisecond)

	// Rotating in place is a change
	sent, err = sess.SendTransform(pos, model.Rotation{Yaw: 90}, 0.5)
	require.NoError(t, err)
	require.True(t, sent)
	msg, _ = server.expectMessage(2 * time.Second)
	require.Equal(t, model.Rotation{Yaw: 90}, msg.(protocol.Move).Rotation)
}

func TestShootSendsDeclaredTarget(t *testing.T) {
	server := newFakeServer(t)
	sess, _ := dialTestSession(t, server, "alice")

	sent, err := sess.Shoot("bob")
	require.NoError(t, err)
	require.True(t, sent)

	msg, _ := server.expectMessage(2 * time.Second)
	require.Equal(t, protocol.ShotPlayer{PlayerUsername: "bob"}, msg)
}

func TestDeathSilencesOutbound(t *testing.T) {
	server := newFakeServer(t)
	sess, addr := dialTestSession(t, server, "alice")

	killer := "bob"
	server.push(addr, protocol.PlayerDeath{PlayerID: "alice", KillerID: &killer})
	ev := nextEvent(t, sess, 2*time.Second)
	require.Equal(t, EventSelfDied, ev.Type)
	require.True(t, sess.Self().Dead)

	sent, err := sess.SendTransform(model.Position{X: 2}, model.Rotation{}, 0)
	require.NoError(t, err)
	require.False(t, sent)

	sent, err = sess.Shoot("bob")
	require.NoError(t, err)
	require.False(t, sent)

	server.expectSilence(150 * time.Millisecond)
}

func TestGameOverSilencesOutbound(t *testing.T) {
	server := newFakeServer(t)
	sess, addr := dialTestSession(t, server, "alice")

	server.push(addr, protocol.GameOver{Winner: "bob"})
	ev := nextEvent(t, sess, 2*time.Second)
	require.Equal(t, EventMatchOver, ev.Type)

	self := sess.Self()
	require.True(t, self.Finished)
	require.Equal(t, "bob", self.Winner)

	sent, err := sess.SendTransform(model.Position{X: 2}, model.Rotation{}, 0)
	require.NoError(t, err)
	require.False(t, sent)
	server.expectSilence(150 * time.Millisecond)
}

func TestJoinRejectionSurfaced(t *testing.T) {
	server := newFakeServer(t)
	sess, addr := dialTestSession(t, server, "alice")

	server.push(addr, protocol.JoinGameError{Message: "Server is full"})
	ev := nextEvent(t, sess, 2*time.Second)
	require.Equal(t, EventJoinRejected, ev.Type)

	self := sess.Self()
	require.True(t, self.Rejected)
	require.Equal(t, "Server is full", self.RejectReason)
}

func TestCloseEndsEventStream(t *testing.T) {
	server := newFakeServer(t)
	sess, _ := dialTestSession(t, server, "alice")

	require.NoError(t, sess.Close())

	select {
	case _, ok := <-sess.Events():
		require.False(t, ok, "events channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after Close")
	}
}
