package server

import (
	"context"
	"log/slog"
	"net/netip"
	"time"

	"github.com/mazewars/mazewars-go/internal/archive"
	"github.com/mazewars/mazewars-go/internal/match"
	"github.com/mazewars/mazewars-go/internal/model"
	"github.com/mazewars/mazewars-go/internal/protocol"
)

// archiveTimeout bounds the archive write that follows a finished match
const archiveTimeout = 5 * time.Second

// Dispatcher routes inbound datagrams to match operations and sends
// whatever the operation produced. Replies go back to the sender,
// broadcasts go to the roster the match captured under its lock.
type Dispatcher struct {
	match     *match.Match
	transport *Transport
	archive   archive.Store
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher for the given match
func NewDispatcher(m *match.Match, transport *Transport, store archive.Store, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		match:     m,
		transport: transport,
		archive:   store,
		logger:    logger.With(slog.String("component", "dispatcher")),
	}
}

// HandleDatagram processes one datagram from sender. Decode failures
// are answered with an Error message; everything else is routed to the
// operation matching the message kind.
func (d *Dispatcher) HandleDatagram(ctx context.Context, raw []byte, sender netip.AddrPort) {
	msg, err := protocol.DecodeClientMessage(raw)
	if err != nil {
		d.logger.Debug("undecodable datagram",
			slog.String("addr", sender.String()),
			slog.String("error", err.Error()),
		)
		d.unicast(protocol.Error{Message: "Invalid message format"}, sender)
		return
	}

	switch msg := msg.(type) {
	case protocol.JoinGame:
		d.handleJoin(sender, msg)
	case protocol.Move:
		d.handleMove(sender, msg)
	case protocol.ShotPlayer:
		d.handleShot(ctx, sender, msg)
	}
}

// HandleTick advances the countdown and sends anything the tick produced
func (d *Dispatcher) HandleTick(ctx context.Context) {
	out := d.match.Tick()

	if out.Armed {
		d.logger.Info("minimum player count reached, countdown started")
	}
	if out.Disarmed {
		d.logger.Info("player count below minimum, countdown cancelled")
	}
	if out.Started {
		d.logger.Info("match started",
			slog.Int("level", d.match.Snapshot().Level),
		)
	}

	d.deliver(out.Outcome, netip.AddrPort{})
}

// Kick removes a player by username on behalf of the operator API and
// sends the resulting roster update. Removing the second-to-last
// player of a running match decides it, so the kick can finish the
// game.
func (d *Dispatcher) Kick(ctx context.Context, username string) error {
	out, err := d.match.Kick(username)
	if err != nil {
		return err
	}

	d.logger.Info("player kicked", slog.String("username", username))
	if out.Disarmed {
		d.logger.Info("player count below minimum, countdown cancelled")
	}

	d.deliver(out.Outcome, netip.AddrPort{})
	d.finish(ctx, out.Summary)
	return nil
}

func (d *Dispatcher) handleJoin(sender netip.AddrPort, msg protocol.JoinGame) {
	out, err := d.match.Join(sender, msg.Username)
	if err != nil {
		d.logger.Info("join rejected",
			slog.String("username", msg.Username),
			slog.String("addr", sender.String()),
			slog.String("error", err.Error()),
		)
		d.deliver(out.Outcome, sender)
		return
	}

	d.logger.Info("new player connection",
		slog.String("username", msg.Username),
		slog.String("addr", sender.String()),
	)
	if out.Armed {
		d.logger.Info("minimum player count reached, countdown started")
	}

	d.deliver(out.Outcome, sender)
}

func (d *Dispatcher) handleMove(sender netip.AddrPort, msg protocol.Move) {
	out := d.match.Move(sender, msg.Position, msg.Rotation, msg.YieldControl)
	if !out.Moved {
		d.logger.Debug("move from unknown address",
			slog.String("addr", sender.String()),
		)
		return
	}

	d.logger.Debug("player moved",
		slog.String("username", out.Username),
		slog.Any("position", msg.Position),
	)

	d.deliver(out.Outcome, sender)
}

func (d *Dispatcher) handleShot(ctx context.Context, sender netip.AddrPort, msg protocol.ShotPlayer) {
	out, err := d.match.Shot(sender, msg.PlayerUsername)
	if err != nil {
		d.logger.Warn("shot ignored",
			slog.String("target", msg.PlayerUsername),
			slog.String("addr", sender.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	d.logger.Debug("shot landed",
		slog.String("shooter", out.Shooter),
		slog.String("target", out.Target),
		slog.Int("health", out.Health),
	)
	if out.Killed {
		d.logger.Info("player eliminated",
			slog.String("victim", out.Target),
			slog.String("killer", out.Shooter),
		)
	}

	d.deliver(out.Outcome, sender)
	d.finish(ctx, out.Summary)
}

// deliver sends an outcome's reply to the sender and its broadcasts to
// the captured recipients. Sends happen after the match lock has been
// released.
func (d *Dispatcher) deliver(out match.Outcome, sender netip.AddrPort) {
	if out.Reply != nil {
		d.unicast(out.Reply, sender)
	}
	for _, msg := range out.Broadcasts {
		d.transport.Broadcast(msg, out.Recipients)
	}
}

// finish archives a decided match. A nil summary means the match is
// still running and there is nothing to do.
func (d *Dispatcher) finish(ctx context.Context, summary *model.MatchSummary) {
	if summary == nil {
		return
	}

	d.logger.Info("match finished",
		slog.String("match_id", string(summary.ID)),
		slog.String("winner", summary.Winner),
	)

	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	if err := d.archive.SaveMatch(ctx, *summary); err != nil {
		d.logger.Error("archiving match failed",
			slog.String("match_id", string(summary.ID)),
			slog.String("error", err.Error()),
		)
	}
}

func (d *Dispatcher) unicast(msg protocol.ServerMessage, addr netip.AddrPort) {
	if err := d.transport.Unicast(msg, addr); err != nil {
		d.logger.Warn("reply send failed",
			slog.String("kind", string(msg.Kind())),
			slog.String("addr", addr.String()),
			slog.String("error", err.Error()),
		)
	}
}
