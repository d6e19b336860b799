package match

import (
	"net/netip"

	"github.com/mazewars/mazewars-go/internal/model"
	"github.com/mazewars/mazewars-go/internal/protocol"
)

// Outcome carries the network sends an operation computed under the
// match lock. The caller performs them after the lock is released:
// the reply goes to the sender alone, each broadcast to every
// recipient, in order.
type Outcome struct {
	Reply      protocol.ServerMessage
	Broadcasts []protocol.ServerMessage
	Recipients []netip.AddrPort
}

func (o *Outcome) broadcast(msg protocol.ServerMessage) {
	o.Broadcasts = append(o.Broadcasts, msg)
}

// JoinOutcome is the result of a JoinGame request
type JoinOutcome struct {
	Outcome
	Username string
	Joined   bool
	Armed    bool // this join armed the countdown
}

// MoveOutcome is the result of a Move report
type MoveOutcome struct {
	Outcome
	Username string
	Moved    bool // false when the sender is not registered
}

// ShotOutcome is the result of a ShotPlayer declaration
type ShotOutcome struct {
	Outcome
	Shooter  string
	Target   string
	Health   int  // target health after the hit
	Killed   bool // this hit eliminated the target
	Finished bool // this hit ended the match

	// Summary is non-nil exactly when Finished is true
	Summary *model.MatchSummary
}

// TickOutcome is the result of one countdown tick
type TickOutcome struct {
	Outcome
	Armed    bool // the tick armed the countdown
	Disarmed bool // the tick disarmed the countdown
	Started  bool // the tick started the match
}

// KickOutcome is the result of an administrative removal
type KickOutcome struct {
	Outcome
	Username string
	Disarmed bool // removal dropped the roster below the minimum
	Finished bool // removal left a sole survivor mid-match

	// Summary is non-nil exactly when Finished is true
	Summary *model.MatchSummary
}
