package client

import (
	"time"

	"github.com/mazewars/mazewars-go/internal/model"
	"github.com/mazewars/mazewars-go/internal/protocol"
)

// RemotePlayer is the last-known transform of another player,
// overwritten by every newer report. Eventually consistent: UDP may
// drop or reorder, so the value only converges while reports keep
// arriving.
type RemotePlayer struct {
	Position model.Position
	Rotation model.Rotation
}

// Self is a point-in-time view of the local player and match phase
type Self struct {
	Username string
	Health   int
	Dead     bool
	Killer   string // set with Dead when the server named one

	Started bool
	Level   int // valid once Started

	Finished bool
	Winner   string

	Rejected     bool
	RejectReason string

	Spawn        model.Position
	Spawned      bool
	LobbyPlayers []string
}

// state is the client's local picture of the match, rebuilt purely
// from server broadcasts. It is not safe for concurrent use; the
// owning Session serializes access under its lock.
type state struct {
	username string
	mirror   map[string]RemotePlayer
	self     Self
}

func newState(username string) *state {
	return &state{
		username: username,
		mirror:   make(map[string]RemotePlayer),
		self: Self{
			Username: username,
			Health:   model.MaxHealth,
		},
	}
}

// apply folds one authoritative message into the local picture and
// returns the events it surfaced. Transform relays mutate the mirror
// without an event; the caller polls the mirror instead.
func (s *state) apply(msg protocol.ServerMessage, at time.Time) []Event {
	switch msg := msg.(type) {
	case protocol.Error:
		return s.event(EventServerError, at, ServerErrorPayload{Message: msg.Message})

	case protocol.JoinGameError:
		s.self.Rejected = true
		s.self.RejectReason = msg.Message
		return s.event(EventJoinRejected, at, JoinRejectedPayload{Message: msg.Message})

	case protocol.PlayersInLobby:
		s.self.LobbyPlayers = msg.Players
		return s.event(EventLobbyUpdated, at, LobbyUpdatedPayload{
			PlayerCount: msg.PlayerCount,
			Players:     msg.Players,
		})

	case protocol.GameStart:
		s.self.Started = true
		s.self.Level = msg.MazeLevel
		return s.event(EventMatchStarted, at, MatchStartedPayload{Level: msg.MazeLevel})

	case protocol.PlayerSpawn:
		self := msg.PlayerID == s.username
		if self {
			s.self.Spawn = msg.Position
			s.self.Spawned = true
		} else {
			s.mirror[msg.PlayerID] = RemotePlayer{Position: msg.Position}
		}
		return s.event(EventPlayerSpawned, at, PlayerSpawnedPayload{
			Username: msg.PlayerID,
			Position: msg.Position,
			Self:     self,
		})

	case protocol.PlayerMove:
		// The local player's position is owned locally; echoes of our
		// own reports are dropped rather than fought with.
		if msg.PlayerID != s.username {
			s.mirror[msg.PlayerID] = RemotePlayer{
				Position: msg.Position,
				Rotation: msg.Rotation,
			}
		}
		return nil

	case protocol.HealthUpdate:
		self := msg.PlayerID == s.username
		if self {
			s.self.Health = msg.Health
		}
		return s.event(EventHealthChanged, at, HealthChangedPayload{
			Username: msg.PlayerID,
			Health:   msg.Health,
			Self:     self,
		})

	case protocol.PlayerDeath:
		killer := ""
		if msg.KillerID != nil {
			killer = *msg.KillerID
		}
		if msg.PlayerID == s.username {
			s.self.Dead = true
			s.self.Killer = killer
			return s.event(EventSelfDied, at, SelfDiedPayload{Killer: killer})
		}
		delete(s.mirror, msg.PlayerID)
		return s.event(EventPlayerEliminated, at, PlayerEliminatedPayload{
			Username: msg.PlayerID,
			Killer:   killer,
		})

	case protocol.GameOver:
		s.self.Finished = true
		s.self.Winner = msg.Winner
		return s.event(EventMatchOver, at, MatchOverPayload{
			Winner: msg.Winner,
			Won:    msg.Winner == s.username,
		})
	}

	return nil
}

// canSend reports whether outbound traffic is still allowed: death
// and game over both silence the client.
func (s *state) canSend() bool {
	return !s.self.Dead && !s.self.Finished && !s.self.Rejected
}

// snapshotMirror copies the remote player table
func (s *state) snapshotMirror() map[string]RemotePlayer {
	out := make(map[string]RemotePlayer, len(s.mirror))
	for name, p := range s.mirror {
		out[name] = p
	}
	return out
}

func (s *state) event(kind EventType, at time.Time, payload any) []Event {
	return []Event{{Type: kind, Timestamp: at, Payload: payload}}
}
