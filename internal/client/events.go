package client

import (
	"time"

	"github.com/mazewars/mazewars-go/internal/model"
)

// EventType identifies the type of session event
type EventType string

const (
	// Lobby events
	EventJoinRejected EventType = "join_rejected"
	EventLobbyUpdated EventType = "lobby_updated"
	EventMatchStarted EventType = "match_started"

	// Combat events
	EventPlayerSpawned    EventType = "player_spawned"
	EventHealthChanged    EventType = "health_changed"
	EventPlayerEliminated EventType = "player_eliminated"
	EventSelfDied         EventType = "self_died"
	EventMatchOver        EventType = "match_over"

	// Error events
	EventServerError EventType = "server_error"
)

// Event is one observable change to the session, derived from a
// server broadcast. PlayerMove updates are folded into the mirror
// silently; everything else surfaces here.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// JoinRejectedPayload contains data for join rejected events
type JoinRejectedPayload struct {
	Message string `json:"message"`
}

// LobbyUpdatedPayload contains data for lobby updated events
type LobbyUpdatedPayload struct {
	PlayerCount int      `json:"player_count"`
	Players     []string `json:"players"`
}

// MatchStartedPayload contains data for match started events
type MatchStartedPayload struct {
	Level int `json:"level"`
}

// PlayerSpawnedPayload contains data for player spawned events
type PlayerSpawnedPayload struct {
	Username string         `json:"username"`
	Position model.Position `json:"position"`
	Self     bool           `json:"self"`
}

// HealthChangedPayload contains data for health changed events
type HealthChangedPayload struct {
	Username string `json:"username"`
	Health   int    `json:"health"`
	Self     bool   `json:"self"`
}

// PlayerEliminatedPayload contains data for another player's death
type PlayerEliminatedPayload struct {
	Username string `json:"username"`
	Killer   string `json:"killer,omitempty"`
}

// SelfDiedPayload contains data for the local player's death
type SelfDiedPayload struct {
	Killer string `json:"killer,omitempty"`
}

// MatchOverPayload contains data for match over events
type MatchOverPayload struct {
	Winner string `json:"winner"`
	Won    bool   `json:"won"`
}

// ServerErrorPayload contains data for server error events
type ServerErrorPayload struct {
	Message string `json:"message"`
}
