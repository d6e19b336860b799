package status

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mazewars/mazewars-go/internal/model"
)

// MatchStatus is the live match in API responses
type MatchStatus struct {
	State          string         `json:"state"`
	Level          int            `json:"level"`
	PlayerCount    int            `json:"player_count"`
	MinPlayers     int            `json:"min_players"`
	MaxPlayers     int            `json:"max_players"`
	CountdownArmed bool           `json:"countdown_armed"`
	CountdownLeft  *string        `json:"countdown_left,omitempty"`
	Winner         *string        `json:"winner,omitempty"`
	Players        []PlayerStatus `json:"players"`
}

// PlayerStatus is one roster entry in the live match view
type PlayerStatus struct {
	Username string         `json:"username"`
	Position model.Position `json:"position"`
	Rotation model.Rotation `json:"rotation"`
	Health   int            `json:"health"`
	Alive    bool           `json:"alive"`
}

// MatchStatusFromSnapshot converts a model.MatchSnapshot
func MatchStatusFromSnapshot(snap model.MatchSnapshot) MatchStatus {
	players := make([]PlayerStatus, len(snap.Players))
	for i, p := range snap.Players {
		players[i] = PlayerStatus{
			Username: p.Username,
			Position: p.Position,
			Rotation: p.Rotation,
			Health:   p.Health,
			Alive:    p.Alive,
		}
	}

	var countdownLeft *string
	if snap.CountdownArmed {
		left := snap.CountdownLeft.String()
		countdownLeft = &left
	}

	var winner *string
	if snap.Winner != "" {
		w := snap.Winner
		winner = &w
	}

	return MatchStatus{
		State:          string(snap.State),
		Level:          snap.Level,
		PlayerCount:    len(snap.Players),
		MinPlayers:     snap.MinPlayers,
		MaxPlayers:     snap.MaxPlayers,
		CountdownArmed: snap.CountdownArmed,
		CountdownLeft:  countdownLeft,
		Winner:         winner,
		Players:        players,
	}
}

// Kill is one elimination in an archived match
type Kill struct {
	Victim string    `json:"victim"`
	Killer string    `json:"killer"`
	At     time.Time `json:"at"`
}

// ArchivedMatch is a finished match in API responses
type ArchivedMatch struct {
	ID        string    `json:"id"`
	Level     int       `json:"level"`
	Players   []string  `json:"players"`
	Winner    string    `json:"winner"`
	Kills     []Kill    `json:"kills"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Duration  string    `json:"duration"`
}

// ArchivedMatchFromModel converts a model.MatchSummary
func ArchivedMatchFromModel(m model.MatchSummary) ArchivedMatch {
	kills := make([]Kill, len(m.Kills))
	for i, k := range m.Kills {
		kills[i] = Kill{Victim: k.Victim, Killer: k.Killer, At: k.At}
	}

	return ArchivedMatch{
		ID:        string(m.ID),
		Level:     m.Level,
		Players:   m.Players,
		Winner:    m.Winner,
		Kills:     kills,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		Duration:  m.EndedAt.Sub(m.StartedAt).String(),
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeNoContent writes a 204 No Content response
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
