package model

import "time"

// MatchID uniquely identifies a completed match in the archive
type MatchID string

// MatchState represents the current phase of a match
type MatchState string

const (
	MatchStateWaiting    MatchState = "waiting"     // Lobby open, below or awaiting countdown
	MatchStateInProgress MatchState = "in_progress" // Countdown elapsed, combat live
	MatchStateFinished   MatchState = "finished"    // One survivor remains
)

// KillRecord is one elimination within a match
type KillRecord struct {
	Victim string    `json:"victim"`
	Killer string    `json:"killer"`
	At     time.Time `json:"at"`
}

// MatchSummary is a lightweight record of a finished match
type MatchSummary struct {
	ID        MatchID      `json:"id"`
	Level     int          `json:"level"`
	Players   []string     `json:"players"` // usernames in join order
	Winner    string       `json:"winner"`
	Kills     []KillRecord `json:"kills"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
}

// PlayerStatus is a point-in-time view of one roster entry
type PlayerStatus struct {
	Username string   `json:"username"`
	Position Position `json:"position"`
	Rotation Rotation `json:"rotation"`
	Health   int      `json:"health"`
	Alive    bool     `json:"alive"`
}

// MatchSnapshot is a point-in-time view of the live match,
// taken under the match lock for lock-free readers
type MatchSnapshot struct {
	State          MatchState     `json:"state"`
	Level          int            `json:"level"`
	MinPlayers     int            `json:"min_players"`
	MaxPlayers     int            `json:"max_players"`
	CountdownArmed bool           `json:"countdown_armed"`
	CountdownLeft  time.Duration  `json:"countdown_left"` // zero unless armed
	Winner         string         `json:"winner"`         // empty until finished
	Players        []PlayerStatus `json:"players"`
}
