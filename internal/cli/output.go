package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mazewars/mazewars-go/internal/client"
	"github.com/mazewars/mazewars-go/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case MatchStatus:
		o.printMatchStatus(v)
	case ArchivedMatch:
		o.printArchivedMatch(v)
	case []ArchivedMatch:
		o.printArchivedMatches(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// MatchStatus response type (matches API)
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

// PlayerStatus response type
type PlayerStatus struct {
	Username string         `json:"username"`
	Position model.Position `json:"position"`
	Rotation model.Rotation `json:"rotation"`
	Health   int            `json:"health"`
	Alive    bool           `json:"alive"`
}

// ArchivedMatch response type
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

// Kill response type
type Kill struct {
	Victim string    `json:"victim"`
	Killer string    `json:"killer"`
	At     time.Time `json:"at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// PrintEvent outputs a single session event
func (o *Output) PrintEvent(ev client.Event) {
	if o.format == "json" {
		data, _ := json.Marshal(ev)
		fmt.Println(string(data))
		return
	}

	ts := ev.Timestamp.Format("15:04:05")
	switch p := ev.Payload.(type) {
	case client.JoinRejectedPayload:
		fmt.Printf("[%s] join rejected: %s\n", ts, p.Message)
	case client.LobbyUpdatedPayload:
		fmt.Printf("[%s] lobby: %d player(s) waiting [%s]\n", ts, p.PlayerCount, strings.Join(p.Players, ", "))
	case client.MatchStartedPayload:
		fmt.Printf("[%s] match started on level %d\n", ts, p.Level)
	case client.PlayerSpawnedPayload:
		who := p.Username
		if p.Self {
			who += " (you)"
		}
		fmt.Printf("[%s] %s spawned at (%.1f, %.1f, %.1f)\n", ts, who, p.Position.X, p.Position.Y, p.Position.Z)
	case client.HealthChangedPayload:
		if p.Self {
			fmt.Printf("[%s] your health: %d\n", ts, p.Health)
		} else {
			fmt.Printf("[%s] %s health: %d\n", ts, p.Username, p.Health)
		}
	case client.PlayerEliminatedPayload:
		fmt.Printf("[%s] %s eliminated %s\n", ts, p.Killer, p.Username)
	case client.SelfDiedPayload:
		fmt.Printf("[%s] you were eliminated by %s\n", ts, p.Killer)
	case client.MatchOverPayload:
		if p.Won {
			fmt.Printf("[%s] match over, you win!\n", ts)
		} else {
			fmt.Printf("[%s] match over, winner: %s\n", ts, p.Winner)
		}
	case client.ServerErrorPayload:
		fmt.Printf("[%s] server error: %s\n", ts, p.Message)
	default:
		fmt.Printf("[%s] %s\n", ts, ev.Type)
	}
}

func (o *Output) printMatchStatus(m MatchStatus) {
	fmt.Printf("State: %s\n", m.State)
	fmt.Printf("Level: %d\n", m.Level)
	fmt.Printf("Players: %d (min %d, max %d)\n", m.PlayerCount, m.MinPlayers, m.MaxPlayers)
	if m.CountdownArmed && m.CountdownLeft != nil {
		fmt.Printf("Countdown: %s remaining\n", *m.CountdownLeft)
	}
	if m.Winner != nil {
		fmt.Printf("Winner: %s\n", *m.Winner)
	}
	for _, p := range m.Players {
		status := "alive"
		if !p.Alive {
			status = "dead"
		}
		fmt.Printf("  - %s  hp=%d (%s)  pos=(%.1f, %.1f, %.1f)  yaw=%.0f\n",
			p.Username, p.Health, status,
			p.Position.X, p.Position.Y, p.Position.Z, p.Rotation.Yaw)
	}
}

func (o *Output) printArchivedMatches(matches []ArchivedMatch) {
	if len(matches) == 0 {
		fmt.Println("No archived matches")
		return
	}
	for _, m := range matches {
		fmt.Printf("%s  level=%d  winner=%s  players=[%s]  %s\n",
			m.ID, m.Level, m.Winner, strings.Join(m.Players, ", "), m.Duration)
	}
}

func (o *Output) printArchivedMatch(m ArchivedMatch) {
	fmt.Printf("Match: %s\n", m.ID)
	fmt.Printf("Level: %d\n", m.Level)
	fmt.Printf("Winner: %s\n", m.Winner)
	fmt.Printf("Players: %s\n", strings.Join(m.Players, ", "))
	fmt.Printf("Started: %s\n", m.StartedAt.Format(time.RFC3339))
	fmt.Printf("Duration: %s\n", m.Duration)
	if len(m.Kills) > 0 {
		fmt.Println("Kills:")
		for _, k := range m.Kills {
			fmt.Printf("  [%s] %s eliminated %s\n", k.At.Format("15:04:05"), k.Killer, k.Victim)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
