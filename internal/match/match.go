package match

import (
	"errors"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/mazewars/mazewars-go/internal/dependencies/clock"
	"github.com/mazewars/mazewars-go/internal/dependencies/random"
	"github.com/mazewars/mazewars-go/internal/maze"
	"github.com/mazewars/mazewars-go/internal/model"
	"github.com/mazewars/mazewars-go/internal/protocol"
	"github.com/mazewars/mazewars-go/internal/registry"
)

// ShotDamage is the fixed health cost of one hit. Weapon stats are
// not consulted by combat resolution.
const ShotDamage = 10

const (
	// MatchIDLength is the length of generated match IDs
	MatchIDLength = 12
	// MatchIDAlphabet is the characters used in match IDs (avoid confusing chars)
	MatchIDAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
)

// Config holds the tunable parameters of a match
type Config struct {
	MinPlayers int
	MaxPlayers int
	Countdown  time.Duration
}

// DefaultConfig returns the reference match parameters
func DefaultConfig() Config {
	return Config{
		MinPlayers: 2,
		MaxPlayers: 10,
		Countdown:  5 * time.Second,
	}
}

// Match owns the player roster and the state machine that moves a
// session from the waiting lobby through live combat to game over.
// One lock guards both; every method computes its network sends
// under that lock and returns them in an Outcome for the caller to
// deliver after release. A finished match keeps relaying movement
// and applying damage; only the finishing transition itself is
// one-shot.
type Match struct {
	mu sync.Mutex

	config Config
	clock  clock.Clock
	random random.Random

	roster  *registry.Roster
	state   model.MatchState
	level   maze.Level
	armedAt *time.Time

	startedAt time.Time
	winner    string
	kills     []model.KillRecord
}

// New creates a match in the waiting state. The maze level is picked
// once here and is fixed for the match's lifetime.
func New(config Config, clk clock.Clock, rnd random.Random) *Match {
	return &Match{
		config: config,
		clock:  clk,
		random: rnd,
		roster: registry.New(config.MaxPlayers),
		state:  model.MatchStateWaiting,
		level:  maze.GetLevel(rnd.Intn(maze.LevelCount)),
	}
}

// Join registers a player under the sender's address. On rejection
// the outcome replies with a JoinGameError and the roster is
// unchanged; on success the new roster is broadcast to everyone.
// Meeting the minimum player count arms the countdown.
func (m *Match) Join(addr netip.AddrPort, username string) (JoinOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := JoinOutcome{Username: username}

	if err := m.roster.Add(addr, model.NewPlayer(username)); err != nil {
		out.Reply = protocol.JoinGameError{Message: joinErrorMessage(err)}
		return out, err
	}
	out.Joined = true

	// Arm the countdown the moment the minimum is first met
	if m.state == model.MatchStateWaiting && m.armedAt == nil &&
		m.roster.Len() >= m.config.MinPlayers {
		now := m.clock.Now()
		m.armedAt = &now
		out.Armed = true
	}

	out.broadcast(protocol.PlayersInLobby{
		PlayerCount: m.roster.Len(),
		Players:     m.roster.Usernames(),
	})
	out.Recipients = m.roster.Addrs()
	return out, nil
}

// Move overwrites the sender's transform and echoes it to everyone,
// yield control passed through verbatim. Reports from unregistered
// addresses are ignored.
func (m *Match) Move(addr netip.AddrPort, pos model.Position, rot model.Rotation, yield float32) MoveOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := MoveOutcome{}

	player, ok := m.roster.Get(addr)
	if !ok {
		return out
	}
	m.roster.UpdateTransform(addr, pos, rot)
	out.Username = player.Username
	out.Moved = true

	out.broadcast(protocol.PlayerMove{
		PlayerID:     player.Username,
		Position:     pos,
		Rotation:     rot,
		YieldControl: yield,
	})
	out.Recipients = m.roster.Addrs()
	return out
}

// Shot applies fixed damage to the named target on behalf of the
// sender. Health saturates at zero; the eliminating hit additionally
// reports the death, and the hit that leaves a sole survivor ends
// the match. Unknown shooters and targets are ignored. Shots carry
// no sequence number, so a re-delivered datagram lands as a second
// hit.
func (m *Match) Shot(addr netip.AddrPort, targetUsername string) (ShotOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := ShotOutcome{Target: targetUsername}

	shooter, ok := m.roster.Get(addr)
	if !ok {
		return out, fmt.Errorf("shooter at %s: %w", addr, model.ErrPlayerNotFound)
	}
	out.Shooter = shooter.Username

	health, wasAlive, err := m.roster.ApplyDamage(targetUsername, ShotDamage)
	if err != nil {
		return out, fmt.Errorf("target %q: %w", targetUsername, err)
	}
	out.Health = health
	out.broadcast(protocol.HealthUpdate{PlayerID: targetUsername, Health: health})

	if wasAlive && health == 0 {
		out.Killed = true
		killer := shooter.Username
		m.kills = append(m.kills, model.KillRecord{
			Victim: targetUsername,
			Killer: killer,
			At:     m.clock.Now(),
		})
		out.broadcast(protocol.PlayerDeath{PlayerID: targetUsername, KillerID: &killer})
	}

	if summary := m.finishIfDecided(); summary != nil {
		out.Finished = true
		out.Summary = summary
		out.broadcast(protocol.GameOver{Winner: m.winner})
	}

	out.Recipients = m.roster.Addrs()
	return out, nil
}

// Tick advances the countdown. It re-evaluates the arm condition,
// disarms when the roster has dropped below the minimum, and starts
// the match once the countdown has elapsed.
func (m *Match) Tick() TickOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := TickOutcome{}

	if m.state != model.MatchStateWaiting {
		return out
	}

	if m.roster.Len() < m.config.MinPlayers {
		if m.armedAt != nil {
			m.armedAt = nil
			out.Disarmed = true
		}
		return out
	}

	if m.armedAt == nil {
		now := m.clock.Now()
		m.armedAt = &now
		out.Armed = true
		return out
	}

	if m.clock.Since(*m.armedAt) < m.config.Countdown {
		return out
	}

	m.start(&out.Outcome)
	out.Started = true
	return out
}

// Kick removes the named player from the roster. Dropping below the
// minimum disarms a pending countdown; removing all combat from a
// live match ends it. Kicking is refused once the match is finished.
func (m *Match) Kick(username string) (KickOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := KickOutcome{Username: username}

	if m.state == model.MatchStateFinished {
		return out, model.ErrMatchFinished
	}

	addr, _, ok := m.roster.FindByUsername(username)
	if !ok {
		return out, model.ErrPlayerNotFound
	}
	m.roster.Remove(addr)

	if m.state == model.MatchStateWaiting && m.armedAt != nil &&
		m.roster.Len() < m.config.MinPlayers {
		m.armedAt = nil
		out.Disarmed = true
	}

	if summary := m.finishIfDecided(); summary != nil {
		out.Finished = true
		out.Summary = summary
		out.broadcast(protocol.GameOver{Winner: m.winner})
	}

	out.broadcast(protocol.PlayersInLobby{
		PlayerCount: m.roster.Len(),
		Players:     m.roster.Usernames(),
	})
	out.Recipients = m.roster.Addrs()
	return out, nil
}

// Snapshot returns a point-in-time copy of the match for lock-free
// readers
func (m *Match) Snapshot() model.MatchSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := model.MatchSnapshot{
		State:      m.state,
		Level:      m.level.Index,
		MinPlayers: m.config.MinPlayers,
		MaxPlayers: m.config.MaxPlayers,
		Winner:     m.winner,
		Players:    m.roster.Statuses(),
	}
	if m.armedAt != nil {
		snap.CountdownArmed = true
		if left := m.config.Countdown - m.clock.Since(*m.armedAt); left > 0 {
			snap.CountdownLeft = left
		}
	}
	return snap
}

// start transitions Waiting to InProgress, placing every player on a
// spawn point by join order. Callers hold the lock.
func (m *Match) start(out *Outcome) {
	m.state = model.MatchStateInProgress
	m.startedAt = m.clock.Now()
	m.armedAt = nil

	out.broadcast(protocol.GameStart{MazeLevel: m.level.Index})
	for i, username := range m.roster.Usernames() {
		spawn := m.level.SpawnPoint(i)
		if addr, _, ok := m.roster.FindByUsername(username); ok {
			m.roster.UpdateTransform(addr, spawn, model.Rotation{})
		}
		out.broadcast(protocol.PlayerSpawn{PlayerID: username, Position: spawn})
	}
	out.Recipients = m.roster.Addrs()
}

// finishIfDecided transitions InProgress to Finished when exactly
// one player is left alive, and builds the archival summary. Callers
// hold the lock. Finished is terminal: a decided match never fires
// again.
func (m *Match) finishIfDecided() *model.MatchSummary {
	if m.state != model.MatchStateInProgress {
		return nil
	}
	alive := m.roster.Alive()
	if len(alive) != 1 {
		return nil
	}

	m.state = model.MatchStateFinished
	m.winner = alive[0].Username

	kills := make([]model.KillRecord, len(m.kills))
	copy(kills, m.kills)
	return &model.MatchSummary{
		ID:        model.MatchID(m.random.String(MatchIDLength, MatchIDAlphabet)),
		Level:     m.level.Index,
		Players:   m.roster.Usernames(),
		Winner:    m.winner,
		Kills:     kills,
		StartedAt: m.startedAt,
		EndedAt:   m.clock.Now(),
	}
}

// joinErrorMessage maps a roster rejection to its wire message
func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrUsernameTaken):
		return "Username already taken"
	case errors.Is(err, model.ErrServerFull):
		return "Server is full"
	default:
		return "Unable to join"
	}
}
