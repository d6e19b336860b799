package protocol

import "github.com/mazewars/mazewars-go/internal/model"

// Kind is the wire discriminator carried in a message envelope
type Kind string

const (
	// Client-to-server kinds
	KindJoinGame   Kind = "JoinGame"
	KindMove       Kind = "Move"
	KindShotPlayer Kind = "ShotPlayer"

	// Server-to-client kinds
	KindError          Kind = "Error"
	KindJoinGameError  Kind = "JoinGameError"
	KindPlayersInLobby Kind = "PlayersInLobby"
	KindGameStart      Kind = "GameStart"
	KindPlayerSpawn    Kind = "PlayerSpawn"
	KindPlayerMove     Kind = "PlayerMove"
	KindHealthUpdate   Kind = "HealthUpdate"
	KindPlayerDeath    Kind = "PlayerDeath"
	KindGameOver       Kind = "GameOver"
)

// ClientMessage is a message a client sends to the server
type ClientMessage interface {
	Kind() Kind
	isClientMessage()
}

// ServerMessage is a message the server sends to clients
type ServerMessage interface {
	Kind() Kind
	isServerMessage()
}

// JoinGame requests registration under a username
type JoinGame struct {
	Username string `json:"username"`
}

// Move reports the sender's transform for relay to all players
type Move struct {
	Position     model.Position `json:"position"`
	Rotation     model.Rotation `json:"rotation"`
	YieldControl float32        `json:"yield_control"`
}

// ShotPlayer declares a hit on the named player
type ShotPlayer struct {
	PlayerUsername string `json:"player_username"`
}

// Error reports a protocol-level failure to one sender
type Error struct {
	Message string `json:"message"`
}

// JoinGameError rejects a JoinGame request
type JoinGameError struct {
	Message string `json:"message"`
}

// PlayersInLobby announces the current roster
type PlayersInLobby struct {
	PlayerCount int      `json:"player_count"`
	Players     []string `json:"players"`
}

// GameStart announces the match beginning on the given level
type GameStart struct {
	MazeLevel int `json:"maze_level"`
}

// PlayerSpawn places a player at a spawn position
type PlayerSpawn struct {
	PlayerID string         `json:"player_id"`
	Position model.Position `json:"position"`
}

// PlayerMove relays one player's transform to all players
type PlayerMove struct {
	PlayerID     string         `json:"player_id"`
	Position     model.Position `json:"position"`
	Rotation     model.Rotation `json:"rotation"`
	YieldControl float32        `json:"yield_control"`
}

// HealthUpdate reports a player's health after damage
type HealthUpdate struct {
	PlayerID string `json:"player_id"`
	Health   int    `json:"health"`
}

// PlayerDeath reports an elimination. KillerID is nil when the
// killer is unknown.
type PlayerDeath struct {
	PlayerID string  `json:"player_id"`
	KillerID *string `json:"killer_id"`
}

// GameOver names the sole survivor
type GameOver struct {
	Winner string `json:"winner"`
}

func (JoinGame) Kind() Kind   { return KindJoinGame }
func (Move) Kind() Kind       { return KindMove }
func (ShotPlayer) Kind() Kind { return KindShotPlayer }

func (JoinGame) isClientMessage()   {}
func (Move) isClientMessage()       {}
func (ShotPlayer) isClientMessage() {}

func (Error) Kind() Kind          { return KindError }
func (JoinGameError) Kind() Kind  { return KindJoinGameError }
func (PlayersInLobby) Kind() Kind { return KindPlayersInLobby }
func (GameStart) Kind() Kind      { return KindGameStart }
func (PlayerSpawn) Kind() Kind    { return KindPlayerSpawn }
func (PlayerMove) Kind() Kind     { return KindPlayerMove }
func (HealthUpdate) Kind() Kind   { return KindHealthUpdate }
func (PlayerDeath) Kind() Kind    { return KindPlayerDeath }
func (GameOver) Kind() Kind       { return KindGameOver }

func (Error) isServerMessage()          {}
func (JoinGameError) isServerMessage()  {}
func (PlayersInLobby) isServerMessage() {}
func (GameStart) isServerMessage()      {}
func (PlayerSpawn) isServerMessage()    {}
func (PlayerMove) isServerMessage()     {}
func (HealthUpdate) isServerMessage()   {}
func (PlayerDeath) isServerMessage()    {}
func (GameOver) isServerMessage()       {}
