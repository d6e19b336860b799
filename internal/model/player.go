package model

// MaxHealth is the health every player spawns with
const MaxHealth = 100

// DefaultHeight is the avatar height in centimeters
const DefaultHeight float32 = 180

// Position is a point in world space
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Rotation is an orientation in degrees
type Rotation struct {
	Pitch float32 `json:"pitch"`
	Yaw   float32 `json:"yaw"`
	Roll  float32 `json:"roll"`
}

// Weapon describes a loadout slot. The stats are static data;
// combat resolution currently applies a fixed damage per hit.
type Weapon struct {
	Name     string
	Damage   int
	FireRate float32
	Ammo     int
	Range    float32
}

// Pistol is the default loadout every player joins with
func Pistol() Weapon {
	return Weapon{
		Name:     "pistol",
		Damage:   25,
		FireRate: 1.5,
		Ammo:     12,
		Range:    30.0,
	}
}

// Player is the server-side record for one connected player.
// The network address it is registered under, not the username,
// is its identity.
type Player struct {
	Username string
	Position Position
	Height   float32
	Rotation Rotation
	Health   int
	Weapon   Weapon
}

// NewPlayer returns a freshly joined player at the origin
func NewPlayer(username string) *Player {
	return &Player{
		Username: username,
		Height:   DefaultHeight,
		Health:   MaxHealth,
		Weapon:   Pistol(),
	}
}

// Alive returns true while the player has health remaining
func (p *Player) Alive() bool {
	return p.Health > 0
}
