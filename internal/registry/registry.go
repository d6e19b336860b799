package registry

import (
	"net/netip"

	"github.com/mazewars/mazewars-go/internal/model"
)

// Roster is the set of registered players, keyed by the network
// address each one joined from. The address is the identity; the
// username is a display attribute that is only checked for
// uniqueness at join time.
//
// A Roster is not safe for concurrent use. The owning match
// serializes access under its lock.
type Roster struct {
	capacity int
	players  map[netip.AddrPort]*model.Player
	order    []netip.AddrPort // join order, for spawn assignment
}

// New creates an empty roster holding at most capacity players
func New(capacity int) *Roster {
	return &Roster{
		capacity: capacity,
		players:  make(map[netip.AddrPort]*model.Player),
	}
}

// Add registers a player under addr. It fails closed: the roster is
// unchanged when the username is taken or the roster is full.
func (r *Roster) Add(addr netip.AddrPort, player *model.Player) error {
	for _, p := range r.players {
		if p.Username == player.Username {
			return model.ErrUsernameTaken
		}
	}
	if len(r.players) >= r.capacity {
		return model.ErrServerFull
	}
	if _, ok := r.players[addr]; !ok {
		r.order = append(r.order, addr)
	}
	r.players[addr] = player
	return nil
}

// Get returns the player registered under addr
func (r *Roster) Get(addr netip.AddrPort) (*model.Player, bool) {
	p, ok := r.players[addr]
	return p, ok
}

// FindByUsername returns the address and player with the given
// username
func (r *Roster) FindByUsername(username string) (netip.AddrPort, *model.Player, bool) {
	for addr, p := range r.players {
		if p.Username == username {
			return addr, p, true
		}
	}
	return netip.AddrPort{}, nil, false
}

// UpdateTransform overwrites the position and rotation of the player
// registered under addr. Unknown addresses are ignored.
func (r *Roster) UpdateTransform(addr netip.AddrPort, pos model.Position, rot model.Rotation) bool {
	p, ok := r.players[addr]
	if !ok {
		return false
	}
	p.Position = pos
	p.Rotation = rot
	return true
}

// ApplyDamage subtracts amount from the named player's health,
// saturating at zero. It reports the resulting health and whether
// the player was alive before the hit.
func (r *Roster) ApplyDamage(username string, amount int) (health int, wasAlive bool, err error) {
	_, p, ok := r.FindByUsername(username)
	if !ok {
		return 0, false, model.ErrPlayerNotFound
	}
	wasAlive = p.Alive()
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
	return p.Health, wasAlive, nil
}

// Remove deletes the player registered under addr
func (r *Roster) Remove(addr netip.AddrPort) bool {
	if _, ok := r.players[addr]; !ok {
		return false
	}
	delete(r.players, addr)
	for i, a := range r.order {
		if a == addr {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registered players
func (r *Roster) Len() int {
	return len(r.players)
}

// Addrs returns a snapshot of every registered address
func (r *Roster) Addrs() []netip.AddrPort {
	addrs := make([]netip.AddrPort, 0, len(r.players))
	for addr := range r.players {
		addrs = append(addrs, addr)
	}
	return addrs
}

// Usernames returns every username in join order
func (r *Roster) Usernames() []string {
	names := make([]string, 0, len(r.order))
	for _, addr := range r.order {
		names = append(names, r.players[addr].Username)
	}
	return names
}

// JoinIndex returns the position addr took in the join order
func (r *Roster) JoinIndex(addr netip.AddrPort) (int, bool) {
	for i, a := range r.order {
		if a == addr {
			return i, true
		}
	}
	return 0, false
}

// Alive returns the players with health remaining, in join order
func (r *Roster) Alive() []*model.Player {
	var alive []*model.Player
	for _, addr := range r.order {
		if p := r.players[addr]; p.Alive() {
			alive = append(alive, p)
		}
	}
	return alive
}

// Statuses returns a point-in-time copy of every roster entry in
// join order
func (r *Roster) Statuses() []model.PlayerStatus {
	statuses := make([]model.PlayerStatus, 0, len(r.order))
	for _, addr := range r.order {
		p := r.players[addr]
		statuses = append(statuses, model.PlayerStatus{
			Username: p.Username,
			Position: p.Position,
			Rotation: p.Rotation,
			Health:   p.Health,
			Alive:    p.Alive(),
		})
	}
	return statuses
}
