package domain

import "time"

// Player represents a seated player in a room. Owned exclusively by its Room.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Seat     int       `json:"seat"` // 1-based join order, used as command target
	Role     Role      `json:"role,omitempty"`
	Alive    bool      `json:"alive"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given ID, display name and seat
func NewPlayer(id, name string, seat int) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Seat:     seat,
		Alive:    true,
		JoinedAt: time.Now(),
	}
}

// Rename updates the player's display name
func (p *Player) Rename(name string) {
	p.Name = name
}

// Eliminate flips the alive flag. The flip is monotonic; a dead player is
// never resurrected.
func (p *Player) Eliminate() {
	p.Alive = false
}
