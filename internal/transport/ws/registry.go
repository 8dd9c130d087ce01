package ws

import (
	"sync"

	"werewolf/internal/domain"
)

// Registry tracks connected clients by player and by room and delivers
// notification intents to them. It implements app.Notifier; delivery happens
// outside any room's critical section.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*Client            // playerID -> client
	rooms   map[string]map[string]*Client // roomID -> playerID -> client
}

// NewRegistry creates an empty client registry
func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Register tracks a connected client
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[c.playerID] = c
	room, ok := r.rooms[c.roomID]
	if !ok {
		room = make(map[string]*Client)
		r.rooms[c.roomID] = room
	}
	room[c.playerID] = c
}

// Unregister drops a client, keeping the registries consistent
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.players[c.playerID]; ok && current == c {
		delete(r.players, c.playerID)
	}
	if room, ok := r.rooms[c.roomID]; ok {
		if current, ok := room[c.playerID]; ok && current == c {
			delete(room, c.playerID)
		}
		if len(room) == 0 {
			delete(r.rooms, c.roomID)
		}
	}
}

// Deliver routes a notification intent: a room target fans out to every
// client seated there, a player target goes to that player alone. Intents
// for targets with no connected client are dropped.
func (r *Registry) Deliver(n domain.Notification) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if room, ok := r.rooms[n.Target]; ok {
		for _, client := range room {
			client.Send(n)
		}
		return
	}
	if client, ok := r.players[n.Target]; ok {
		client.Send(n)
	}
}

// DeliverAll delivers a batch of intents in order
func (r *Registry) DeliverAll(notes []domain.Notification) {
	for _, n := range notes {
		r.Deliver(n)
	}
}
