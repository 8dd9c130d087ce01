package app

import (
	"log/slog"
	"sync"
	"time"

	"werewolf/internal/domain"
)

// StaleRoomTimeout is how long a lobby may sit idle before it is cleaned up
const StaleRoomTimeout = 2 * time.Hour

// RoomHub is the process-wide registry mapping room identifiers to live
// sessions. At most one session exists per identifier.
type RoomHub struct {
	sessions map[string]*RoomSession
	mu       sync.RWMutex
	logger   *slog.Logger
	notifier Notifier

	nightDuration time.Duration
	dayDuration   time.Duration

	done chan struct{}
}

// NewRoomHub creates a new hub and starts the stale-room cleanup loop
func NewRoomHub(logger *slog.Logger, notifier Notifier, nightDuration, dayDuration time.Duration) *RoomHub {
	hub := &RoomHub{
		sessions:      make(map[string]*RoomSession),
		logger:        logger,
		notifier:      notifier,
		nightDuration: nightDuration,
		dayDuration:   dayDuration,
		done:          make(chan struct{}),
	}

	go hub.cleanupLoop()

	return hub
}

// Create registers a new room for the given identifier. Fails if a room
// already exists there.
func (h *RoomHub) Create(roomID, hostID string) (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.sessions[roomID]; exists {
		return nil, domain.ErrRoomExists
	}

	room := domain.NewRoom(roomID, hostID)
	session := NewRoomSession(room, domain.NewRand(), h.logger, h.notifier, h.nightDuration, h.dayDuration, h.remove)
	h.sessions[roomID] = session

	h.logger.Info("room created", "roomID", roomID, "hostID", hostID)

	return session, nil
}

// Get returns the session for a room identifier
func (h *RoomHub) Get(roomID string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// FindByPlayer scans all rooms for the one seating the given player. Private
// role commands arrive without room context and rely on this lookup.
func (h *RoomHub) FindByPlayer(playerID string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, session := range h.sessions {
		if session.HasPlayer(playerID) {
			return session, nil
		}
	}
	return nil, domain.ErrRoomNotFound
}

// Destroy cancels the room's timers and removes it from the registry
func (h *RoomHub) Destroy(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[roomID]; ok {
		session.Close()
		delete(h.sessions, roomID)
		h.logger.Info("room destroyed", "roomID", roomID)
	}
}

// remove is the session end-of-game callback. The session has already
// cancelled its own timer at this point.
func (h *RoomHub) remove(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[roomID]; ok {
		delete(h.sessions, roomID)
		h.logger.Info("room ended", "roomID", roomID)
	}
}

// OnTimerFired routes an externally scheduled deadline fire to its room. An
// unknown room means the game ended first; the fire is dropped.
func (h *RoomHub) OnTimerFired(roomID string, kind TimerKind) {
	session, err := h.Get(roomID)
	if err != nil {
		return
	}
	session.OnTimerFired(kind)
}

// RoomCount returns the number of live rooms
func (h *RoomHub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// PlayerCount returns the total number of seated players across all rooms
func (h *RoomHub) PlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *RoomHub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*RoomSession)
}

// cleanupLoop periodically removes lobbies that never started
func (h *RoomHub) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleRooms()
		}
	}
}

func (h *RoomHub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	for roomID, session := range h.sessions {
		if session.Phase() == domain.PhaseWaiting && now.Sub(session.LastActive()) > StaleRoomTimeout {
			session.Close()
			delete(h.sessions, roomID)
			h.logger.Info("stale room cleaned up", "roomID", roomID)
		}
	}
}
