package app

import (
	"log/slog"
	"sync"
	"time"

	"werewolf/internal/domain"
)

// Notifier delivers notification intents that are produced outside a
// command's synchronous reply path, such as timer-driven resolutions.
// Delivery always happens after the room's critical section is released.
type Notifier interface {
	Deliver(n domain.Notification)
}

// TimerKind identifies which phase deadline a timer guards
type TimerKind string

const (
	TimerNight TimerKind = "NIGHT"
	TimerDay   TimerKind = "DAY"
)

// RoomSession wraps a room with per-room serialization, the phase timer and
// notification plumbing. Every read and mutation of room state goes through
// the session mutex; command handling and timer callbacks are just two
// callers competing for it.
type RoomSession struct {
	room     *domain.Room
	mu       sync.Mutex
	rng      domain.Rand
	logger   *slog.Logger
	notifier Notifier
	onEnded  func(roomID string)

	nightDuration time.Duration
	dayDuration   time.Duration

	// At most one deadline timer is armed at a time. The generation counter
	// invalidates callbacks from timers that were replaced or cancelled.
	timer     *time.Timer
	timerGen  int
	timerKind TimerKind
	deadline  time.Time

	lastActive time.Time
}

// NewRoomSession creates a session around a fresh room
func NewRoomSession(room *domain.Room, rng domain.Rand, logger *slog.Logger, notifier Notifier, nightDuration, dayDuration time.Duration, onEnded func(roomID string)) *RoomSession {
	if onEnded == nil {
		onEnded = func(string) {}
	}
	return &RoomSession{
		room:          room,
		rng:           rng,
		logger:        logger,
		notifier:      notifier,
		onEnded:       onEnded,
		nightDuration: nightDuration,
		dayDuration:   dayDuration,
		lastActive:    time.Now(),
	}
}

// RoomID returns the room identifier
func (s *RoomSession) RoomID() string {
	return s.room.ID
}

// Phase returns the current room phase
func (s *RoomSession) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Phase
}

// PlayerCount returns the roster size
func (s *RoomSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// Deadline returns the current phase deadline, zero if none is armed
func (s *RoomSession) Deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline
}

// HasPlayer checks if a player is seated in this room
func (s *RoomSession) HasPlayer(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.room.Players[playerID]
	return ok
}

// LastActive returns when the room last handled a command
func (s *RoomSession) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *RoomSession) touch() {
	s.lastActive = time.Now()
}

// Join seats a player in the room
func (s *RoomSession) Join(playerID, name string) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	player, err := s.room.AddPlayer(playerID, name)
	if err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyRoom(s.room.ID, joinedText(player, len(s.room.Players))),
	}, nil
}

// Leave unseats a player before the game starts
func (s *RoomSession) Leave(playerID string) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	name := player.Name
	if err := s.room.RemovePlayer(playerID); err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyRoom(s.room.ID, leftText(name, len(s.room.Players))),
	}, nil
}

// RenamePlayer updates a seated player's display name
func (s *RoomSession) RenamePlayer(playerID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player, err := s.room.GetPlayer(playerID); err == nil && name != "" {
		player.Rename(name)
	}
}

// Start builds the base role template and opens configuration
func (s *RoomSession) Start(callerID string) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.room.Start(callerID); err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyRoom(s.room.ID, templateText(s.room.CurrentRoles)),
	}, nil
}

// SwapWitch replaces the doctor in the template with a witch
func (s *RoomSession) SwapWitch(callerID string) ([]domain.Notification, error) {
	return s.swap(callerID, (*domain.Room).SwapWitch)
}

// SwapHunter replaces a villager in the template with a hunter
func (s *RoomSession) SwapHunter(callerID string) ([]domain.Notification, error) {
	return s.swap(callerID, (*domain.Room).SwapHunter)
}

func (s *RoomSession) swap(callerID string, swap func(*domain.Room, string) error) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := swap(s.room, callerID); err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyRoom(s.room.ID, templateText(s.room.CurrentRoles)),
	}, nil
}

// Confirm deals roles and opens the first night
func (s *RoomSession) Confirm(callerID string) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.room.Confirm(callerID, s.rng); err != nil {
		return nil, err
	}

	notes := make([]domain.Notification, 0, len(s.room.Seats)+2)
	for _, id := range s.room.Seats {
		player := s.room.Players[id]
		notes = append(notes, domain.NotifyPlayer(id, roleDealtText(player)))
	}
	notes = append(notes, s.nightOpenLocked()...)
	return notes, nil
}

// Vote records or overwrites a day vote. Votes are public, so the room is
// told who voted for whom.
func (s *RoomSession) Vote(voterID string, seat int) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	voter, err := s.room.GetPlayer(voterID)
	if err != nil {
		return nil, err
	}
	target, err := s.room.CastVote(voterID, seat)
	if err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyRoom(s.room.ID, voteAckText(voter, target)),
	}, nil
}

// Nominate records a werewolf kill nomination
func (s *RoomSession) Nominate(playerID string, seat int) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	target, err := s.room.Nominate(playerID, seat)
	if err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyPlayer(playerID, nominateAckText(target)),
	}, nil
}

// SeerInspect answers a seer's query privately and immediately
func (s *RoomSession) SeerInspect(playerID string, seat int) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	target, isWolf, err := s.room.SeerInspect(playerID, seat)
	if err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyPlayer(playerID, seerResultText(target, isWolf)),
	}, nil
}

// DoctorProtect records the doctor's protection target
func (s *RoomSession) DoctorProtect(playerID string, seat int) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	target, err := s.room.DoctorProtect(playerID, seat)
	if err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyPlayer(playerID, protectAckText(target)),
	}, nil
}

// WitchHeal marks the healing potion for use tonight
func (s *RoomSession) WitchHeal(playerID string) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.room.WitchHeal(playerID); err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyPlayer(playerID, healAckText()),
	}, nil
}

// WitchPoison records the witch's poison target
func (s *RoomSession) WitchPoison(playerID string, seat int) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	target, err := s.room.WitchPoison(playerID, seat)
	if err != nil {
		return nil, err
	}
	return []domain.Notification{
		domain.NotifyPlayer(playerID, poisonAckText(target)),
	}, nil
}

// HunterShoot fires a pending retaliation shot. The kill is public and may
// end the game.
func (s *RoomSession) HunterShoot(playerID string, seat int) ([]domain.Notification, error) {
	s.mu.Lock()
	s.touch()

	shooter, err := s.room.GetPlayer(playerID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	target, winner, err := s.room.HunterShoot(playerID, seat)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	notes := []domain.Notification{
		domain.NotifyRoom(s.room.ID, hunterShotText(shooter, target)),
	}
	ended := winner != domain.WinnerNone
	if ended {
		notes = append(notes, domain.NotifyRoom(s.room.ID, winText(winner)))
		s.cancelTimerLocked()
	}
	s.mu.Unlock()

	if ended {
		s.onEnded(s.room.ID)
	}
	return notes, nil
}

// ForceNight resolves the night immediately on the host's command
func (s *RoomSession) ForceNight(callerID string) ([]domain.Notification, error) {
	return s.forceResolve(callerID, TimerNight)
}

// ForceDay resolves the day vote immediately on the host's command
func (s *RoomSession) ForceDay(callerID string) ([]domain.Notification, error) {
	return s.forceResolve(callerID, TimerDay)
}

func (s *RoomSession) forceResolve(callerID string, kind TimerKind) ([]domain.Notification, error) {
	s.mu.Lock()
	s.touch()

	if !s.room.IsHost(callerID) {
		s.mu.Unlock()
		return nil, domain.ErrUnauthorized
	}

	var notes []domain.Notification
	var err error
	switch kind {
	case TimerNight:
		notes, err = s.resolveNightLocked()
	case TimerDay:
		notes, err = s.resolveDayLocked()
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	ended := s.room.Phase == domain.PhaseEnded
	s.mu.Unlock()

	if ended {
		s.onEnded(s.room.ID)
	}
	return notes, nil
}

// Extend re-arms the current phase deadline with a new duration
func (s *RoomSession) Extend(callerID string, d time.Duration) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.room.IsHost(callerID) {
		return nil, domain.ErrUnauthorized
	}

	switch s.room.Phase {
	case domain.PhaseNight:
		s.armTimerLocked(TimerNight, d)
	case domain.PhaseDay:
		s.armTimerLocked(TimerDay, d)
	default:
		return nil, domain.ErrIllegalPhase
	}
	return []domain.Notification{
		domain.NotifyRoom(s.room.ID, extendText(s.deadline)),
	}, nil
}

// Status reports the room state to the caller
func (s *RoomSession) Status() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return []domain.Notification{
		domain.NotifyRoom(s.room.ID, statusText(s.room, s.deadline)),
	}
}

// OnTimerFired is the entry point for an externally scheduled deadline. A
// fire that finds the room past the expected phase is a silent no-op.
func (s *RoomSession) OnTimerFired(kind TimerKind) {
	s.fire(kind, -1)
}

// fire resolves the phase guarded by kind. gen >= 0 means the call comes
// from an internal timer callback and must still match the current timer
// generation; a manual resolution that raced ahead wins.
func (s *RoomSession) fire(kind TimerKind, gen int) {
	s.mu.Lock()

	if gen >= 0 && gen != s.timerGen {
		s.mu.Unlock()
		return
	}

	var notes []domain.Notification
	var err error
	switch kind {
	case TimerNight:
		if s.room.Phase != domain.PhaseNight {
			s.mu.Unlock()
			return
		}
		notes, err = s.resolveNightLocked()
	case TimerDay:
		if s.room.Phase != domain.PhaseDay {
			s.mu.Unlock()
			return
		}
		notes, err = s.resolveDayLocked()
	default:
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.logger.Error("deadline resolution failed", "roomID", s.room.ID, "kind", kind, "error", err)
		s.mu.Unlock()
		return
	}

	ended := s.room.Phase == domain.PhaseEnded
	s.mu.Unlock()

	if s.notifier != nil {
		for _, n := range notes {
			s.notifier.Deliver(n)
		}
	}
	if ended {
		s.onEnded(s.room.ID)
	}
}

// resolveNightLocked resolves the night and opens the day (or ends the
// game). Caller must hold the session mutex.
func (s *RoomSession) resolveNightLocked() ([]domain.Notification, error) {
	outcome, err := s.room.ResolveNight(s.rng)
	if err != nil {
		return nil, err
	}

	notes := []domain.Notification{
		domain.NotifyRoom(s.room.ID, dawnText(s.room.Day, outcome)),
	}
	if outcome.HunterArmed != nil {
		notes = append(notes, domain.NotifyPlayer(outcome.HunterArmed.ID, hunterPromptText()))
	}

	if outcome.Winner != domain.WinnerNone {
		notes = append(notes, domain.NotifyRoom(s.room.ID, winText(outcome.Winner)))
		s.cancelTimerLocked()
		return notes, nil
	}

	s.armTimerLocked(TimerDay, s.dayDuration)
	notes = append(notes, domain.NotifyRoom(s.room.ID, dayOpenText(s.deadline)))
	return notes, nil
}

// resolveDayLocked resolves the day vote and opens the next night (or ends
// the game). Caller must hold the session mutex.
func (s *RoomSession) resolveDayLocked() ([]domain.Notification, error) {
	outcome, err := s.room.ResolveDay(s.rng)
	if err != nil {
		return nil, err
	}

	notes := []domain.Notification{
		domain.NotifyRoom(s.room.ID, dayResultText(outcome)),
	}
	if outcome.HunterArmed != nil {
		notes = append(notes, domain.NotifyPlayer(outcome.HunterArmed.ID, hunterPromptText()))
	}

	if outcome.Winner != domain.WinnerNone {
		notes = append(notes, domain.NotifyRoom(s.room.ID, winText(outcome.Winner)))
		s.cancelTimerLocked()
		return notes, nil
	}

	notes = append(notes, s.nightOpenLocked()...)
	return notes, nil
}

// nightOpenLocked arms the night deadline and builds the night-start
// announcement plus private prompts for every living role with a night
// action. Caller must hold the session mutex.
func (s *RoomSession) nightOpenLocked() []domain.Notification {
	s.armTimerLocked(TimerNight, s.nightDuration)

	notes := []domain.Notification{
		domain.NotifyRoom(s.room.ID, nightOpenText(s.deadline)),
	}
	for _, player := range s.room.AlivePlayers() {
		if player.Role.HasNightAction() {
			notes = append(notes, domain.NotifyPlayer(player.ID, nightPromptText(player, s.room.Game)))
		}
	}
	return notes
}

// armTimerLocked replaces any armed timer with a new single-shot deadline.
// Caller must hold the session mutex.
func (s *RoomSession) armTimerLocked(kind TimerKind, d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerGen++
	s.timerKind = kind
	s.deadline = time.Now().Add(d)

	gen := s.timerGen
	s.timer = time.AfterFunc(d, func() {
		s.fire(kind, gen)
	})
}

// cancelTimerLocked stops the armed timer. A stopped timer that already
// fired is neutralized by the generation bump. Caller must hold the session
// mutex.
func (s *RoomSession) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
	s.deadline = time.Time{}
}

// Close cancels the session's timer. Called when the room is destroyed.
func (s *RoomSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
}
