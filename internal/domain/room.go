package domain

import (
	"sort"
	"time"
)

// NightState is the per-night ephemeral action state. It is reset at every
// night resolution; nothing in it survives into the next night.
type NightState struct {
	Nominations   []string        // wolf kill nominations by target id, one entry per action, not deduplicated
	DoctorTarget  string          // doctor's protection target tonight
	HealRequested bool            // witch chose to use the healing potion tonight
	PoisonTarget  string          // witch's poison target tonight
	SeerQueried   map[string]bool // seer ids that already inspected tonight
}

func newNightState() *NightState {
	return &NightState{
		Nominations: make([]string, 0),
		SeerQueried: make(map[string]bool),
	}
}

// GameState is the per-game persistent ability state. It is reset only when
// roles are dealt.
type GameState struct {
	DoctorLastSaved    string          // previous night's protection target, enforces the no-repeat rule
	DoctorSelfHealUsed map[string]bool // doctor ids that already protected themselves
	HealCharge         bool            // witch healing potion remaining
	PoisonCharge       bool            // witch poison remaining
	WitchID            string          // immutable once dealt
}

func newGameState() *GameState {
	return &GameState{
		DoctorSelfHealUsed: make(map[string]bool),
	}
}

// Room is the aggregate root for one game session
type Room struct {
	ID      string
	HostID  string
	Players map[string]*Player
	Seats   []string // player ids in join order; seat number = index+1
	Started bool
	Phase   Phase
	Day     int

	BaseRoles    []Role
	CurrentRoles []Role

	Votes           map[string]string // voter id -> target id, overwritten on re-vote
	Night           *NightState
	Game            *GameState
	HunterPendingID string // hunter granted a one-shot retaliation, cleared on shot or phase change

	CreatedAt time.Time
}

// NewRoom creates a new room hosted by the given player. The host is not
// seated automatically; they join like everyone else.
func NewRoom(id, hostID string) *Room {
	return &Room{
		ID:        id,
		HostID:    hostID,
		Players:   make(map[string]*Player),
		Seats:     make([]string, 0),
		Phase:     PhaseWaiting,
		Votes:     make(map[string]string),
		Night:     newNightState(),
		Game:      newGameState(),
		CreatedAt: time.Now(),
	}
}

// IsHost checks if the given player is the host
func (r *Room) IsHost(playerID string) bool {
	return r.HostID == playerID
}

// AddPlayer seats a player at the next free seat
func (r *Room) AddPlayer(playerID, name string) (*Player, error) {
	if r.Phase != PhaseWaiting {
		return nil, ErrGameStarted
	}
	if _, ok := r.Players[playerID]; ok {
		return nil, ErrAlreadyJoined
	}
	if len(r.Players) >= MaxPlayers {
		return nil, ErrCapacityViolation
	}

	player := NewPlayer(playerID, name, len(r.Seats)+1)
	r.Players[playerID] = player
	r.Seats = append(r.Seats, playerID)
	return player, nil
}

// RemovePlayer unseats a player before the game starts and renumbers the
// remaining seats
func (r *Room) RemovePlayer(playerID string) error {
	if r.Phase != PhaseWaiting {
		return ErrGameStarted
	}
	if _, ok := r.Players[playerID]; !ok {
		return ErrPlayerNotFound
	}

	delete(r.Players, playerID)
	seats := r.Seats[:0]
	for _, id := range r.Seats {
		if id != playerID {
			seats = append(seats, id)
		}
	}
	r.Seats = seats
	for i, id := range r.Seats {
		r.Players[id].Seat = i + 1
	}
	return nil
}

// GetPlayer returns a seated player by ID
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	player, ok := r.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// PlayerBySeat returns the player at a 1-based seat number
func (r *Room) PlayerBySeat(seat int) (*Player, error) {
	if seat < 1 || seat > len(r.Seats) {
		return nil, ErrUnknownTarget
	}
	return r.Players[r.Seats[seat-1]], nil
}

// livingTarget resolves a seat number to a living player
func (r *Room) livingTarget(seat int) (*Player, error) {
	target, err := r.PlayerBySeat(seat)
	if err != nil {
		return nil, err
	}
	if !target.Alive {
		return nil, ErrUnknownTarget
	}
	return target, nil
}

// AlivePlayers returns living players in seat order
func (r *Room) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(r.Seats))
	for _, id := range r.Seats {
		if p := r.Players[id]; p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

// actor resolves a private-command issuer to a living player of the given role
func (r *Room) actor(playerID string, role Role) (*Player, error) {
	player, ok := r.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if !player.Alive {
		return nil, ErrDeadPlayer
	}
	if player.Role != role {
		return nil, ErrWrongRole
	}
	return player, nil
}

// Start moves the room from the lobby into role configuration and builds the
// base role template. Host only; roster size must be within bounds.
func (r *Room) Start(callerID string) error {
	if !r.IsHost(callerID) {
		return ErrUnauthorized
	}
	if r.Phase != PhaseWaiting {
		return ErrIllegalPhase
	}
	if len(r.Players) < MinPlayers || len(r.Players) > MaxPlayers {
		return ErrCapacityViolation
	}

	r.BaseRoles = BuildBaseRoles(len(r.Players))
	r.CurrentRoles = make([]Role, len(r.BaseRoles))
	copy(r.CurrentRoles, r.BaseRoles)
	r.Phase = PhaseConfiguring
	return nil
}

// SwapWitch replaces the doctor in the working template with a witch
func (r *Room) SwapWitch(callerID string) error {
	return r.swapRole(callerID, SwapDoctorForWitch)
}

// SwapHunter replaces a villager in the working template with a hunter
func (r *Room) SwapHunter(callerID string) error {
	return r.swapRole(callerID, SwapVillagerForHunter)
}

func (r *Room) swapRole(callerID string, swap func([]Role) error) error {
	if !r.IsHost(callerID) {
		return ErrUnauthorized
	}
	if r.Phase != PhaseConfiguring {
		return ErrIllegalPhase
	}
	return swap(r.CurrentRoles)
}

// Confirm deals the working template to the roster as a uniform random
// bijection and opens the first night. Host only. A role/roster count
// mismatch blocks the transition without dealing anything.
func (r *Room) Confirm(callerID string, rng Rand) error {
	if !r.IsHost(callerID) {
		return ErrUnauthorized
	}
	if r.Phase != PhaseConfiguring {
		return ErrIllegalPhase
	}
	if len(r.CurrentRoles) != len(r.Seats) {
		return ErrCapacityViolation
	}

	order := make([]string, len(r.Seats))
	copy(order, r.Seats)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	roles := make([]Role, len(r.CurrentRoles))
	copy(roles, r.CurrentRoles)
	rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	r.Game = newGameState()
	for i, id := range order {
		r.Players[id].Role = roles[i]
		if roles[i] == RoleWitch {
			r.Game.WitchID = id
			r.Game.HealCharge = true
			r.Game.PoisonCharge = true
		}
	}

	r.Night = newNightState()
	r.Votes = make(map[string]string)
	r.HunterPendingID = ""
	r.Started = true
	r.Day = 0
	r.Phase = PhaseNight
	return nil
}

// Nominate records a werewolf's kill nomination. Nominations form a
// multiset; every action appends an entry.
func (r *Room) Nominate(playerID string, seat int) (*Player, error) {
	if r.Phase != PhaseNight {
		return nil, ErrIllegalPhase
	}
	if _, err := r.actor(playerID, RoleWerewolf); err != nil {
		return nil, err
	}
	target, err := r.livingTarget(seat)
	if err != nil {
		return nil, err
	}
	r.Night.Nominations = append(r.Night.Nominations, target.ID)
	return target, nil
}

// SeerInspect reveals to the seer whether the target is a werewolf. One
// inspection per seer per night.
func (r *Room) SeerInspect(playerID string, seat int) (*Player, bool, error) {
	if r.Phase != PhaseNight {
		return nil, false, ErrIllegalPhase
	}
	seer, err := r.actor(playerID, RoleSeer)
	if err != nil {
		return nil, false, err
	}
	if r.Night.SeerQueried[seer.ID] {
		return nil, false, ErrDuplicateAction
	}
	target, err := r.livingTarget(seat)
	if err != nil {
		return nil, false, err
	}
	r.Night.SeerQueried[seer.ID] = true
	return target, target.Role.IsWerewolf(), nil
}

// DoctorProtect records the doctor's protection target. The doctor may not
// pick the same target as the previous night and may protect themself only
// once per game.
func (r *Room) DoctorProtect(playerID string, seat int) (*Player, error) {
	if r.Phase != PhaseNight {
		return nil, ErrIllegalPhase
	}
	doctor, err := r.actor(playerID, RoleDoctor)
	if err != nil {
		return nil, err
	}
	if r.Night.DoctorTarget != "" {
		return nil, ErrDuplicateAction
	}
	target, err := r.livingTarget(seat)
	if err != nil {
		return nil, err
	}
	if target.ID == r.Game.DoctorLastSaved {
		return nil, ErrDuplicateAction
	}
	if target.ID == doctor.ID {
		if r.Game.DoctorSelfHealUsed[doctor.ID] {
			return nil, ErrResourceExhausted
		}
		r.Game.DoctorSelfHealUsed[doctor.ID] = true
	}
	r.Night.DoctorTarget = target.ID
	return target, nil
}

// WitchHeal marks the healing potion for use on tonight's wolf victim. The
// charge is consumed at resolution, and only if it actually negates a kill.
func (r *Room) WitchHeal(playerID string) error {
	if r.Phase != PhaseNight {
		return ErrIllegalPhase
	}
	if _, err := r.actor(playerID, RoleWitch); err != nil {
		return err
	}
	if !r.Game.HealCharge {
		return ErrResourceExhausted
	}
	if r.Night.HealRequested {
		return ErrDuplicateAction
	}
	r.Night.HealRequested = true
	return nil
}

// WitchPoison records the witch's poison target for tonight
func (r *Room) WitchPoison(playerID string, seat int) (*Player, error) {
	if r.Phase != PhaseNight {
		return nil, ErrIllegalPhase
	}
	if _, err := r.actor(playerID, RoleWitch); err != nil {
		return nil, err
	}
	if !r.Game.PoisonCharge {
		return nil, ErrResourceExhausted
	}
	if r.Night.PoisonTarget != "" {
		return nil, ErrDuplicateAction
	}
	target, err := r.livingTarget(seat)
	if err != nil {
		return nil, err
	}
	r.Night.PoisonTarget = target.ID
	return target, nil
}

// CastVote records or overwrites a living player's day vote
func (r *Room) CastVote(voterID string, seat int) (*Player, error) {
	if r.Phase != PhaseDay {
		return nil, ErrIllegalPhase
	}
	voter, ok := r.Players[voterID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if !voter.Alive {
		return nil, ErrDeadPlayer
	}
	target, err := r.livingTarget(seat)
	if err != nil {
		return nil, err
	}
	r.Votes[voterID] = target.ID
	return target, nil
}

// HunterShoot fires the pending retaliation shot. Legal only for the hunter
// holding the pending shot, while the game is still running.
func (r *Room) HunterShoot(playerID string, seat int) (*Player, Winner, error) {
	if r.Phase != PhaseNight && r.Phase != PhaseDay {
		return nil, WinnerNone, ErrIllegalPhase
	}
	shooter, ok := r.Players[playerID]
	if !ok {
		return nil, WinnerNone, ErrPlayerNotFound
	}
	if shooter.Role != RoleHunter {
		return nil, WinnerNone, ErrWrongRole
	}
	if r.HunterPendingID != playerID {
		return nil, WinnerNone, ErrResourceExhausted
	}
	target, err := r.livingTarget(seat)
	if err != nil {
		return nil, WinnerNone, err
	}

	target.Eliminate()
	r.HunterPendingID = ""

	winner := r.EvaluateWin()
	if winner != WinnerNone {
		r.Phase = PhaseEnded
	}
	return target, winner, nil
}

// tallyPlurality picks the most-voted target from a multiset of target ids.
// Ties are broken uniformly at random; candidates are ordered by seat first
// so the draw does not depend on map iteration order.
func (r *Room) tallyPlurality(targets []string, rng Rand) *Player {
	if len(targets) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, id := range targets {
		counts[id]++
	}

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	candidates := make([]*Player, 0, len(counts))
	for id, c := range counts {
		if c == max {
			candidates = append(candidates, r.Players[id])
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Seat < candidates[j].Seat })

	if len(candidates) == 1 {
		return candidates[0]
	}
	return candidates[rng.Intn(len(candidates))]
}
