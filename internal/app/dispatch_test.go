package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"werewolf/internal/domain"
)

func testDispatcher(t *testing.T) (*Dispatcher, *RoomHub) {
	t.Helper()
	hub := testHub(t)
	return NewDispatcher(hub, testLogger()), hub
}

// fillLobby seats n players in roomID through the dispatcher, p1 first
func fillLobby(t *testing.T, d *Dispatcher, roomID string, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		notes := d.Dispatch(roomID, id, "Player"+id, "/join")
		require.Len(t, notes, 1)
		require.Equal(t, roomID, notes[0].Target, "join should be announced to the room: %s", notes[0].Text)
	}
}

func assertRejected(t *testing.T, notes []domain.Notification, playerID string, wantErr error) {
	t.Helper()
	require.Len(t, notes, 1)
	assert.Equal(t, playerID, notes[0].Target)
	assert.Contains(t, notes[0].Text, "❌")
	assert.Contains(t, notes[0].Text, wantErr.Error())
}

func TestDispatch_CreateAndDuplicate(t *testing.T) {
	d, hub := testDispatcher(t)

	notes := d.Dispatch("room1", "p1", "Alice", "/create")
	require.Len(t, notes, 1)
	assert.Equal(t, "room1", notes[0].Target)
	assert.Equal(t, 1, hub.RoomCount())

	notes = d.Dispatch("room1", "p2", "Bob", "/create")
	assertRejected(t, notes, "p2", domain.ErrRoomExists)
}

func TestDispatch_CreateOutsideRoom(t *testing.T) {
	d, hub := testDispatcher(t)

	notes := d.Dispatch("", "p1", "Alice", "/create")
	require.Len(t, notes, 1)
	assert.Equal(t, "p1", notes[0].Target)
	assert.Equal(t, 0, hub.RoomCount())
}

func TestDispatch_NoRoomYet(t *testing.T) {
	d, _ := testDispatcher(t)

	notes := d.Dispatch("room1", "p1", "Alice", "/join")
	require.Len(t, notes, 1)
	assert.Equal(t, "p1", notes[0].Target)
	assert.Contains(t, notes[0].Text, "/create")
}

func TestDispatch_StartGuards(t *testing.T) {
	d, _ := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 4)

	// 4 players is below the floor
	notes := d.Dispatch("room1", "p1", "Playerp1", "/start")
	assertRejected(t, notes, "p1", domain.ErrCapacityViolation)

	d.Dispatch("room1", "p5", "Playerp5", "/join")

	// Only the host may start
	notes = d.Dispatch("room1", "p2", "Playerp2", "/start")
	assertRejected(t, notes, "p2", domain.ErrUnauthorized)

	notes = d.Dispatch("room1", "p1", "Playerp1", "/start")
	require.Len(t, notes, 1)
	assert.Equal(t, "room1", notes[0].Target)
	assert.Contains(t, notes[0].Text, "WEREWOLF")
}

func TestDispatch_VoteOutsideDay(t *testing.T) {
	d, _ := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 5)

	notes := d.Dispatch("room1", "p1", "Playerp1", "/vote 2")
	assertRejected(t, notes, "p1", domain.ErrIllegalPhase)
}

func TestDispatch_SeatParsing(t *testing.T) {
	d, _ := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 5)

	for _, text := range []string{"/vote", "/vote two", "/vote 1 2"} {
		notes := d.Dispatch("room1", "p1", "Playerp1", text)
		require.Len(t, notes, 1)
		assert.Equal(t, "p1", notes[0].Target)
		assert.Contains(t, notes[0].Text, "Usage:")
	}
}

func TestDispatch_SwapUsage(t *testing.T) {
	d, _ := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 5)
	d.Dispatch("room1", "p1", "Playerp1", "/start")

	for _, text := range []string{"/swap", "/swap wizard", "/swap witch hunter"} {
		notes := d.Dispatch("room1", "p1", "Playerp1", text)
		require.Len(t, notes, 1)
		assert.Contains(t, notes[0].Text, "Usage:")
	}

	notes := d.Dispatch("room1", "p1", "Playerp1", "/swap witch")
	require.Len(t, notes, 1)
	assert.Equal(t, "room1", notes[0].Target)
	assert.Contains(t, notes[0].Text, "WITCH")
}

func TestDispatch_PrivateCommandRouting(t *testing.T) {
	d, _ := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 5)

	// Private commands carry no room context; the hub finds the seat. The
	// lobby has no night running, so the rejection proves routing worked.
	notes := d.Dispatch("", "p3", "Playerp3", "/kill 1")
	assertRejected(t, notes, "p3", domain.ErrIllegalPhase)

	notes = d.Dispatch("", "ghost", "Ghost", "/kill 1")
	require.Len(t, notes, 1)
	assert.Equal(t, "ghost", notes[0].Target)
	assert.Contains(t, notes[0].Text, "not seated")
}

func TestDispatch_Reset(t *testing.T) {
	d, hub := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 5)

	notes := d.Dispatch("room1", "p2", "Playerp2", "/reset")
	require.Len(t, notes, 1)
	assert.Equal(t, "room1", notes[0].Target)
	assert.Equal(t, 0, hub.RoomCount())

	// The next /create reopens the room
	notes = d.Dispatch("room1", "p2", "Playerp2", "/create")
	require.Len(t, notes, 1)
	assert.Equal(t, "room1", notes[0].Target)
}

func TestDispatch_ExtendUsage(t *testing.T) {
	d, _ := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 5)

	notes := d.Dispatch("room1", "p1", "Playerp1", "/extend 0")
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "Usage:")

	// No timed phase is running yet
	notes = d.Dispatch("room1", "p1", "Playerp1", "/extend 5")
	assertRejected(t, notes, "p1", domain.ErrIllegalPhase)
}

func TestDispatch_UnknownAndEmpty(t *testing.T) {
	d, _ := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")

	assert.Nil(t, d.Dispatch("room1", "p1", "Alice", "   "))

	notes := d.Dispatch("room1", "p1", "Alice", "/dance")
	require.Len(t, notes, 1)
	assert.Equal(t, "p1", notes[0].Target)
	assert.Contains(t, notes[0].Text, "Commands:")

	notes = d.Dispatch("room1", "p1", "Alice", "/help")
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "Commands:")
}

func TestDispatch_FullGameFlow(t *testing.T) {
	d, hub := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 6)
	d.Dispatch("room1", "p1", "Playerp1", "/start")

	// Pin the deal so role-dependent commands can be scripted
	session, err := hub.Get("room1")
	require.NoError(t, err)
	roles := []domain.Role{domain.RoleWerewolf, domain.RoleWerewolf, domain.RoleSeer, domain.RoleDoctor, domain.RoleVillager, domain.RoleVillager}
	session.mu.Lock()
	session.room.CurrentRoles = roles
	session.rng = &scriptRand{}
	session.mu.Unlock()

	notes := d.Dispatch("room1", "p1", "Playerp1", "/confirm")
	require.NotEmpty(t, notes)
	assert.Equal(t, domain.PhaseNight, session.Phase())

	// Wolves agree on seat 5, seer checks seat 1, doctor guards seat 3
	notes = d.Dispatch("", "p1", "Playerp1", "/kill 5")
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "seat 5")
	d.Dispatch("", "p2", "Playerp2", "/kill 5")

	notes = d.Dispatch("", "p3", "Playerp3", "/check 1")
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "WEREWOLF")

	d.Dispatch("", "p4", "Playerp4", "/save 3")

	notes = d.Dispatch("room1", "p1", "Playerp1", "/dawn")
	require.NotEmpty(t, notes)
	assert.Equal(t, domain.PhaseDay, session.Phase())
	assert.Contains(t, notes[0].Text, "Playerp5")

	// Day vote banishes a wolf
	for _, voter := range []string{"p3", "p4", "p6"} {
		d.Dispatch("room1", voter, "Player"+voter, "/vote 1")
	}
	notes = d.Dispatch("room1", "p1", "Playerp1", "/endday")
	require.NotEmpty(t, notes)
	assert.Contains(t, notes[0].Text, "Playerp1")
	assert.Contains(t, notes[0].Text, "WEREWOLF")
	assert.Equal(t, domain.PhaseNight, session.Phase())
}

func TestDispatch_ExtendMovesDeadline(t *testing.T) {
	d, hub := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 5)
	d.Dispatch("room1", "p1", "Playerp1", "/start")
	d.Dispatch("room1", "p1", "Playerp1", "/confirm")

	session, err := hub.Get("room1")
	require.NoError(t, err)
	require.Equal(t, domain.PhaseNight, session.Phase())
	before := session.Deadline()

	notes := d.Dispatch("room1", "p1", "Playerp1", "/extend 90")
	require.Len(t, notes, 1)
	assert.Equal(t, "room1", notes[0].Target)
	assert.True(t, session.Deadline().After(before))
	assert.WithinDuration(t, time.Now().Add(90*time.Minute), session.Deadline(), time.Minute)
}

func TestDispatch_StatusAnyPhase(t *testing.T) {
	d, _ := testDispatcher(t)
	d.Dispatch("room1", "p1", "Alice", "/create")
	fillLobby(t, d, "room1", 5)

	notes := d.Dispatch("room1", "p5", "Playerp5", "/status")
	require.Len(t, notes, 1)
	assert.Equal(t, "room1", notes[0].Target)
	assert.Contains(t, notes[0].Text, "Phase: WAITING")
	assert.Contains(t, notes[0].Text, "Playerp3")
}
