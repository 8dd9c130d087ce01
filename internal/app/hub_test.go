package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"werewolf/internal/domain"
)

func testHub(t *testing.T) *RoomHub {
	t.Helper()
	hub := NewRoomHub(testLogger(), nil, time.Hour, time.Hour)
	t.Cleanup(hub.Close)
	return hub
}

func TestHub_CreateAndGet(t *testing.T) {
	hub := testHub(t)

	s, err := hub.Create("room1", "p1")
	require.NoError(t, err)
	require.NotNil(t, s)

	got, err := hub.Get("room1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = hub.Get("room2")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestHub_CreateDuplicate(t *testing.T) {
	hub := testHub(t)

	_, err := hub.Create("room1", "p1")
	require.NoError(t, err)

	_, err = hub.Create("room1", "p2")
	assert.ErrorIs(t, err, domain.ErrRoomExists)
	assert.Equal(t, 1, hub.RoomCount())
}

func TestHub_FindByPlayer(t *testing.T) {
	hub := testHub(t)

	s1, err := hub.Create("room1", "p1")
	require.NoError(t, err)
	s2, err := hub.Create("room2", "p9")
	require.NoError(t, err)

	_, err = s1.Join("p1", "Alice")
	require.NoError(t, err)
	_, err = s2.Join("p9", "Bob")
	require.NoError(t, err)

	found, err := hub.FindByPlayer("p9")
	require.NoError(t, err)
	assert.Same(t, s2, found)

	_, err = hub.FindByPlayer("ghost")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestHub_Destroy(t *testing.T) {
	hub := testHub(t)

	_, err := hub.Create("room1", "p1")
	require.NoError(t, err)

	hub.Destroy("room1")
	_, err = hub.Get("room1")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	// Destroying a missing room is a no-op
	hub.Destroy("room1")
}

func TestHub_GameEndRemovesRoom(t *testing.T) {
	hub := testHub(t)

	s, err := hub.Create("room1", "p1")
	require.NoError(t, err)

	roles := []domain.Role{domain.RoleWerewolf, domain.RoleWerewolf, domain.RoleSeer, domain.RoleDoctor, domain.RoleVillager}
	for i := 1; i <= len(roles); i++ {
		id := fmt.Sprintf("p%d", i)
		_, err := s.Join(id, "Player"+id)
		require.NoError(t, err)
	}
	_, err = s.Start("p1")
	require.NoError(t, err)

	// Deal roles in seat order so the outcome is scripted, not random
	s.mu.Lock()
	s.room.CurrentRoles = roles
	s.rng = &scriptRand{}
	s.mu.Unlock()

	_, err = s.Confirm("p1")
	require.NoError(t, err)
	_, err = s.ForceNight("p1")
	require.NoError(t, err)

	// Banishing the villager hands the wolves parity and ends the game
	_, err = s.Vote("p1", 5)
	require.NoError(t, err)
	_, err = s.Vote("p2", 5)
	require.NoError(t, err)
	_, err = s.ForceDay("p1")
	require.NoError(t, err)

	require.Equal(t, domain.PhaseEnded, s.Phase())
	_, err = hub.Get("room1")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.Equal(t, 0, hub.RoomCount())
}

func TestHub_HunterShotWinRemovesRoom(t *testing.T) {
	hub := testHub(t)

	s, err := hub.Create("room1", "p1")
	require.NoError(t, err)

	roles := []domain.Role{domain.RoleWerewolf, domain.RoleSeer, domain.RoleDoctor, domain.RoleHunter, domain.RoleVillager}
	for i := 1; i <= len(roles); i++ {
		id := fmt.Sprintf("p%d", i)
		_, err := s.Join(id, "Player"+id)
		require.NoError(t, err)
	}
	_, err = s.Start("p1")
	require.NoError(t, err)

	s.mu.Lock()
	s.room.CurrentRoles = roles
	s.rng = &scriptRand{}
	s.mu.Unlock()

	_, err = s.Confirm("p1")
	require.NoError(t, err)

	// Wolves take the hunter; the hunter's shot takes the last wolf
	_, err = s.Nominate("p1", 4)
	require.NoError(t, err)
	_, err = s.ForceNight("p1")
	require.NoError(t, err)
	_, err = s.HunterShoot("p4", 1)
	require.NoError(t, err)

	require.Equal(t, domain.PhaseEnded, s.Phase())
	_, err = hub.Get("room1")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestHub_OnTimerFiredUnknownRoom(t *testing.T) {
	hub := testHub(t)

	// Must not panic when the room ended before the fire arrived
	hub.OnTimerFired("gone", TimerNight)
}

func TestHub_PlayerCount(t *testing.T) {
	hub := testHub(t)

	s1, err := hub.Create("room1", "p1")
	require.NoError(t, err)
	s2, err := hub.Create("room2", "p9")
	require.NoError(t, err)

	_, err = s1.Join("p1", "Alice")
	require.NoError(t, err)
	_, err = s1.Join("p2", "Bob")
	require.NoError(t, err)
	_, err = s2.Join("p9", "Carol")
	require.NoError(t, err)

	assert.Equal(t, 2, hub.RoomCount())
	assert.Equal(t, 3, hub.PlayerCount())
}

func TestHub_CleanupStaleLobby(t *testing.T) {
	hub := testHub(t)

	stale, err := hub.Create("stale", "p1")
	require.NoError(t, err)
	fresh, err := hub.Create("fresh", "p9")
	require.NoError(t, err)
	_, err = fresh.Join("p9", "Bob")
	require.NoError(t, err)

	stale.mu.Lock()
	stale.lastActive = time.Now().Add(-StaleRoomTimeout - time.Minute)
	stale.mu.Unlock()

	hub.cleanupStaleRooms()

	_, err = hub.Get("stale")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	_, err = hub.Get("fresh")
	assert.NoError(t, err)
}
