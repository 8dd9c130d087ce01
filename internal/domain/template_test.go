package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBaseRoles_Table(t *testing.T) {
	expectedWolves := map[int]int{5: 1, 6: 2, 7: 2, 8: 2}

	for n, wolves := range expectedWolves {
		roles := BuildBaseRoles(n)
		require.Len(t, roles, n, "n=%d", n)

		counts := CountRoles(roles)
		assert.Equal(t, wolves, counts[RoleWerewolf], "n=%d werewolves", n)
		assert.Equal(t, 1, counts[RoleSeer], "n=%d seers", n)
		assert.Equal(t, 1, counts[RoleDoctor], "n=%d doctors", n)
		assert.Equal(t, n-wolves-2, counts[RoleVillager], "n=%d villagers", n)
	}
}

func TestBuildBaseRoles_FallbackOutsideTable(t *testing.T) {
	roles := BuildBaseRoles(12)
	require.Len(t, roles, 12)
	assert.Equal(t, 3, CountRoles(roles)[RoleWerewolf])

	// n/4 rounds to zero, floor is one werewolf
	roles = BuildBaseRoles(3)
	require.Len(t, roles, 3)
	assert.Equal(t, 1, CountRoles(roles)[RoleWerewolf])
}

func TestSwapDoctorForWitch(t *testing.T) {
	roles := BuildBaseRoles(6)

	require.NoError(t, SwapDoctorForWitch(roles))
	counts := CountRoles(roles)
	assert.Equal(t, 0, counts[RoleDoctor])
	assert.Equal(t, 1, counts[RoleWitch])

	// Second swap is rejected, not silently ignored
	assert.ErrorIs(t, SwapDoctorForWitch(roles), ErrDuplicateAction)
}

func TestSwapVillagerForHunter(t *testing.T) {
	roles := BuildBaseRoles(6)

	require.NoError(t, SwapVillagerForHunter(roles))
	counts := CountRoles(roles)
	assert.Equal(t, 1, counts[RoleVillager])
	assert.Equal(t, 1, counts[RoleHunter])

	assert.ErrorIs(t, SwapVillagerForHunter(roles), ErrDuplicateAction)
}

func TestSwapWithoutSourceRole(t *testing.T) {
	roles := []Role{RoleWerewolf, RoleSeer, RoleVillager}
	assert.ErrorIs(t, SwapDoctorForWitch(roles), ErrUnknownTarget)

	roles = []Role{RoleWerewolf, RoleSeer, RoleDoctor}
	assert.ErrorIs(t, SwapVillagerForHunter(roles), ErrUnknownTarget)
}
