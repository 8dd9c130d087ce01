package domain

// Roster bounds enforced when the host starts a game
const (
	MinPlayers = 5
	MaxPlayers = 8
)

// werewolfCounts is the fixed werewolf count per roster size
var werewolfCounts = map[int]int{
	5: 1,
	6: 2,
	7: 2,
	8: 2,
}

// BuildBaseRoles computes the base role template for n players: werewolves
// per the fixed table, exactly one seer, one doctor, and villagers padding
// the remainder. A roster size outside the table falls back to max(1, n/4)
// werewolves.
func BuildBaseRoles(n int) []Role {
	wolves, ok := werewolfCounts[n]
	if !ok {
		wolves = n / 4
		if wolves < 1 {
			wolves = 1
		}
	}

	roles := make([]Role, 0, n)
	for i := 0; i < wolves; i++ {
		roles = append(roles, RoleWerewolf)
	}
	roles = append(roles, RoleSeer, RoleDoctor)
	for len(roles) < n {
		roles = append(roles, RoleVillager)
	}
	return roles
}

// SwapDoctorForWitch replaces the first doctor in the template with a witch.
// It fails if a witch is already present (the swap is not idempotent; a
// second call is rejected) or if no doctor remains.
func SwapDoctorForWitch(roles []Role) error {
	return swapRole(roles, RoleDoctor, RoleWitch)
}

// SwapVillagerForHunter replaces the first villager in the template with a
// hunter, with the same guards as SwapDoctorForWitch.
func SwapVillagerForHunter(roles []Role) error {
	return swapRole(roles, RoleVillager, RoleHunter)
}

func swapRole(roles []Role, out, in Role) error {
	for _, r := range roles {
		if r == in {
			return ErrDuplicateAction
		}
	}
	for i, r := range roles {
		if r == out {
			roles[i] = in
			return nil
		}
	}
	return ErrUnknownTarget
}

// CountRoles tallies a role sequence for display, keyed by role
func CountRoles(roles []Role) map[Role]int {
	counts := make(map[Role]int, len(RoleOrder))
	for _, r := range roles {
		counts[r]++
	}
	return counts
}
