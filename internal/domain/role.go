package domain

// Role represents a player's dealt identity
type Role string

const (
	RoleWerewolf Role = "WEREWOLF"
	RoleVillager Role = "VILLAGER"
	RoleSeer     Role = "SEER"
	RoleDoctor   Role = "DOCTOR"
	RoleWitch    Role = "WITCH"
	RoleHunter   Role = "HUNTER"
)

// RoleOrder fixes the display order of the role catalog. Tally logic never
// depends on it; only status and announcement output do.
var RoleOrder = []Role{
	RoleWerewolf,
	RoleVillager,
	RoleSeer,
	RoleDoctor,
	RoleWitch,
	RoleHunter,
}

// roleDescriptions is the static capability text per role
var roleDescriptions = map[Role]string{
	RoleWerewolf: "Each night, nominate a victim with /kill N. The most-nominated player dies.",
	RoleVillager: "No night action. Find the werewolves and vote them out during the day.",
	RoleSeer:     "Each night, inspect one player with /check N to learn whether they are a werewolf.",
	RoleDoctor:   "Each night, protect one player with /save N. You may not protect the same player twice in a row, and may protect yourself only once per game.",
	RoleWitch:    "You hold one healing potion (/heal, saves tonight's victim) and one poison (/poison N). Each works once per game. The potion never works on yourself.",
	RoleHunter:   "If you are killed, you may take one player down with you using /shoot N.",
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Description returns the capability text for the role
func (r Role) Description() string {
	return roleDescriptions[r]
}

// IsWerewolf returns true if this role belongs to the werewolf faction
func (r Role) IsWerewolf() bool {
	return r == RoleWerewolf
}

// HasNightAction returns true if the role acts privately at night
func (r Role) HasNightAction() bool {
	switch r {
	case RoleWerewolf, RoleSeer, RoleDoctor, RoleWitch:
		return true
	}
	return false
}
