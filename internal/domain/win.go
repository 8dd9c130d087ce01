package domain

// Winner identifies the faction that ended the game
type Winner string

const (
	WinnerNone       Winner = ""
	WinnerGood       Winner = "GOOD"
	WinnerWerewolves Winner = "WEREWOLVES"
)

// EvaluateWin checks faction balance among the living roster: zero living
// werewolves means the good faction wins; werewolves reaching parity with
// everyone else means the werewolf faction wins.
func (r *Room) EvaluateWin() Winner {
	wolves, others := 0, 0
	for _, id := range r.Seats {
		p := r.Players[id]
		if !p.Alive {
			continue
		}
		if p.Role.IsWerewolf() {
			wolves++
		} else {
			others++
		}
	}

	if wolves == 0 {
		return WinnerGood
	}
	if wolves >= others {
		return WinnerWerewolves
	}
	return WinnerNone
}
