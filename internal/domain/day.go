package domain

// DayOutcome is the result of one day vote resolution
type DayOutcome struct {
	Eliminated  *Player // nil when no votes were cast
	VoteCount   int     // votes received by the eliminated player
	Tied        bool    // the elimination came from a random tie-break
	HunterArmed *Player // hunter granted a pending shot, nil if none
	Winner      Winner
}

// ResolveDay tallies the day votes and eliminates the plurality target. A
// tie eliminates a uniformly random tied target, never nobody; only an empty
// vote map skips the elimination.
func (r *Room) ResolveDay(rng Rand) (*DayOutcome, error) {
	if r.Phase != PhaseDay {
		return nil, ErrIllegalPhase
	}

	// A shot left unfired from the previous night expires now
	r.HunterPendingID = ""

	out := &DayOutcome{}
	if len(r.Votes) == 0 {
		r.Phase = PhaseNight
		return out, nil
	}

	targets := make([]string, 0, len(r.Votes))
	counts := make(map[string]int)
	for _, targetID := range r.Votes {
		targets = append(targets, targetID)
		counts[targetID]++
	}

	out.Eliminated = r.tallyPlurality(targets, rng)
	out.VoteCount = counts[out.Eliminated.ID]
	for id, c := range counts {
		if id != out.Eliminated.ID && c == out.VoteCount {
			out.Tied = true
		}
	}

	out.Eliminated.Eliminate()
	if out.Eliminated.Role == RoleHunter {
		r.HunterPendingID = out.Eliminated.ID
		out.HunterArmed = out.Eliminated
	}

	r.Votes = make(map[string]string)

	out.Winner = r.EvaluateWin()
	if out.Winner != WinnerNone {
		r.Phase = PhaseEnded
	} else {
		r.Phase = PhaseNight
	}
	return out, nil
}
