package domain

import "sort"

// NightOutcome is the deterministic result of one night resolution. Given
// fixed action inputs and a fixed randomness source, the same inputs always
// yield the same outcome.
type NightOutcome struct {
	WolfTarget  *Player   // plurality nomination target, nil if no nominations
	DoctorSaved bool      // the doctor's protection negated the kill
	WitchHealed bool      // the healing potion negated the kill
	Poisoned    *Player   // poison victim, nil if none
	Deaths      []*Player // final death set in seat order
	HunterArmed *Player   // hunter granted a pending shot, nil if none
	Winner      Winner
}

// ResolveNight combines the collected night actions into one outcome, in
// strict order: wolf plurality kill, doctor override, witch heal, witch
// poison. Poison is evaluated independently of the wolf kill; a negated kill
// does not block a poison on the same player.
func (r *Room) ResolveNight(rng Rand) (*NightOutcome, error) {
	if r.Phase != PhaseNight {
		return nil, ErrIllegalPhase
	}

	// A shot left unfired from the previous day expires now
	r.HunterPendingID = ""

	out := &NightOutcome{}
	out.WolfTarget = r.tallyPlurality(r.Night.Nominations, rng)

	killed := out.WolfTarget
	if killed != nil && r.Night.DoctorTarget == killed.ID {
		out.DoctorSaved = true
		killed = nil
	}
	if killed != nil && r.Night.HealRequested && r.Game.HealCharge && killed.ID != r.Game.WitchID {
		out.WitchHealed = true
		r.Game.HealCharge = false
		killed = nil
	}
	if r.Night.PoisonTarget != "" && r.Game.PoisonCharge {
		out.Poisoned = r.Players[r.Night.PoisonTarget]
		r.Game.PoisonCharge = false
	}

	// A target felled earlier in the phase (a hunter's night shot) is not
	// announced dead a second time
	deaths := make(map[string]*Player)
	if killed != nil && killed.Alive {
		deaths[killed.ID] = killed
	}
	if out.Poisoned != nil && out.Poisoned.Alive {
		deaths[out.Poisoned.ID] = out.Poisoned
	}

	out.Deaths = make([]*Player, 0, len(deaths))
	for _, p := range deaths {
		out.Deaths = append(out.Deaths, p)
	}
	sort.Slice(out.Deaths, func(i, j int) bool { return out.Deaths[i].Seat < out.Deaths[j].Seat })

	for _, p := range out.Deaths {
		p.Eliminate()
		if p.Role == RoleHunter {
			r.HunterPendingID = p.ID
			out.HunterArmed = p
		}
	}

	// Roll per-night state forward; the doctor's choice survives one night
	// to enforce the no-repeat rule
	r.Game.DoctorLastSaved = r.Night.DoctorTarget
	r.Night = newNightState()

	out.Winner = r.EvaluateWin()
	if out.Winner != WinnerNone {
		r.Phase = PhaseEnded
	} else {
		r.Day++
		r.Phase = PhaseDay
		r.Votes = make(map[string]string)
	}
	return out, nil
}
