package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseWaiting     Phase = "WAITING"     // Lobby, players joining
	PhaseConfiguring Phase = "CONFIGURING" // Host tuning the role template
	PhaseNight       Phase = "NIGHT"       // Private role actions
	PhaseDay         Phase = "DAY"         // Open discussion and voting
	PhaseEnded       Phase = "ENDED"       // A faction has won
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseWaiting:     {PhaseConfiguring, PhaseEnded},
		PhaseConfiguring: {PhaseNight, PhaseEnded},
		PhaseNight:       {PhaseDay, PhaseEnded},
		PhaseDay:         {PhaseNight, PhaseEnded},
		PhaseEnded:       {},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
