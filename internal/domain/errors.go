package domain

import "errors"

// Domain errors. All are recoverable: each produces a user-visible rejection
// notice and leaves room state unchanged.
var (
	// Error taxonomy for rejected commands
	ErrIllegalPhase      = errors.New("action not allowed in the current phase")
	ErrUnauthorized      = errors.New("only the host can do that")
	ErrUnknownTarget     = errors.New("no living player in that seat")
	ErrResourceExhausted = errors.New("that ability has already been used up")
	ErrDuplicateAction   = errors.New("that action was already taken")
	ErrCapacityViolation = errors.New("player count is outside the allowed range")

	// Registry and roster errors
	ErrRoomExists     = errors.New("a room already exists here")
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrAlreadyJoined  = errors.New("already seated in this room")
	ErrGameStarted    = errors.New("game already started")
	ErrWrongRole      = errors.New("your role cannot perform that action")
	ErrDeadPlayer     = errors.New("dead players cannot act")
)
