package apperror

import "errors"

var (
	ErrInvalidColumn   = errors.New("column is out of range")
	ErrColumnFull      = errors.New("column is already full")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrGameFinished    = errors.New("game is already finished")
	ErrSessionNotFound = errors.New("session not found")
)

// IsIllegalMove reports whether err belongs to the illegal-move class:
// recovered locally, reported to the offending connection only, never fatal.
func IsIllegalMove(err error) bool {
	return errors.Is(err, ErrInvalidColumn) ||
		errors.Is(err, ErrColumnFull) ||
		errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrGameFinished)
}
