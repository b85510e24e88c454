package rules

import "errors"

// Sentinel errors distinguished by callers with errors.Is, mirroring
// search.ErrHalted in the teacher's pkg/search.
var (
	// ErrNoPiece is returned when a move's From square holds no piece.
	ErrNoPiece = errors.New("rules: no piece on source square")
	// ErrWrongColor is returned when the piece on From does not belong to
	// the color on move.
	ErrWrongColor = errors.New("rules: piece does not belong to the side to move")
	// ErrIllegalMove is returned when a move is not among the mover's legal
	// moves (not a pseudo-legal pattern, blocked, or leaves the mover's own
	// King attacked).
	ErrIllegalMove = errors.New("rules: illegal move")
)
