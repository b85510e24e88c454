package rules

import "github.com/relaychess/relaychess/pkg/board"

// Outcome is the terminal status of a position, checked in the order §4.3.4
// gives after a move is applied and it becomes the given color's turn.
type Outcome int

const (
	// Ongoing means the game continues; c has at least one legal move.
	Ongoing Outcome = iota
	// Checkmate means c is in check and has no legal move; the side that
	// just moved wins.
	Checkmate
	// Stalemate means c is not in check and has no legal move. Draw.
	Stalemate
	// Repetition means the current position has occurred three times. Draw.
	Repetition
	// FiftyMove means 100 half-moves have passed with no pawn move or
	// capture. Draw.
	FiftyMove
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Repetition:
		return "repetition"
	case FiftyMove:
		return "fifty-move rule"
	default:
		return "unknown"
	}
}

// Status evaluates the terminal condition for the side about to move (i.e.
// the board's current Turn, which is the opponent of whoever just applied a
// move), in the order §4.3.4 specifies: checkmate, stalemate, repetition,
// then the fifty-move rule.
func (e *Engine) Status() Outcome {
	c := e.b.Turn()
	if !e.hasLegalMove(c) {
		if e.InCheck(c) {
			return Checkmate
		}
		return Stalemate
	}
	if e.b.RepeatCount() >= 3 {
		return Repetition
	}
	if e.b.NoProgress() >= 100 {
		return FiftyMove
	}
	return Ongoing
}

func (e *Engine) hasLegalMove(c board.Color) bool {
	for _, p := range e.b.Pieces(c) {
		if len(e.LegalMoves(p.Sq)) > 0 {
			return true
		}
	}
	return false
}
