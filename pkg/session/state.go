package session

// State is the Session's position in the lifecycle machine (spec.md §4.4).
type State int

const (
	// AwaitingFirstPlayer: no transport has bound yet.
	AwaitingFirstPlayer State = iota
	// AwaitingSecondPlayer: one transport is bound (White), waiting for Black.
	AwaitingSecondPlayer
	// InProgress: both players bound, moves are being played.
	InProgress
	// Terminal: the game has ended; no further moves are accepted.
	Terminal
)

func (s State) String() string {
	switch s {
	case AwaitingFirstPlayer:
		return "awaiting-first-player"
	case AwaitingSecondPlayer:
		return "awaiting-second-player"
	case InProgress:
		return "in-progress"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Reason names how a Session reached Terminal.
type Reason int

const (
	// NotTerminal means the game has not ended.
	NotTerminal Reason = iota
	CheckmateWin
	DrawByAgreement
	DrawByRepetition
	DrawByFiftyMoveRule
	DrawByStalemate
	Resigned
	Aborted
)

func (r Reason) String() string {
	switch r {
	case NotTerminal:
		return "ongoing"
	case CheckmateWin:
		return "checkmate"
	case DrawByAgreement:
		return "draw by agreement"
	case DrawByRepetition:
		return "draw by threefold repetition"
	case DrawByFiftyMoveRule:
		return "draw by fifty-move rule"
	case DrawByStalemate:
		return "draw by stalemate"
	case Resigned:
		return "resignation"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result is the outcome recorded once a Session reaches Terminal.
type Result struct {
	Reason Reason
	// Winner is the winning Player's username, or "" for a draw or Aborted.
	Winner string
}
