package board

import "fmt"

// MoveType indicates the kind of side effects a move carries. The fifty-move
// counter is reset by any pawn move (Push, Promotion, EnPassant, or a pawn
// capture) or by any capture, matching the reset conditions in §4.3.3;
// Normal and castling moves advance it.
type MoveType uint8

const (
	Normal MoveType = iota
	Push            // pawn push, one or two squares
	Capture
	EnPassant // pawn diagonal capture of the square "alongside"
	QueenSideCastle
	KingSideCastle
	Promotion
	CapturePromotion
)

// HalfMove is a single applied move recorded in a Board's ledger: the
// immutable facts needed to display history and to unmake the move.
type HalfMove struct {
	Type       MoveType
	From, To   Square
	Mover      Color
	Index      int // half-move ordinal, monotone from 0
	Promotion  Kind
	Captured   Kind   // kind of the captured piece, if any
	CapturedAt Square // square of the captured piece (differs from To for en passant)
}

// Move is a candidate move, as produced by pkg/movegen: pseudo-legal (it
// respects its piece's motion pattern and board occupancy) but not yet
// screened for self-check. Type and Promotion are filled in by the generator
// so that Board.Apply never has to re-derive side effects from From/To
// alone (e.g. whether a diagonal pawn move is a capture or an en passant).
type Move struct {
	Type      MoveType
	From, To  Square
	Promotion Kind // desired promotion piece; always Queen per §4.3.3 step 5
}

// ParseMove parses a move in simple coordinate notation, "from:to" such as
// "e2:e4".
func ParseMove(str string) (Move, error) {
	runes := []rune(str)
	if len(runes) != 5 || runes[2] != ':' {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}
	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from in %q: %w", str, err)
	}
	to, err := ParseSquare(runes[3], runes[4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to in %q: %w", str, err)
	}
	return Move{From: from, To: to}, nil
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To
}

func (m Move) String() string {
	return fmt.Sprintf("%v:%v", m.From, m.To)
}

func (m HalfMove) String() string {
	return fmt.Sprintf("#%v %v %v:%v", m.Index, m.Mover, m.From, m.To)
}
