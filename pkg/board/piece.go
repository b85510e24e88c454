package board

// Kind represents a chess piece kind, color-independent.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func ParseKind(r rune) (Kind, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoKind, false
	}
}

func (k Kind) IsValid() bool {
	return Pawn <= k && k <= King
}

func (k Kind) String() string {
	switch k {
	case NoKind:
		return " "
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}

// noLastMove marks a piece that has never moved (King/Rook last-move gate
// for castling) and a pawn that cannot be captured en passant.
const noLastMove = -1

// Piece is a single chess piece: its kind, color, current square (if still
// on the board), and the half-move ordinal at which it last moved. LastMove
// is consulted for castling eligibility (King/Rook must never have moved,
// i.e. LastMove == noLastMove) and to detect whether an opposing pawn's most
// recent move was a two-square advance (en passant).
type Piece struct {
	Kind     Kind
	Color    Color
	Sq       Square
	Captured bool
	LastMove int
}

// HasMoved reports whether the piece has ever moved.
func (p *Piece) HasMoved() bool {
	return p.LastMove != noLastMove
}

func (p *Piece) String() string {
	if p.Color == White {
		switch p.Kind {
		case Pawn:
			return "P"
		case Knight:
			return "N"
		case Bishop:
			return "B"
		case Rook:
			return "R"
		case Queen:
			return "Q"
		case King:
			return "K"
		}
	}
	return p.Kind.String()
}
