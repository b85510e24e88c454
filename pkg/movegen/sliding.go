package movegen

import "github.com/relaychess/relaychess/pkg/board"

var (
	rookDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([][2]int{}, rookDirs...), bishopDirs...)
)

// slideMoves steps outward along each direction, adding empty squares; on
// hitting an enemy piece it adds that square and stops; on hitting a
// friendly piece it stops without adding. Used by Rook, Bishop, and Queen.
func slideMoves(b *board.Board, p *board.Piece, dirs [][2]int) []board.Move {
	var moves []board.Move
	for _, d := range dirs {
		for r := 1; ; r++ {
			sq, ok := p.Sq.Offset(d[0]*r, d[1]*r)
			if !ok {
				break
			}
			occ, present := b.At(sq)
			if !present {
				moves = append(moves, board.Move{Type: board.Normal, From: p.Sq, To: sq})
				continue
			}
			if occ.Color != p.Color {
				moves = append(moves, board.Move{Type: board.Capture, From: p.Sq, To: sq})
			}
			break
		}
	}
	return moves
}
