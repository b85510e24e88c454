package movegen

import "github.com/relaychess/relaychess/pkg/board"

// kingMoves returns the King's ordinary single-step moves plus its castling
// pseudo-moves. Castling eligibility here is purely static (§4.2): the King
// and the Rook have never moved, and the squares between them are empty.
// Whether the King is in check, passes through, or lands on an attacked
// square is finalized by pkg/rules (§4.3.1/§4.3.2) — checking it here would
// require calling back into rules and risk recursion.
func kingMoves(b *board.Board, p *board.Piece) []board.Move {
	moves := jumpMoves(b, p, kingOffsets)

	if p.HasMoved() {
		return moves
	}
	if rook, ok := b.RookForCastle(p.Color, true); ok && pathClear(b, p.Sq, rook.Sq) {
		to, _ := p.Sq.Offset(2, 0)
		moves = append(moves, board.Move{Type: board.KingSideCastle, From: p.Sq, To: to})
	}
	if rook, ok := b.RookForCastle(p.Color, false); ok && pathClear(b, p.Sq, rook.Sq) {
		to, _ := p.Sq.Offset(-2, 0)
		moves = append(moves, board.Move{Type: board.QueenSideCastle, From: p.Sq, To: to})
	}
	return moves
}

// pathClear reports whether every square strictly between from and to on the
// same rank is empty.
func pathClear(b *board.Board, from, to board.Square) bool {
	step := 1
	if to < from {
		step = -1
	}
	df := int(to.File()) - int(from.File())
	if df < 0 {
		df = -df
	}
	for i := 1; i < df; i++ {
		sq, ok := from.Offset(i*step, 0)
		if !ok || !b.IsEmpty(sq) {
			return false
		}
	}
	return true
}
