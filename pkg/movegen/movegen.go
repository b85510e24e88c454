// Package movegen generates pseudo-legal destination squares for each chess
// piece kind: reachable by the piece's movement pattern, not self-blocked,
// and not off-board, but not yet screened for leaving the mover's own king
// in check (that filtering is pkg/rules's job). Each piece kind gets its own
// generator function taking the board and the piece explicitly — no
// inheritance, no Board<->Piece back-reference, per SPEC_FULL.md §6.2.
package movegen

import "github.com/relaychess/relaychess/pkg/board"

// PseudoLegalMoves dispatches to the generator for p.Kind and returns every
// pseudo-legal move for p on b.
func PseudoLegalMoves(b *board.Board, p *board.Piece) []board.Move {
	switch p.Kind {
	case board.Pawn:
		return pawnMoves(b, p)
	case board.Knight:
		return jumpMoves(b, p, knightOffsets)
	case board.Bishop:
		return slideMoves(b, p, bishopDirs)
	case board.Rook:
		return slideMoves(b, p, rookDirs)
	case board.Queen:
		return slideMoves(b, p, queenDirs)
	case board.King:
		return kingMoves(b, p)
	default:
		return nil
	}
}
