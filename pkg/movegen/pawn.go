package movegen

import "github.com/relaychess/relaychess/pkg/board"

// pawnMoves generates one-square and (from the starting rank) two-square
// forward pushes when the path is empty, diagonal forward captures, and
// en-passant diagonal captures per §4.2: a diagonal forward move onto an
// empty square is pseudo-legal iff the square alongside the destination
// (same file as the destination, same rank as the capturing pawn) holds an
// enemy pawn that was the opponent's most recent move and advanced two
// squares.
func pawnMoves(b *board.Board, p *board.Piece) []board.Move {
	var moves []board.Move
	dir := p.Color.PawnDirection()

	if one, ok := p.Sq.Offset(0, dir); ok && b.IsEmpty(one) {
		moves = append(moves, pawnMove(p.Sq, one, p.Color))
		if p.Sq.Rank() == p.Color.PawnStartRank() {
			if two, ok := p.Sq.Offset(0, 2*dir); ok && b.IsEmpty(two) {
				moves = append(moves, board.Move{Type: board.Push, From: p.Sq, To: two})
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		diag, ok := p.Sq.Offset(df, dir)
		if !ok {
			continue
		}
		if occ, present := b.At(diag); present {
			if occ.Color != p.Color {
				moves = append(moves, captureOrPromote(p.Sq, diag, p.Color))
			}
			continue
		}

		// Diagonal move to an empty square: only legal as en passant.
		alongside, ok := diag.Offset(0, -dir)
		if !ok {
			continue
		}
		victim, present := b.At(alongside)
		if !present || victim.Kind != board.Pawn || victim.Color == p.Color {
			continue
		}
		last, ok := b.LastMoveBy(victim.Color)
		if !ok || last.To != alongside {
			continue
		}
		if abs(int(last.From.Rank())-int(last.To.Rank())) != 2 {
			continue
		}
		moves = append(moves, board.Move{Type: board.EnPassant, From: p.Sq, To: diag})
	}

	return moves
}

func pawnMove(from, to board.Square, c board.Color) board.Move {
	if to.Rank() == c.PromotionRank() {
		return board.Move{Type: board.Promotion, From: from, To: to, Promotion: board.Queen}
	}
	return board.Move{Type: board.Push, From: from, To: to}
}

func captureOrPromote(from, to board.Square, c board.Color) board.Move {
	if to.Rank() == c.PromotionRank() {
		return board.Move{Type: board.CapturePromotion, From: from, To: to, Promotion: board.Queen}
	}
	return board.Move{Type: board.Capture, From: from, To: to}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
