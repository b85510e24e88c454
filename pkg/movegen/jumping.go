package movegen

import "github.com/relaychess/relaychess/pkg/board"

var knightOffsets = [][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// jumpMoves adds each target square that is in-bounds and not
// friendly-occupied. Used by Knight and (for its single-step moves) King.
func jumpMoves(b *board.Board, p *board.Piece, offsets [][2]int) []board.Move {
	var moves []board.Move
	for _, o := range offsets {
		sq, ok := p.Sq.Offset(o[0], o[1])
		if !ok {
			continue
		}
		occ, present := b.At(sq)
		switch {
		case !present:
			moves = append(moves, board.Move{Type: board.Normal, From: p.Sq, To: sq})
		case occ.Color != p.Color:
			moves = append(moves, board.Move{Type: board.Capture, From: p.Sq, To: sq})
		}
	}
	return moves
}
