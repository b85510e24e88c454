// Package rules is the chess rules engine: legal-move filtering, castling
// and en-passant eligibility, move application, and terminal-state
// detection on top of pkg/board and pkg/movegen (§4.3). Engine is the only
// component permitted to call Board.Apply/Unapply.
package rules

import (
	"fmt"

	"github.com/relaychess/relaychess/pkg/board"
	"github.com/relaychess/relaychess/pkg/movegen"
)

// Engine wraps a single Board and owns every mutation of it, exactly as
// morlock's search package treats the Board it searches as privately owned
// by the search in progress.
type Engine struct {
	b *board.Board
}

// NewEngine returns an Engine over a fresh starting position.
func NewEngine() *Engine {
	return &Engine{b: board.NewBoard()}
}

// Board returns the underlying board for read-only queries (rendering,
// ledger inspection). Callers must not call Board.Apply/Unapply directly.
func (e *Engine) Board() *board.Board {
	return e.b
}

// IsAttacked reports whether sq is among the pseudo-legal destinations of
// any live piece of color by. Per §4.3.1/GLOSSARY: this is the definition
// of "attacked", and it is safe from recursion because pkg/movegen's King
// generator never calls back into pkg/rules — castling pseudo-moves are
// generated from static board state alone (§6.2).
func (e *Engine) IsAttacked(sq board.Square, by board.Color) bool {
	for _, p := range e.b.Pieces(by) {
		for _, m := range movegen.PseudoLegalMoves(e.b, p) {
			if m.To == sq {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether c's King is currently attacked.
func (e *Engine) InCheck(c board.Color) bool {
	return e.IsAttacked(e.b.King(c).Sq, c.Opponent())
}

// LegalMoves returns every legal move for the piece at sq, or nil if sq is
// empty or holds a piece of the color not on move. Every pseudo-legal
// candidate is probed independently via make/unmake (§9's corrected
// semantics for the source's possible_moves_if_check, which wrongly
// returned after the first candidate — see SPEC_FULL.md §9 OQ-4).
func (e *Engine) LegalMoves(sq board.Square) []board.Move {
	p, ok := e.b.At(sq)
	if !ok || p.Color != e.b.Turn() {
		return nil
	}

	var legal []board.Move
	for _, m := range movegen.PseudoLegalMoves(e.b, p) {
		if e.isLegal(p, m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// isLegal applies m in place, tests whether the mover's King ends up
// attacked, then unmakes it — the make/unmake alternative to deep-copy
// simulation (§9). Castling additionally requires the King not be in check
// and not pass through an attacked square (§4.3.2, §9 OQ-3's full-path
// correction); those squares are tested against the pre-move board, before
// the King or Rook have moved.
func (e *Engine) isLegal(p *board.Piece, m board.Move) bool {
	opp := p.Color.Opponent()

	if m.Type == board.KingSideCastle || m.Type == board.QueenSideCastle {
		if e.IsAttacked(p.Sq, opp) {
			return false
		}
		cross, _ := p.Sq.Offset(crossStep(m), 0)
		if e.IsAttacked(cross, opp) {
			return false
		}
	}

	e.b.Apply(m)
	safe := !e.IsAttacked(e.b.King(p.Color).Sq, opp)
	e.b.Unapply()
	return safe
}

func crossStep(m board.Move) int {
	if m.Type == board.KingSideCastle {
		return 1
	}
	return -1
}

// Apply validates m against LegalMoves(m.From) and, if legal, applies it and
// returns the resulting HalfMove. It never mutates the board for a move it
// rejects (§4.3.4).
func (e *Engine) Apply(m board.Move) (board.HalfMove, error) {
	p, ok := e.b.At(m.From)
	if !ok {
		return board.HalfMove{}, ErrNoPiece
	}
	if p.Color != e.b.Turn() {
		return board.HalfMove{}, ErrWrongColor
	}

	for _, candidate := range movegen.PseudoLegalMoves(e.b, p) {
		if candidate.Equals(m) && e.isLegal(p, candidate) {
			return e.b.Apply(candidate), nil
		}
	}
	return board.HalfMove{}, fmt.Errorf("%w: %v", ErrIllegalMove, m)
}
