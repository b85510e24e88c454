// Package board contains the chess board representation: the piece grid,
// per-color piece registry, move ledger, and repetition/fifty-move
// bookkeeping. It is pure data plus the move-application primitive; move
// legality and terminal-state detection live in pkg/rules, which is the
// only intended caller of Apply/Unapply.
package board

import (
	"fmt"
	"strings"
)

const (
	// repetitionLimit is the occurrence count of a position that triggers a
	// draw by threefold repetition.
	repetitionLimit = 3
	// noProgressLimit is the half-move count since the last pawn move or
	// capture that triggers a draw by the fifty-move rule. The source this
	// was distilled from uses 50 (half that); this follows the standard.
	// See SPEC_FULL.md §9 OQ-2.
	noProgressLimit = 100
)

// undo holds the private state needed to reverse one Apply call. It is kept
// separate from the public HalfMove ledger entry so that callers reading
// Ledger() see only the documented, immutable facts of §3.
type undo struct {
	mover            *Piece
	moverPrevLast    int
	captured         *Piece
	rook             *Piece // moved by castling, nil otherwise
	rookFrom, rookTo Square
	rookPrevLast     int
	prevNoProgress   int
	prevLastMoveBy   HalfMove
	prevHasLastMove  bool
}

// Board is a mutable chess position plus enough history to answer draw
// questions: an 8x8 grid of pieces, a per-color live-piece registry, king and
// original-rook pointers for castling, a move ledger, and a repetition
// ledger keyed by Signature. Not safe for concurrent use; a Board is owned
// exclusively by one pkg/rules.Engine, which is owned exclusively by one
// pkg/session.Session (§5).
type Board struct {
	grid  [NumSquares]*Piece
	live  [NumColors][]*Piece
	king  [NumColors]*Piece
	rookA [NumColors]*Piece // original a-file rook, for queen-side castling
	rookH [NumColors]*Piece // original h-file rook, for king-side castling

	turn       Color
	ledger     []HalfMove
	undoStack  []undo
	repeats    map[Signature]int
	noProgress int

	lastMoveBy    [NumColors]HalfMove
	hasLastMoveBy [NumColors]bool
}

// NewBoard returns a board set up in the standard starting position, White
// to move.
func NewBoard() *Board {
	b := &Board{
		turn:    White,
		repeats: map[Signature]int{},
	}
	b.setupBackRank(White, Rank1)
	b.setupPawns(White, Rank2)
	b.setupPawns(Black, Rank7)
	b.setupBackRank(Black, Rank8)
	b.repeats[b.Signature()] = 1
	return b
}

func (b *Board) setupBackRank(c Color, r Rank) {
	order := [NumFiles]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := FileA; f < NumFiles; f++ {
		p := b.place(NewSquare(f, r), c, order[f])
		switch f {
		case FileA:
			b.rookA[c] = p
		case FileH:
			b.rookH[c] = p
		case FileE:
			b.king[c] = p
		}
	}
}

func (b *Board) setupPawns(c Color, r Rank) {
	for f := FileA; f < NumFiles; f++ {
		b.place(NewSquare(f, r), c, Pawn)
	}
}

func (b *Board) place(sq Square, c Color, k Kind) *Piece {
	p := &Piece{Kind: k, Color: c, Sq: sq, LastMove: noLastMove}
	b.grid[sq] = p
	b.live[c] = append(b.live[c], p)
	return p
}

// Turn returns the color on move.
func (b *Board) Turn() Color {
	return b.turn
}

// Ply returns the half-move ordinal about to be played (0-based).
func (b *Board) Ply() int {
	return len(b.ledger)
}

// NoProgress returns the number of half-moves since the last pawn move or
// capture.
func (b *Board) NoProgress() int {
	return b.noProgress
}

// At returns the piece on sq, if any.
func (b *Board) At(sq Square) (*Piece, bool) {
	p := b.grid[sq]
	return p, p != nil
}

// IsEmpty reports whether sq holds no piece.
func (b *Board) IsEmpty(sq Square) bool {
	return b.grid[sq] == nil
}

// Pieces returns the live (not captured) pieces of the given color. Captured
// pieces stay in the backing slice (Unapply restores them in place) but are
// filtered out here to satisfy §3's "captured implies not in the live set"
// invariant.
func (b *Board) Pieces(c Color) []*Piece {
	live := make([]*Piece, 0, len(b.live[c]))
	for _, p := range b.live[c] {
		if !p.Captured {
			live = append(live, p)
		}
	}
	return live
}

// King returns the color's king.
func (b *Board) King(c Color) *Piece {
	return b.king[c]
}

// RookForCastle returns the original rook on the given side, if it is still
// present (not captured) and has never moved.
func (b *Board) RookForCastle(c Color, kingSide bool) (*Piece, bool) {
	r := b.rookA[c]
	if kingSide {
		r = b.rookH[c]
	}
	if r == nil || r.Captured || r.HasMoved() {
		return nil, false
	}
	return r, true
}

// LastMoveBy returns the most recent half-move made by c, if any. Consulted
// to detect en-passant eligibility: only the immediately preceding half-move
// by the opponent can be captured en passant.
func (b *Board) LastMoveBy(c Color) (HalfMove, bool) {
	return b.lastMoveBy[c], b.hasLastMoveBy[c]
}

// Ledger returns the full applied-move history. The returned slice must not
// be mutated.
func (b *Board) Ledger() []HalfMove {
	return b.ledger
}

// RepeatCount returns the number of times the current position has occurred
// so far in the game.
func (b *Board) RepeatCount() int {
	return b.repeats[b.Signature()]
}

// Apply performs a pseudo-legal move's side effects per §4.3.3: capture
// removal, en-passant removal, castling rook relocation, promotion, piece
// relocation, and ledger/repetition/fifty-move bookkeeping. It does not
// check legality (whether the mover's own king ends up attacked) — that is
// pkg/rules.Engine's responsibility, using Apply/Unapply as its make/unmake
// primitive (§9).
func (b *Board) Apply(m Move) HalfMove {
	mover, ok := b.At(m.From)
	if !ok {
		panic(fmt.Sprintf("board: Apply: no piece at %v", m.From))
	}

	u := undo{
		mover:          mover,
		moverPrevLast:  mover.LastMove,
		prevNoProgress: b.noProgress,
		prevLastMoveBy: b.lastMoveBy[mover.Color],
		prevHasLastMove: b.hasLastMoveBy[mover.Color],
	}

	half := HalfMove{
		Type:      m.Type,
		From:      m.From,
		To:        m.To,
		Mover:     mover.Color,
		Index:     b.Ply(),
		Promotion: m.Promotion,
	}

	resetNoProgress := mover.Kind == Pawn

	// (1) Capture removal (normal or en passant).
	capturedAt := m.To
	if m.Type == EnPassant {
		capturedAt, _ = m.To.Offset(0, -mover.Color.PawnDirection())
	}
	if m.Type == Capture || m.Type == CapturePromotion || m.Type == EnPassant {
		captured, _ := b.At(capturedAt)
		b.removePiece(captured)
		u.captured = captured
		half.Captured = captured.Kind
		half.CapturedAt = capturedAt
		resetNoProgress = true
	}

	// (2) Castling rook relocation.
	if m.Type == QueenSideCastle || m.Type == KingSideCastle {
		rook, _ := b.RookForCastle(mover.Color, m.Type == KingSideCastle)
		rookTo, _ := m.To.Offset(-1, 0)
		if m.Type == QueenSideCastle {
			rookTo, _ = m.To.Offset(1, 0)
		}
		u.rook = rook
		u.rookFrom = rook.Sq
		u.rookTo = rookTo
		u.rookPrevLast = rook.LastMove
		b.relocate(rook, rookTo)
		rook.LastMove = half.Index
	}

	// (3) Promotion.
	if m.Type == Promotion || m.Type == CapturePromotion {
		mover.Kind = m.Promotion
	}

	// (4) Move the piece itself.
	b.relocate(mover, m.To)
	mover.LastMove = half.Index

	// (5) Ledger + turn + bookkeeping.
	b.ledger = append(b.ledger, half)
	b.undoStack = append(b.undoStack, u)

	b.lastMoveBy[mover.Color] = half
	b.hasLastMoveBy[mover.Color] = true

	if resetNoProgress {
		b.noProgress = 0
	} else {
		b.noProgress++
	}

	b.turn = b.turn.Opponent()
	b.repeats[b.Signature()]++

	return half
}

// Unapply reverses the most recent Apply call. It panics if there is no
// applied move to reverse — pkg/rules.Engine only calls it after a matching
// Apply within the same legality probe.
func (b *Board) Unapply() HalfMove {
	n := len(b.ledger)
	if n == 0 {
		panic("board: Unapply: no move to undo")
	}
	half := b.ledger[n-1]
	u := b.undoStack[n-1]
	b.ledger = b.ledger[:n-1]
	b.undoStack = b.undoStack[:n-1]

	b.repeats[b.Signature()]--
	b.turn = b.turn.Opponent()

	// Reverse promotion first so relocate restores the pre-promotion kind.
	if half.Type == Promotion || half.Type == CapturePromotion {
		u.mover.Kind = Pawn
	}

	b.relocate(u.mover, half.From)
	u.mover.LastMove = u.moverPrevLast

	if u.rook != nil {
		b.relocate(u.rook, u.rookFrom)
		u.rook.LastMove = u.rookPrevLast
	}

	if u.captured != nil {
		b.restorePiece(u.captured)
	}

	b.noProgress = u.prevNoProgress
	b.lastMoveBy[half.Mover] = u.prevLastMoveBy
	b.hasLastMoveBy[half.Mover] = u.prevHasLastMove

	return half
}

func (b *Board) relocate(p *Piece, to Square) {
	b.grid[p.Sq] = nil
	p.Sq = to
	b.grid[to] = p
}

func (b *Board) removePiece(p *Piece) {
	p.Captured = true
	b.grid[p.Sq] = nil
}

func (b *Board) restorePiece(p *Piece) {
	p.Captured = false
	b.grid[p.Sq] = p
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := Rank8; ; r-- {
		for f := FileA; f < NumFiles; f++ {
			if p, ok := b.At(NewSquare(f, r)); ok {
				sb.WriteString(p.String())
			} else {
				sb.WriteString(".")
			}
		}
		if r == Rank1 {
			break
		}
		sb.WriteString("/")
	}
	return fmt.Sprintf("%v turn=%v noprogress=%v ply=%v", sb.String(), b.turn, b.noProgress, b.Ply())
}
