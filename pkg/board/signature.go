package board

import "strings"

// Signature is the repetition key for a position: the sequence of
// (kind,color) tokens over the 64 squares, with an empty square
// distinguishable from any piece. It deliberately omits castling rights and
// en-passant state (per §4.1), matching the source this was distilled from
// and so reproducing its over-detection of repetition on purpose — see
// SPEC_FULL.md §9 OQ-1. A stricter signature that folds in castling/en
// passant would under-count real repetitions relative to the source but is
// not what this spec calls for.
type Signature string

// Signature computes the current position's repetition key.
func (b *Board) Signature() Signature {
	var sb strings.Builder
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		p, ok := b.At(sq)
		if !ok {
			sb.WriteByte('.')
			continue
		}
		if p.Color == White {
			sb.WriteByte(byte('A' + p.Kind))
		} else {
			sb.WriteByte(byte('a' + p.Kind))
		}
	}
	return Signature(sb.String())
}
