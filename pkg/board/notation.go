package board

import "strings"

// EncodeMove renders a move in the wire coordinate notation of §6: "from:to",
// e.g. "e2:e4". It is the Go-native replacement for the teacher's fen.Encode:
// this protocol has no PGN/FEN (§1 Non-goals), just this simple two-field
// grammar.
func EncodeMove(from, to Square) string {
	return from.String() + ":" + to.String()
}

// DecodeMove is the inverse of EncodeMove.
func DecodeMove(s string) (Move, error) {
	return ParseMove(s)
}

// Render returns a deterministic, human-readable view of the board from
// White's perspective (rank 8 at the top, file a at the left). Callers that
// need Black's perspective should call RenderFlipped.
func (b *Board) Render() string {
	return b.render(false)
}

// RenderFlipped returns the same view as Render but rotated 180 degrees, the
// natural orientation for the Black player.
func (b *Board) RenderFlipped() string {
	return b.render(true)
}

func (b *Board) render(flip bool) string {
	var sb strings.Builder
	ranks := make([]Rank, 0, NumRanks)
	for r := Rank8; ; r-- {
		ranks = append(ranks, r)
		if r == Rank1 {
			break
		}
	}
	if flip {
		for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
			ranks[i], ranks[j] = ranks[j], ranks[i]
		}
	}

	files := make([]File, 0, NumFiles)
	for f := FileA; f < NumFiles; f++ {
		files = append(files, f)
	}
	if flip {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}

	for _, r := range ranks {
		sb.WriteString(r.String())
		sb.WriteString(" ")
		for _, f := range files {
			if p, ok := b.At(NewSquare(f, r)); ok {
				sb.WriteString(p.String())
			} else {
				sb.WriteString(".")
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("  ")
	for _, f := range files {
		sb.WriteString(f.String())
		sb.WriteString(" ")
	}
	return sb.String()
}
