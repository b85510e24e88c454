package session

// EventKind discriminates the payloads a Session pushes to a Transport,
// mirroring the S→C rows of spec.md §6's message table.
type EventKind int

const (
	EventGameInfo EventKind = iota
	EventGameState
	EventMoveConfirmed
	EventMoveRejected
	EventDrawOffered
	EventDrawAccepted
	EventDrawDeclined
	EventGameEnded
)

// EloProjection is the projected rating delta for a win/draw/loss outcome,
// carried from the External App Service's challenge payload (SPEC_FULL.md
// §7's Elo projected-change supplement).
type EloProjection struct {
	Win, Draw, Lose int
}

// GameInfo is the one-time payload sent to each player once both have
// bound (spec.md §4.6 step 5).
type GameInfo struct {
	SelfUsername, OpponentUsername   string
	SelfElo, OpponentElo             int
	SelfProjected, OpponentProjected EloProjection
	SelfIsWhite                      bool
}

// Event is a single notification pushed from Session.process to a bound
// Transport. Only the fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	Info *GameInfo // EventGameInfo

	Board string // EventGameState: textual board from this player's perspective

	Reason string // EventMoveRejected, EventGameEnded: human-readable reason
	Winner string // EventGameEnded: winning username, "" for a draw or Aborted
}
