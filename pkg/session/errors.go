package session

import "errors"

// Sentinel errors distinguished by callers with errors.Is, mirroring
// search.ErrHalted in the teacher's pkg/search (see pkg/rules/errors.go).
var (
	// ErrAlreadyBound is returned by Bind when both player slots are taken.
	ErrAlreadyBound = errors.New("session: both players already bound")
	// ErrUnknownTransport is returned when an operation is invoked by a
	// transport that is not one of the two bound players (§7 error kind 4).
	ErrUnknownTransport = errors.New("session: transport not bound to this session")
	// ErrNotInProgress is returned when a move or draw operation is attempted
	// outside the InProgress state.
	ErrNotInProgress = errors.New("session: game is not in progress")
	// ErrWrongTurn is returned when a player submits a move out of turn.
	ErrWrongTurn = errors.New("session: not this player's turn")
	// ErrClosed is returned by any command sent to a Session after it has
	// closed its command channel.
	ErrClosed = errors.New("session: closed")
	// ErrNoDrawOffer is returned by RespondDraw when no draw offer is
	// outstanding.
	ErrNoDrawOffer = errors.New("session: no draw offer outstanding")
)
