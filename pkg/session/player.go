package session

import "github.com/relaychess/relaychess/pkg/board"

// Transport is a Session's view of a connected client: enough to address it
// and push it events. pkg/transport implements this over a websocket
// connection; translating Event values to/from wire JSON is its job, not
// Session's (spec.md §4.6: "message translation is purely mechanical; no
// chess logic here").
type Transport interface {
	// Send delivers an event to the client. Implementations should not
	// block the caller indefinitely; Session.process is single-threaded and
	// a stuck transport stalls the whole game.
	Send(event Event)
}

// Player is one of the two bound participants (spec.md §3).
type Player struct {
	Username  string
	Elo       int
	Color     board.Color
	Transport Transport

	projected EloProjection // this player's projected Elo delta (win/draw/lose)
}
