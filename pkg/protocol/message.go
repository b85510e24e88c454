// Package protocol is the JSON wire encoding for the client protocol
// (spec.md §6): a discriminated envelope with a "type" field, one Go struct
// per message kind. Translation between Message and pkg/session's Event/
// command types is purely mechanical (spec.md §4.6) and lives in
// pkg/transport, not here.
package protocol

import "encoding/json"

// Type discriminates a Message's payload.
type Type string

const (
	TypeLogin         Type = "login"
	TypeLoginResult   Type = "login_result"
	TypeGameInfo      Type = "game_info"
	TypeGameState     Type = "game_state"
	TypeMove          Type = "move"
	TypeMoveConfirmed Type = "move_confirmed"
	TypeMoveRejected  Type = "move_rejected"
	TypeOfferDraw     Type = "offer_draw"
	TypeDrawOffered   Type = "draw_offered"
	TypeAcceptDraw    Type = "accept_draw"
	TypeDeclineDraw   Type = "decline_draw"
	TypeDrawAccepted  Type = "draw_accepted"
	TypeDrawDeclined  Type = "draw_declined"
	TypeResign        Type = "resign"
	TypeGameEnded     Type = "game_ended"
)

// Message is the envelope every wire frame is encoded as: {"type": ...,
// plus whichever payload fields that type uses}. Unused fields are omitted
// from the encoded JSON via omitempty.
type Message struct {
	Type Type `json:"type"`

	// C->S login
	GameID   string `json:"game_id,omitempty"`
	Username string `json:"username,omitempty"`

	// S->C login_result
	OK        bool   `json:"ok,omitempty"`
	ErrorText string `json:"error_text,omitempty"`

	// S->C game_info
	SelfUsername         string    `json:"self_username,omitempty"`
	SelfElo              int       `json:"self_elo,omitempty"`
	SelfProjectedElo     *EloDelta `json:"self_projected_elo,omitempty"`
	OpponentUsername     string    `json:"opponent_username,omitempty"`
	OpponentElo          int       `json:"opponent_elo,omitempty"`
	OpponentProjectedElo *EloDelta `json:"opponent_projected_elo,omitempty"`
	SelfIsWhite          bool      `json:"self_is_white,omitempty"`

	// S->C game_state
	Board string `json:"board,omitempty"`

	// C->S move
	From string `json:"from_square,omitempty"`
	To   string `json:"to_square,omitempty"`

	// S->C move_rejected, game_ended
	Reason string `json:"reason,omitempty"`

	// C->S accept_draw/decline_draw has no payload; S->C game_ended
	Winner string `json:"winner_username,omitempty"`
}

// EloDelta is the projected rating change for a win/draw/lose outcome.
type EloDelta struct {
	Win  float64 `json:"win"`
	Draw float64 `json:"draw"`
	Lose float64 `json:"lose"`
}

// Encode marshals m to a single JSON line.
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// Decode unmarshals a single JSON line into a Message.
func Decode(data []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(data, &m)
	return m, err
}
