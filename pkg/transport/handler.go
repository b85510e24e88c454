package transport

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/relaychess/relaychess/pkg/appservice"
	"github.com/relaychess/relaychess/pkg/board"
	"github.com/relaychess/relaychess/pkg/protocol"
	"github.com/relaychess/relaychess/pkg/registry"
	"github.com/relaychess/relaychess/pkg/session"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// Deps are the process-wide collaborators a Handler needs to service a
// connection (spec.md §4.6): the Session Registry and the External
// Collaborators Adapter.
type Deps struct {
	Registry   *registry.Registry
	AppService *appservice.Client
}

// Handler drives one accepted websocket connection end to end: login,
// bind, and the message loop (spec.md §4.6). Construct one per connection
// via NewHandler and call Run.
type Handler struct {
	deps Deps
	conn *websocket.Conn

	out    chan string
	closed atomic.Bool

	sess *session.Session
	self session.Transport
}

// NewHandler wraps an accepted websocket connection.
func NewHandler(deps Deps, conn *websocket.Conn) *Handler {
	return &Handler{deps: deps, conn: conn, out: make(chan string, 16)}
}

// Run services the connection until it closes or the Session it binds to
// reaches Terminal. It blocks until the connection is done.
func (h *Handler) Run(ctx context.Context) {
	defer h.conn.Close()

	in := ReadSocketLines(ctx, h.conn)
	written := make(chan struct{})
	go func() {
		defer close(written)
		WriteSocketLines(ctx, h.conn, h.out)
	}()
	defer func() {
		h.stop()
		<-written // flush queued frames (e.g. game_ended) before conn closes
	}()

	gameID, username, ch, ok := h.login(ctx, in)
	if !ok {
		return
	}

	h.self = &connTransport{out: h.out, closed: &h.closed}
	h.sess = h.deps.Registry.GetOrCreate(ctx, gameID, h.onTerminal(ctx, gameID))

	if _, err := h.sess.Bind(username, eloFor(ch, username), projectedFor(ch, username), h.self); err != nil {
		h.sendLoginResult(false, err.Error())
		return
	}
	h.sendLoginResult(true, "")
	// The game_info/game_state payloads (spec.md §4.6 step 5) are sent by
	// Session.bind once both players are bound, via connTransport.Send; a
	// lone first player waits in AwaitingSecondPlayer until then.

	h.loop(in)
}

// login retries the game_id/username handshake (spec.md §4.6 steps 1-3)
// until a valid challenge and matching username arrive, or the connection
// closes.
func (h *Handler) login(ctx context.Context, in <-chan string) (gameID, username string, ch appservice.Challenge, ok bool) {
	for line := range in {
		msg, err := protocol.Decode([]byte(line))
		if err != nil || msg.Type != protocol.TypeLogin {
			h.sendLoginResult(false, "expected login message")
			continue
		}

		c, err := h.deps.AppService.FetchChallenge(ctx, msg.GameID)
		if err != nil {
			logw.Warningf(ctx, "transport: fetch challenge %v: %v", msg.GameID, err)
			h.sendLoginResult(false, "unknown or unavailable game id, retry")
			continue
		}
		if msg.Username != c.FromUser.Username && msg.Username != c.ToUser.Username {
			h.sendLoginResult(false, "username does not match this challenge")
			continue
		}
		return msg.GameID, msg.Username, c, true
	}
	return "", "", appservice.Challenge{}, false
}

// loop is step 6: read client messages, translate to Session operations,
// until the connection or the Session closes.
func (h *Handler) loop(in <-chan string) {
	for {
		select {
		case line, ok := <-in:
			if !ok {
				h.disconnect()
				return
			}
			if err := h.dispatch(line); err != nil {
				h.self.Send(session.Event{Kind: session.EventMoveRejected, Reason: err.Error()})
			}
		case <-h.sess.Closed():
			return
		}
	}
}

func (h *Handler) dispatch(line string) error {
	msg, err := protocol.Decode([]byte(line))
	if err != nil {
		return fmt.Errorf("malformed message: %w", err)
	}

	switch msg.Type {
	case protocol.TypeMove:
		from, err := board.ParseSquareStr(msg.From)
		if err != nil {
			return err
		}
		to, err := board.ParseSquareStr(msg.To)
		if err != nil {
			return err
		}
		return h.sess.SubmitMove(h.self, board.Move{From: from, To: to, Promotion: board.Queen})
	case protocol.TypeOfferDraw:
		return h.sess.OfferDraw(h.self)
	case protocol.TypeAcceptDraw:
		return h.sess.RespondDraw(h.self, true)
	case protocol.TypeDeclineDraw:
		return h.sess.RespondDraw(h.self, false)
	case protocol.TypeResign:
		return h.sess.Resign(h.self)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func (h *Handler) disconnect() {
	if h.sess != nil {
		h.sess.Disconnect(h.self)
	}
}

// onTerminal wires the App Service result post into the Session's terminal
// transition, as required by spec.md §4.4/§4.6: the post happens once,
// before the Session closes, regardless of any one connection's fate.
func (h *Handler) onTerminal(ctx context.Context, gameID string) func(session.Result) {
	return func(result session.Result) {
		if result.Reason != session.Aborted {
			if err := h.deps.AppService.PostResultWithRetry(ctx, gameID, result.Winner); err != nil {
				logw.Warningf(ctx, "transport: post result %v: %v", gameID, err)
			}
		}
		h.deps.Registry.Remove(gameID)
	}
}

func (h *Handler) stop() {
	if h.closed.CAS(false, true) {
		close(h.out)
	}
}

func (h *Handler) sendLoginResult(ok bool, errText string) {
	h.send(protocol.Message{Type: protocol.TypeLoginResult, OK: ok, ErrorText: errText})
}

func (h *Handler) send(m protocol.Message) {
	data, err := protocol.Encode(m)
	if err != nil {
		return
	}
	h.out <- string(data)
}

func eloFor(ch appservice.Challenge, username string) int {
	if username == ch.ToUser.Username {
		return ch.ToUser.Elo
	}
	return ch.FromUser.Elo
}

func projectedFor(ch appservice.Challenge, username string) session.EloProjection {
	d := ch.EloRatingChanges[username]
	return session.EloProjection{Win: int(d.Win), Draw: int(d.Draw), Lose: int(d.Lose)}
}

// connTransport adapts a websocket connection's outbound line channel to
// session.Transport, translating Session events to wire messages
// (spec.md §4.6: "message translation is purely mechanical"). closed guards
// against sending on out after Handler.stop has closed it, which can
// happen if the Session delivers a final broadcast as the connection is
// tearing down on its own side.
type connTransport struct {
	out    chan<- string
	closed *atomic.Bool
}

func (t *connTransport) Send(e session.Event) {
	if t.closed.Load() {
		return
	}

	m := protocol.Message{Reason: e.Reason, Winner: e.Winner, Board: e.Board}

	switch e.Kind {
	case session.EventGameInfo:
		m.Type = protocol.TypeGameInfo
		m.SelfUsername = e.Info.SelfUsername
		m.SelfElo = e.Info.SelfElo
		m.SelfProjectedElo = &protocol.EloDelta{Win: float64(e.Info.SelfProjected.Win), Draw: float64(e.Info.SelfProjected.Draw), Lose: float64(e.Info.SelfProjected.Lose)}
		m.OpponentUsername = e.Info.OpponentUsername
		m.OpponentElo = e.Info.OpponentElo
		m.OpponentProjectedElo = &protocol.EloDelta{Win: float64(e.Info.OpponentProjected.Win), Draw: float64(e.Info.OpponentProjected.Draw), Lose: float64(e.Info.OpponentProjected.Lose)}
		m.SelfIsWhite = e.Info.SelfIsWhite
	case session.EventGameState:
		m.Type = protocol.TypeGameState
	case session.EventMoveConfirmed:
		m.Type = protocol.TypeMoveConfirmed
	case session.EventMoveRejected:
		m.Type = protocol.TypeMoveRejected
	case session.EventDrawOffered:
		m.Type = protocol.TypeDrawOffered
	case session.EventDrawAccepted:
		m.Type = protocol.TypeDrawAccepted
	case session.EventDrawDeclined:
		m.Type = protocol.TypeDrawDeclined
	case session.EventGameEnded:
		m.Type = protocol.TypeGameEnded
	}

	data, err := protocol.Encode(m)
	if err != nil {
		return
	}
	t.out <- string(data)
}
