// Package session implements the per-game Session state machine (spec.md
// §4.4): it owns a Rules Engine, the two bound Players, and serializes every
// move and game-control command onto one goroutine, generalizing the
// teacher's uci/console Driver pattern (an inbound channel drained by a
// single process loop) from a one-transport protocol driver to a
// two-transport game.
package session

import (
	"context"
	"time"

	"github.com/relaychess/relaychess/pkg/board"
	"github.com/relaychess/relaychess/pkg/rules"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Session is one live (or just-finished) game. The game operations (Bind,
// SubmitMove, OfferDraw, RespondDraw, Resign, ViewerBoard, Disconnect) are
// safe for concurrent use by the two connection-handler goroutines; every
// one of them hands a closure to the single process goroutine over cmds and
// waits for it to run, so Board and Engine are touched by exactly one
// goroutine at a time (spec.md §5). GameID and Result read fields directly.
type Session struct {
	iox.AsyncCloser

	gameID     string
	onTerminal func(Result)
	cmds       chan command

	// Owned exclusively by process; never touched from exported methods
	// directly.
	state        State
	players      [board.NumColors]*Player
	disconnected [board.NumColors]bool
	numBound     int
	engine       *rules.Engine
	result       Result
	drawOffer    *board.Color
}

// NewSession starts a Session's process goroutine and returns immediately.
// onTerminal, if non-nil, is invoked once from inside process when the game
// reaches Terminal, after both transports have been sent the game_ended
// event but before the Session closes itself — this is where a caller wires
// in the External App Service result post (spec.md §4.4/§6).
func NewSession(ctx context.Context, gameID string, onTerminal func(Result)) *Session {
	s := &Session{
		AsyncCloser: iox.NewAsyncCloser(),
		gameID:      gameID,
		onTerminal:  onTerminal,
		cmds:        make(chan command, 16),
		engine:      rules.NewEngine(),
	}
	go s.process(ctx)
	return s
}

// GameID returns the session's game identifier.
func (s *Session) GameID() string {
	return s.gameID
}

func (s *Session) process(ctx context.Context) {
	defer s.Close()

	logw.Infof(ctx, "session %v: created", s.gameID)
	for {
		select {
		case cmd, ok := <-s.cmds:
			if !ok {
				return
			}
			cmd.fn(s)
			cmd.reply <- struct{}{}
			if s.state == Terminal {
				return
			}

		case <-s.Closed():
			logw.Infof(ctx, "session %v: closed", s.gameID)
			return
		}
	}
}

// submit hands fn to process and waits for it to run. It returns false,
// running fn zero times, if the session is already closed — this is what
// makes post-removal deliveries no-ops per spec.md §4.5.
func (s *Session) submit(fn func(s *Session)) bool {
	cmd := newCommand(fn)
	select {
	case s.cmds <- cmd:
	case <-s.Closed():
		return false
	}
	select {
	case <-cmd.reply:
		return true
	case <-s.Closed():
		// process replies before it closes, so a command that ran has its
		// reply waiting here.
		select {
		case <-cmd.reply:
			return true
		default:
			return false
		}
	}
}

// Bind attaches a transport and identity to the session: the first caller
// becomes White, the second Black, and a third fails with ErrAlreadyBound
// (spec.md §4.4 bind_player).
func (s *Session) Bind(username string, elo int, projected EloProjection, t Transport) (board.Color, error) {
	var color board.Color
	var err error
	if !s.submit(func(sess *Session) { color, err = sess.bind(username, elo, projected, t) }) {
		return 0, ErrClosed
	}
	return color, err
}

func (s *Session) bind(username string, elo int, projected EloProjection, t Transport) (board.Color, error) {
	if s.numBound >= 2 {
		return 0, ErrAlreadyBound
	}

	color := board.White
	if s.numBound == 1 {
		color = board.Black
	}
	s.players[color] = &Player{Username: username, Elo: elo, Color: color, Transport: t, projected: projected}
	s.numBound++

	if s.numBound < 2 {
		s.state = AwaitingSecondPlayer
		return color, nil
	}

	s.state = InProgress
	s.broadcastGameInfo()
	s.broadcastGameState()
	return color, nil
}

// SubmitMove validates t owns the side to move, validates the move under
// the Rules Engine, applies it, and checks terminal conditions (spec.md
// §4.4 submit_move).
func (s *Session) SubmitMove(t Transport, m board.Move) error {
	var err error
	if !s.submit(func(sess *Session) { err = sess.submitMove(m, t) }) {
		return ErrClosed
	}
	return err
}

func (s *Session) submitMove(m board.Move, t Transport) error {
	p, ok := s.playerFor(t)
	if !ok {
		return ErrUnknownTransport
	}
	if s.state != InProgress {
		return ErrNotInProgress
	}
	if p.Color != s.engine.Board().Turn() {
		p.Transport.Send(Event{Kind: EventMoveRejected, Reason: ErrWrongTurn.Error()})
		return ErrWrongTurn
	}

	if _, err := s.engine.Apply(m); err != nil {
		p.Transport.Send(Event{Kind: EventMoveRejected, Reason: err.Error()})
		return err
	}

	p.Transport.Send(Event{Kind: EventMoveConfirmed})
	s.broadcastGameState()

	if outcome := s.engine.Status(); outcome != rules.Ongoing {
		s.enterTerminal(s.outcomeToResult(outcome, p.Color))
	}
	return nil
}

// OfferDraw notifies the opponent of a draw offer and acknowledges the
// sender. A second offer silently overrides the first (SPEC_FULL.md §7).
func (s *Session) OfferDraw(t Transport) error {
	var err error
	if !s.submit(func(sess *Session) { err = sess.offerDraw(t) }) {
		return ErrClosed
	}
	return err
}

func (s *Session) offerDraw(t Transport) error {
	p, ok := s.playerFor(t)
	if !ok {
		return ErrUnknownTransport
	}
	if s.state != InProgress {
		return ErrNotInProgress
	}

	c := p.Color
	s.drawOffer = &c

	s.players[c.Opponent()].Transport.Send(Event{Kind: EventDrawOffered})
	p.Transport.Send(Event{Kind: EventDrawOffered, Reason: "sent"})
	return nil
}

// RespondDraw accepts or declines the single outstanding draw offer (spec.md
// §4.4 respond_draw).
func (s *Session) RespondDraw(t Transport, accept bool) error {
	var err error
	if !s.submit(func(sess *Session) { err = sess.respondDraw(t, accept) }) {
		return ErrClosed
	}
	return err
}

func (s *Session) respondDraw(t Transport, accept bool) error {
	p, ok := s.playerFor(t)
	if !ok {
		return ErrUnknownTransport
	}
	if s.state != InProgress {
		return ErrNotInProgress
	}
	if s.drawOffer == nil {
		return ErrNoDrawOffer
	}
	offering := s.players[*s.drawOffer]
	s.drawOffer = nil

	if !accept {
		offering.Transport.Send(Event{Kind: EventDrawDeclined})
		return nil
	}

	s.broadcastEvent(Event{Kind: EventDrawAccepted})
	s.enterTerminal(Result{Reason: DrawByAgreement})
	return nil
}

// Resign transitions the session to Terminal with the caller's opponent as
// winner (spec.md §4.4 resign).
func (s *Session) Resign(t Transport) error {
	var err error
	if !s.submit(func(sess *Session) { err = sess.resign(t) }) {
		return ErrClosed
	}
	return err
}

func (s *Session) resign(t Transport) error {
	p, ok := s.playerFor(t)
	if !ok {
		return ErrUnknownTransport
	}
	if s.state != InProgress {
		return ErrNotInProgress
	}

	opponent := s.players[p.Color.Opponent()]
	s.enterTerminal(Result{Reason: Resigned, Winner: opponent.Username})
	return nil
}

// ViewerBoard returns a human-readable rendering of the board from t's
// owner's perspective (spec.md §4.4 viewer_board).
func (s *Session) ViewerBoard(t Transport) (string, error) {
	var out string
	var err error
	if !s.submit(func(sess *Session) { out, err = sess.viewerBoard(t) }) {
		return "", ErrClosed
	}
	return out, err
}

func (s *Session) viewerBoard(t Transport) (string, error) {
	p, ok := s.playerFor(t)
	if !ok {
		return "", ErrUnknownTransport
	}
	if p.Color == board.White {
		return s.engine.Board().Render(), nil
	}
	return s.engine.Board().RenderFlipped(), nil
}

// disconnectGrace is how long disconnect() waits, after marking one color
// disconnected, before committing to resignation. Both transports in a
// pair commonly die together (shared socket, network blip); without this
// window the first disconnect to be processed would close the session as
// a resignation before the second transport's own Disconnect call — sent
// from an independent connection-handler goroutine — ever reaches
// process, making the Aborted path unreachable (spec.md §5).
const disconnectGrace = 150 * time.Millisecond

// Disconnect is called by the Connection Handler when t's transport closes.
// Per spec.md §5's cancellation rules: if the opponent is still connected,
// this is treated as resignation; if both transports have now closed, the
// session Aborts with no authoritative winner.
func (s *Session) Disconnect(t Transport) {
	s.submit(func(sess *Session) { sess.disconnect(t) })
}

func (s *Session) disconnect(t Transport) {
	p, ok := s.playerFor(t)
	if !ok || s.state == Terminal {
		return
	}
	s.disconnected[p.Color] = true

	if s.disconnected[p.Color.Opponent()] {
		s.enterTerminal(Result{Reason: Aborted})
		return
	}
	if s.state != InProgress {
		return
	}

	color := p.Color
	time.AfterFunc(disconnectGrace, func() {
		s.submit(func(sess *Session) { sess.resolveDisconnect(color) })
	})
}

// resolveDisconnect runs disconnectGrace after color's transport dropped. If
// the opponent has since disconnected too, the session Aborts; otherwise
// color's disconnect stands as a resignation.
func (s *Session) resolveDisconnect(color board.Color) {
	if s.state == Terminal || !s.disconnected[color] {
		return
	}
	if s.disconnected[color.Opponent()] {
		s.enterTerminal(Result{Reason: Aborted})
		return
	}

	opponent := s.players[color.Opponent()]
	s.enterTerminal(Result{Reason: Resigned, Winner: opponent.Username})
}

// Result returns the terminal result, valid once the session has reached
// Terminal.
func (s *Session) Result() Result {
	return s.result
}

func (s *Session) playerFor(t Transport) (*Player, bool) {
	for _, p := range s.players {
		if p != nil && p.Transport == t {
			return p, true
		}
	}
	return nil, false
}

func (s *Session) outcomeToResult(outcome rules.Outcome, mover board.Color) Result {
	switch outcome {
	case rules.Checkmate:
		return Result{Reason: CheckmateWin, Winner: s.players[mover].Username}
	case rules.Stalemate:
		return Result{Reason: DrawByStalemate}
	case rules.Repetition:
		return Result{Reason: DrawByRepetition}
	case rules.FiftyMove:
		return Result{Reason: DrawByFiftyMoveRule}
	default:
		return Result{Reason: NotTerminal}
	}
}

func (s *Session) enterTerminal(result Result) {
	if s.state == Terminal {
		return
	}
	s.state = Terminal
	s.result = result
	s.broadcastEvent(Event{Kind: EventGameEnded, Reason: result.Reason.String(), Winner: result.Winner})

	if s.onTerminal != nil {
		s.onTerminal(result)
	}
}

func (s *Session) broadcastEvent(e Event) {
	for _, p := range s.players {
		if p != nil {
			p.Transport.Send(e)
		}
	}
}

func (s *Session) broadcastGameState() {
	if p := s.players[board.White]; p != nil {
		p.Transport.Send(Event{Kind: EventGameState, Board: s.engine.Board().Render()})
	}
	if p := s.players[board.Black]; p != nil {
		p.Transport.Send(Event{Kind: EventGameState, Board: s.engine.Board().RenderFlipped()})
	}
}

func (s *Session) broadcastGameInfo() {
	white, black := s.players[board.White], s.players[board.Black]

	white.Transport.Send(Event{Kind: EventGameInfo, Info: &GameInfo{
		SelfUsername:     white.Username,
		OpponentUsername:  black.Username,
		SelfElo:           white.Elo,
		OpponentElo:       black.Elo,
		SelfProjected:     white.projected,
		OpponentProjected: black.projected,
		SelfIsWhite:       true,
	}})
	black.Transport.Send(Event{Kind: EventGameInfo, Info: &GameInfo{
		SelfUsername:      black.Username,
		OpponentUsername:  white.Username,
		SelfElo:            black.Elo,
		OpponentElo:        white.Elo,
		SelfProjected:      black.projected,
		OpponentProjected:  white.projected,
		SelfIsWhite:        false,
	}})
}
