package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/relaychess/relaychess/pkg/board"
	"github.com/relaychess/relaychess/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport collects every Event sent to it, for assertions.
type fakeTransport struct {
	mu     sync.Mutex
	events []session.Event
}

func (f *fakeTransport) Send(e session.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeTransport) kinds() []session.EventKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ks []session.EventKind
	for _, e := range f.events {
		ks = append(ks, e.Kind)
	}
	return ks
}

func newBoundSession(t *testing.T) (*session.Session, *fakeTransport, *fakeTransport) {
	t.Helper()
	white, black := &fakeTransport{}, &fakeTransport{}
	s := session.NewSession(context.Background(), "game-1", nil)

	c, err := s.Bind("alice", 1200, session.EloProjection{}, white)
	require.NoError(t, err)
	assert.Equal(t, board.White, c)

	c, err = s.Bind("bob", 1180, session.EloProjection{}, black)
	require.NoError(t, err)
	assert.Equal(t, board.Black, c)

	return s, white, black
}

func TestBindAssignsColorsAndThirdFails(t *testing.T) {
	s, white, black := newBoundSession(t)
	_ = white
	_ = black

	third := &fakeTransport{}
	_, err := s.Bind("carol", 1000, session.EloProjection{}, third)
	assert.ErrorIs(t, err, session.ErrAlreadyBound)
}

func move(t *testing.T, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(s)
	require.NoError(t, err)
	return m
}

func TestSubmitMoveWrongTurnRejected(t *testing.T) {
	s, _, black := newBoundSession(t)

	err := s.SubmitMove(black, move(t, "e7:e5"))
	assert.ErrorIs(t, err, session.ErrWrongTurn)
}

func TestSubmitMoveIllegalRejectedWithoutBroadcastToOpponent(t *testing.T) {
	s, white, black := newBoundSession(t)

	before := len(black.kinds())
	err := s.SubmitMove(white, move(t, "e2:e5"))
	assert.Error(t, err)
	assert.Equal(t, before, len(black.kinds()), "opponent must not be notified of a rejected move")
}

func TestFoolsMateReachesTerminalAndNotifiesBoth(t *testing.T) {
	s, white, black := newBoundSession(t)

	require.NoError(t, s.SubmitMove(white, move(t, "f2:f3")))
	require.NoError(t, s.SubmitMove(black, move(t, "e7:e5")))
	require.NoError(t, s.SubmitMove(white, move(t, "g2:g4")))
	require.NoError(t, s.SubmitMove(black, move(t, "d8:h4")))

	assert.Equal(t, session.CheckmateWin, s.Result().Reason)
	assert.Equal(t, "bob", s.Result().Winner)
	assert.Contains(t, white.kinds(), session.EventGameEnded)
}

func TestResignTransitionsToTerminal(t *testing.T) {
	s, white, black := newBoundSession(t)

	require.NoError(t, s.Resign(white))
	assert.Eventually(t, func() bool {
		return s.Result().Reason == session.Resigned
	}, time.Second, time.Millisecond)
	assert.Equal(t, "bob", s.Result().Winner)
	_ = black
}

func TestDrawOfferAndAccept(t *testing.T) {
	s, white, black := newBoundSession(t)

	require.NoError(t, s.OfferDraw(white))
	assert.Contains(t, black.kinds(), session.EventDrawOffered)

	require.NoError(t, s.RespondDraw(black, true))
	assert.Eventually(t, func() bool {
		return s.Result().Reason == session.DrawByAgreement
	}, time.Second, time.Millisecond)
}

func TestDisconnectTreatedAsResignation(t *testing.T) {
	s, white, black := newBoundSession(t)

	s.Disconnect(white)
	assert.Eventually(t, func() bool {
		return s.Result().Reason == session.Resigned
	}, time.Second, time.Millisecond)
	assert.Equal(t, "bob", s.Result().Winner)
	_ = black
}

func TestBothDisconnectAborts(t *testing.T) {
	s, white, black := newBoundSession(t)

	s.Disconnect(white)
	s.Disconnect(black)
	assert.Eventually(t, func() bool {
		return s.Result().Reason == session.Aborted
	}, time.Second, time.Millisecond)
}
