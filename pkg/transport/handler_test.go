package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/relaychess/relaychess/pkg/appservice"
	"github.com/relaychess/relaychess/pkg/protocol"
	"github.com/relaychess/relaychess/pkg/registry"
	"github.com/relaychess/relaychess/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAppService serves the one challenge "game-1" between alice and bob,
// and records posted results.
func fakeAppService(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.Contains(req.Query, "endGame"):
			_, _ = w.Write([]byte(`{"data":{"endGame":{"challange":{"id":"game-1"}}}}`))
		case strings.Contains(req.Query, "game-1"):
			_, _ = w.Write([]byte(`{"data":{"challange":{"id":"game-1","fromUser":{"username":"alice","elo_rating":1200},"toUser":{"username":"bob","elo_rating":1180},"eloRatingChanges":{"alice":{"win":8,"draw":0,"lose":-8},"bob":{"win":8,"draw":0,"lose":-8}}}}}`))
		default:
			_, _ = w.Write([]byte(`{"data":{"challange":null}}`))
		}
	}))
}

func newServer(t *testing.T, deps transport.Deps) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		go transport.NewHandler(deps, conn).Run(context.Background())
	}))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func sendMsg(t *testing.T, conn *websocket.Conn, m protocol.Message) {
	t.Helper()
	data, err := protocol.Encode(m)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func readMsg(t *testing.T, conn *websocket.Conn) protocol.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	m, err := protocol.Decode(data)
	require.NoError(t, err)
	return m
}

func TestLoginRejectsUnknownGameID(t *testing.T) {
	app := fakeAppService(t)
	defer app.Close()

	srv := newServer(t, transport.Deps{Registry: registry.New(), AppService: appservice.New(app.URL)})
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	sendMsg(t, conn, protocol.Message{Type: protocol.TypeLogin, GameID: "nope", Username: "alice"})
	reply := readMsg(t, conn)
	assert.Equal(t, protocol.TypeLoginResult, reply.Type)
	assert.False(t, reply.OK)
}

func TestLoginRejectsWrongUsername(t *testing.T) {
	app := fakeAppService(t)
	defer app.Close()

	srv := newServer(t, transport.Deps{Registry: registry.New(), AppService: appservice.New(app.URL)})
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	sendMsg(t, conn, protocol.Message{Type: protocol.TypeLogin, GameID: "game-1", Username: "mallory"})
	reply := readMsg(t, conn)
	assert.Equal(t, protocol.TypeLoginResult, reply.Type)
	assert.False(t, reply.OK)
}

func TestTwoPlayersBindAndPlayFoolsMate(t *testing.T) {
	app := fakeAppService(t)
	defer app.Close()

	srv := newServer(t, transport.Deps{Registry: registry.New(), AppService: appservice.New(app.URL)})
	defer srv.Close()

	white := dial(t, srv)
	defer white.Close()
	black := dial(t, srv)
	defer black.Close()

	sendMsg(t, white, protocol.Message{Type: protocol.TypeLogin, GameID: "game-1", Username: "alice"})
	require.True(t, readMsg(t, white).OK)

	sendMsg(t, black, protocol.Message{Type: protocol.TypeLogin, GameID: "game-1", Username: "bob"})
	require.True(t, readMsg(t, black).OK)

	// Both players now receive game_info then game_state, in that order.
	info := readMsg(t, white)
	require.Equal(t, protocol.TypeGameInfo, info.Type)
	assert.True(t, info.SelfIsWhite)
	assert.Equal(t, protocol.TypeGameState, readMsg(t, white).Type)

	info = readMsg(t, black)
	require.Equal(t, protocol.TypeGameInfo, info.Type)
	assert.False(t, info.SelfIsWhite)
	assert.Equal(t, protocol.TypeGameState, readMsg(t, black).Type)

	moves := []struct {
		conn     *websocket.Conn
		from, to string
	}{
		{white, "f2", "f3"},
		{black, "e7", "e5"},
		{white, "g2", "g4"},
		{black, "d8", "h4"},
	}
	for _, mv := range moves {
		sendMsg(t, mv.conn, protocol.Message{Type: protocol.TypeMove, From: mv.from, To: mv.to})
		assert.Equal(t, protocol.TypeMoveConfirmed, readMsg(t, mv.conn).Type)
		assert.Equal(t, protocol.TypeGameState, readMsg(t, white).Type)
		assert.Equal(t, protocol.TypeGameState, readMsg(t, black).Type)
	}

	ended := readMsg(t, white)
	assert.Equal(t, protocol.TypeGameEnded, ended.Type)
	assert.Equal(t, "bob", ended.Winner)
	assert.Equal(t, protocol.TypeGameEnded, readMsg(t, black).Type)
}
