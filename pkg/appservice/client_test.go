package appservice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relaychess/relaychess/pkg/appservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchChallenge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "game-42")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"challange":{"id":"game-42","fromUser":{"username":"alice","elo_rating":1200},"toUser":{"username":"bob","elo_rating":1180}}}}`))
	}))
	defer srv.Close()

	c := appservice.New(srv.URL)
	ch, err := c.FetchChallenge(context.Background(), "game-42")
	require.NoError(t, err)
	assert.Equal(t, "alice", ch.FromUser.Username)
	assert.Equal(t, "bob", ch.ToUser.Username)
}

func TestFetchChallengeUnknownGameID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"challange":null}}`))
	}))
	defer srv.Close()

	c := appservice.New(srv.URL)
	_, err := c.FetchChallenge(context.Background(), "nope")
	assert.Error(t, err)
}

func TestPostResultWithRetryRecoversAfterTransientFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"endGame":{"challange":{"id":"game-1"}}}}`))
	}))
	defer srv.Close()

	c := appservice.New(srv.URL)
	err := c.PostResultWithRetry(context.Background(), "game-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
