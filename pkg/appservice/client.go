// Package appservice is the External Collaborators Adapter (spec.md §4.6/§6):
// a thin client for the surrounding web application's GraphQL endpoint,
// fetching challenge metadata and posting final results. No GraphQL client
// library appears anywhere in this corpus, so this is built on net/http and
// encoding/json directly (see DESIGN.md for the stdlib justification),
// following the literal query/mutation shape in original_source/'s
// game_server/graph.go and game_server/server.py.
package appservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 200 * time.Millisecond
)

// EloDelta is a projected Elo rating change for one outcome.
type EloDelta struct {
	Win  float64 `json:"win"`
	Draw float64 `json:"draw"`
	Lose float64 `json:"lose"`
}

// User is a challenge participant.
type User struct {
	Username string `json:"username"`
	Elo      int    `json:"elo_rating"`
}

// Challenge is the metadata the External App Service is authoritative over
// for a game id (spec.md §3 GLOSSARY "Challenge").
type Challenge struct {
	ID               string              `json:"id"`
	FromUser         User                `json:"fromUser"`
	ToUser           User                `json:"toUser"`
	EloRatingChanges map[string]EloDelta `json:"eloRatingChanges"`
}

// Client talks to the External App Service's GraphQL endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	retryAttempts  int
	retryBaseDelay time.Duration
}

// Option configures a Client constructed by New.
type Option func(*Client)

// WithRetry overrides PostResultWithRetry's attempt count and base backoff
// delay (default 3 attempts, 200ms base). relayconfig.AppServiceConfig's
// RetryAttempts/RetryBaseDelaySecs, decoded from relay.toml, are wired in
// here by cmd/relayd (SPEC_FULL.md §3.3).
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retryAttempts = attempts
		}
		if baseDelay > 0 {
			c.retryBaseDelay = baseDelay
		}
	}
}

// New returns a Client for the given GraphQL endpoint base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:        baseURL,
		HTTP:           http.DefaultClient,
		retryAttempts:  defaultRetryAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLResponse struct {
	Data struct {
		Challange *Challenge `json:"challange"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchChallenge fetches the challenge metadata for gameID, grounded on
// original_source's QUERY_GET_CHALLANGE literal query shape.
func (c *Client) FetchChallenge(ctx context.Context, gameID string) (Challenge, error) {
	query := fmt.Sprintf(`query {challange (gameId: "%s"){id fromUser {username elo_rating} toUser {username elo_rating} eloRatingChanges} }`, gameID)

	var resp graphQLResponse
	if err := c.do(ctx, query, &resp); err != nil {
		return Challenge{}, fmt.Errorf("appservice: fetch challenge %v: %w", gameID, err)
	}
	if len(resp.Errors) > 0 {
		return Challenge{}, fmt.Errorf("appservice: fetch challenge %v: %v", gameID, resp.Errors[0].Message)
	}
	if resp.Data.Challange == nil {
		return Challenge{}, fmt.Errorf("appservice: unknown game id %v", gameID)
	}
	return *resp.Data.Challange, nil
}

type endGameResponse struct {
	Data struct {
		EndGame struct {
			Challange struct {
				ID string `json:"id"`
			} `json:"challange"`
		} `json:"endGame"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// PostResult posts the final winner for gameID, grounded on
// original_source's send_result mutation shape. winnerUsername is empty for
// a draw.
func (c *Client) PostResult(ctx context.Context, gameID, winnerUsername string) error {
	mutation := fmt.Sprintf(`mutation {endGame(winnerUsername: "%s", challangeId:"%s"){challange {id} } }`, winnerUsername, gameID)

	var resp endGameResponse
	if err := c.do(ctx, mutation, &resp); err != nil {
		return fmt.Errorf("appservice: post result %v: %w", gameID, err)
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("appservice: post result %v: %v", gameID, resp.Errors[0].Message)
	}
	return nil
}

func (c *Client) do(ctx context.Context, query string, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %v", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
