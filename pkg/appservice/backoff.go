package appservice

import (
	"context"
	"time"
)

// PostResultWithRetry retries PostResult with bounded exponential backoff
// (spec.md §4.4: "retry with bounded exponential backoff, recommended 3
// attempts"). It returns the last error if every attempt fails; callers must
// proceed to notify clients regardless (spec.md §7 error kind 5 — the game
// outcome must never be withheld by an upstream failure).
func (c *Client) PostResultWithRetry(ctx context.Context, gameID, winnerUsername string) error {
	attempts := c.retryAttempts
	base := c.retryBaseDelay

	var err error
	for i := 0; i < attempts; i++ {
		if err = c.PostResult(ctx, gameID, winnerUsername); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(base << i):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
