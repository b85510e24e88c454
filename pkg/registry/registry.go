// Package registry is the process-wide game-id to Session mapping (spec.md
// §4.5). It is the only process-global mutable resource in the system
// (spec.md §5): every other component reaches a Session only through it.
package registry

import (
	"context"
	"sync"

	"github.com/relaychess/relaychess/pkg/session"
	"golang.org/x/sync/singleflight"
)

// Registry maps game ids to Sessions. Concurrent GetOrCreate calls for the
// same id collapse onto one construction via singleflight, exactly the
// guarantee spec.md §4.5 requires.
type Registry struct {
	mu    sync.Mutex
	games map[string]*session.Session

	group singleflight.Group

	// newSession constructs new Sessions; New sets it to
	// session.NewSession.
	newSession func(ctx context.Context, gameID string, onTerminal func(session.Result)) *session.Session
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		games:      map[string]*session.Session{},
		newSession: session.NewSession,
	}
}

// GetOrCreate returns the Session for gameID, creating it with a fresh
// Board if it does not exist. onTerminal is only consulted on creation.
func (r *Registry) GetOrCreate(ctx context.Context, gameID string, onTerminal func(session.Result)) *session.Session {
	if s, ok := r.Lookup(gameID); ok {
		return s
	}

	v, _, _ := r.group.Do(gameID, func() (interface{}, error) {
		r.mu.Lock()
		if s, ok := r.games[gameID]; ok {
			r.mu.Unlock()
			return s, nil
		}
		r.mu.Unlock()

		s := r.newSession(ctx, gameID, onTerminal)

		r.mu.Lock()
		r.games[gameID] = s
		r.mu.Unlock()
		return s, nil
	})
	return v.(*session.Session)
}

// Lookup returns the Session for gameID, if one exists.
func (r *Registry) Lookup(gameID string) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.games[gameID]
	return s, ok
}

// Remove deletes gameID from the registry. It does not close the Session;
// callers remove once a Session has reached Terminal and should close it
// themselves if it has not self-closed already. Safe against concurrent
// message deliveries: a removed Session's command channel rejects further
// commands once closed (spec.md §4.5), so a delivery racing with Remove is
// simply a no-op rather than a crash.
func (r *Registry) Remove(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, gameID)
}
