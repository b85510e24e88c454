package registry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/relaychess/relaychess/pkg/registry"
	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	r := registry.New()
	ctx := context.Background()

	a := r.GetOrCreate(ctx, "game-1", nil)
	b := r.GetOrCreate(ctx, "game-1", nil)
	assert.Same(t, a, b)
}

func TestConcurrentGetOrCreateYieldsOneSession(t *testing.T) {
	r := registry.New()
	ctx := context.Background()

	const n = 50
	results := make([]interface{}, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = r.GetOrCreate(ctx, "game-race", nil)
		}()
	}
	wg.Wait()

	first := results[0]
	for _, v := range results {
		assert.Same(t, first, v)
	}
}

func TestLookupAndRemove(t *testing.T) {
	r := registry.New()
	ctx := context.Background()

	_, ok := r.Lookup("missing")
	assert.False(t, ok)

	s := r.GetOrCreate(ctx, "game-2", nil)
	found, ok := r.Lookup("game-2")
	assert.True(t, ok)
	assert.Same(t, s, found)

	r.Remove("game-2")
	_, ok = r.Lookup("game-2")
	assert.False(t, ok)
}
