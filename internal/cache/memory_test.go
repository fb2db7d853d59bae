package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemory_PutGet(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", map[string]string{"text": "hello"}))

	var got map[string]string
	require.NoError(t, m.Get(ctx, "k", &got))
	require.Equal(t, "hello", got["text"])
}

func TestMemory_Miss(t *testing.T) {
	m := NewMemory(0)

	var got string
	err := m.Get(context.Background(), "absent", &got)
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemory_LastWriterWins(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "first"))
	require.NoError(t, m.Put(ctx, "k", "second"))

	var got string
	require.NoError(t, m.Get(ctx, "k", &got))
	require.Equal(t, "second", got)
}

func TestMemory_TTLExpiry(t *testing.T) {
	m := NewMemory(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "v"))
	m.now = func() time.Time { return time.Now().Add(time.Minute) }

	var got string
	require.ErrorIs(t, m.Get(ctx, "k", &got), ErrMiss)
	require.Equal(t, 0, m.Len())
}

func TestMemory_ExpiryKeepsFreshRewrite(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()
	base := time.Now()

	m.now = func() time.Time { return base }
	require.NoError(t, m.Put(ctx, "k", "old"))

	fresh, err := json.Marshal("fresh")
	require.NoError(t, err)

	// The injected clock doubles as the interleaving hook: its first tick
	// lands between the expired read and the delete, where a concurrent
	// writer replaces the entry. Mutating the map here is safe because the
	// single test goroutine is the only accessor.
	replaced := false
	m.now = func() time.Time {
		now := base.Add(2 * time.Minute)
		if !replaced {
			replaced = true
			m.entries["k"] = entry{data: fresh, insertedAt: now}
		}
		return now
	}

	var got string
	require.ErrorIs(t, m.Get(ctx, "k", &got), ErrMiss)

	// The rewrite must have survived the expiry of the stale snapshot.
	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	require.NoError(t, m.Get(ctx, "k", &got))
	require.Equal(t, "fresh", got)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			require.NoError(t, m.Put(ctx, key, i))
			var got int
			err := m.Get(ctx, key, &got)
			if err != nil {
				require.ErrorIs(t, err, ErrMiss)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 10, m.Len())
}
