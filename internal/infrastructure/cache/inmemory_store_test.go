package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*InMemoryStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	s := newInMemoryStore(time.Hour, clock.Now)
	t.Cleanup(func() { _ = s.Close() })
	return s, clock
}

func TestInMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()

	t.Run("miss on unknown key", func(t *testing.T) {
		s, _ := newTestStore(t)
		val, ok, err := s.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("returns stored value until expiry", func(t *testing.T) {
		s, clock := newTestStore(t)
		require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

		val, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v"), val)

		clock.Advance(time.Minute)
		_, ok, err = s.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok, "entry should expire at its deadline")
	})

	t.Run("stored bytes are isolated from caller", func(t *testing.T) {
		s, _ := newTestStore(t)
		buf := []byte("abc")
		require.NoError(t, s.Set(ctx, "k", buf, time.Minute))
		buf[0] = 'z'

		val, _, _ := s.Get(ctx, "k")
		assert.Equal(t, "abc", string(val))
	})
}

func TestInMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, k := range []string{"dashboard:a", "dashboard:b", "other"} {
		require.NoError(t, s.Set(ctx, k, []byte("1"), time.Minute))
	}

	require.NoError(t, s.Delete(ctx, "other"))
	require.NoError(t, s.DeletePrefix(ctx, "dashboard:"))
	assert.Equal(t, 0, s.Size())
}

func TestInMemoryStore_Cleanup(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	require.NoError(t, s.Set(ctx, "short", []byte("1"), time.Second))
	require.NoError(t, s.Set(ctx, "long", []byte("1"), time.Hour))
	clock.Advance(time.Minute)

	s.cleanup()
	assert.Equal(t, 1, s.Size())
}

func TestInMemoryStore_CloseIdempotent(t *testing.T) {
	s := NewInMemoryStore()
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	type stats struct {
		Flats   int    `json:"flats"`
		Overdue string `json:"overdue"`
	}

	ok, err := GetJSON(ctx, s, "stats", &stats{})
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetJSON(ctx, s, "stats", stats{Flats: 12, Overdue: "450.00"}, time.Minute))

	var got stats
	ok, err = GetJSON(ctx, s, "stats", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stats{Flats: 12, Overdue: "450.00"}, got)

	require.NoError(t, s.Set(ctx, "broken", []byte("{"), time.Minute))
	_, err = GetJSON(ctx, s, "broken", &got)
	assert.Error(t, err)
}
