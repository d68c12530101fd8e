package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedBlacklist(start time.Time) (*InMemoryTokenBlacklist, *time.Time) {
	now := start
	b := NewInMemoryTokenBlacklist()
	b.now = func() time.Time { return now }
	return b, &now
}

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	ctx := context.Background()
	b, now := newClockedBlacklist(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	*now = now.Add(time.Hour)
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entry should lapse with the token")
	assert.Empty(t, b.tokens)
}

func TestInMemoryTokenBlacklist_RevokeIgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()

	require.NoError(t, b.Revoke(ctx, "gone", 0))
	assert.Empty(t, b.tokens)
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	b, now := newClockedBlacklist(start)
	userID := uuid.New()

	tests := []struct {
		name     string
		issuedAt time.Time
		want     bool
	}{
		{"issued before revocation", start.Add(-time.Minute), true},
		{"issued at revocation", start, true},
		{"issued after revocation", start.Add(time.Minute), false},
	}

	require.NoError(t, b.RevokeUser(ctx, userID, time.Hour))
	*now = start.Add(time.Hour)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.IsUserRevoked(ctx, userID, tt.issuedAt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	other, err := b.IsUserRevoked(ctx, uuid.New(), start)
	require.NoError(t, err)
	assert.False(t, other)
}

func TestNewTokenBlacklist(t *testing.T) {
	_, ok := NewTokenBlacklist(nil).(*InMemoryTokenBlacklist)
	assert.True(t, ok)

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	rb, ok := NewTokenBlacklist(client).(*RedisTokenBlacklist)
	require.True(t, ok)

	userID := uuid.MustParse("6f9b1c1e-0d3a-4d8e-9d2f-1f7c0a2b3c4d")
	assert.Equal(t, "aidat:token:blacklist:jti:abc", rb.jtiKey("abc"))
	assert.Equal(t, "aidat:token:blacklist:user:"+userID.String(), rb.userKey(userID))
}
