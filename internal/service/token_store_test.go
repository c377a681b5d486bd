package service

import (
	"context"
	"testing"
	"time"

	"github.com/aelied/structureality-server/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStoreConsumeOnce(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok1", "alice", time.Minute))

	username, err := store.Consume(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	// 令牌一次性有效，重放失败
	_, err = store.Consume(ctx, "tok1")
	assert.ErrorIs(t, err, util.ErrInvalidResetToken)
}

func TestMemoryTokenStoreUnknownToken(t *testing.T) {
	store := NewMemoryTokenStore()
	_, err := store.Consume(context.Background(), "missing")
	assert.ErrorIs(t, err, util.ErrInvalidResetToken)
}

func TestMemoryTokenStoreExpiry(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok2", "bob", -time.Second))

	_, err := store.Consume(ctx, "tok2")
	assert.ErrorIs(t, err, util.ErrInvalidResetToken)
}

func TestMemoryTokenStoreSweep(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "live", "alice", time.Minute))
	require.NoError(t, store.Put(ctx, "dead1", "bob", -time.Second))
	require.NoError(t, store.Put(ctx, "dead2", "carol", -time.Minute))

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 0, store.Sweep())

	username, err := store.Consume(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}
