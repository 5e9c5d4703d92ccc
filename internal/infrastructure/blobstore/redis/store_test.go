package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/clipask/askdoc-service/internal/infrastructure/blobstore/redis"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, *redisstore.Store) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	store, err := redisstore.NewStore(redisstore.Config{
		Host: mr.Host(),
		Port: mr.Port(),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
		mr.Close()
	})

	return mr, store
}

func TestNewStore_ConnectionFailure(t *testing.T) {
	// Act - nothing listens on this port
	store, err := redisstore.NewStore(redisstore.Config{
		Host: "localhost",
		Port: "1",
	})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestStore_SetGet(t *testing.T) {
	// Arrange
	_, store := setupStore(t)
	ctx := context.Background()

	// Act
	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
	val, err := store.Get(ctx, "k")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}

func TestStore_GetMissingKeyReturnsNil(t *testing.T) {
	// Arrange
	_, store := setupStore(t)

	// Act
	val, err := store.Get(context.Background(), "absent")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStore_ZeroTTLDoesNotExpire(t *testing.T) {
	// Arrange
	mr, store := setupStore(t)
	ctx := context.Background()

	// Act
	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

	// Assert
	assert.Equal(t, time.Duration(0), mr.TTL("k"))
}

func TestStore_TTLExpires(t *testing.T) {
	// Arrange
	mr, store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	// Act
	mr.FastForward(2 * time.Minute)
	val, err := store.Get(ctx, "k")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStore_Delete(t *testing.T) {
	// Arrange
	_, store := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

	// Act
	deleted, err := store.Delete(ctx, "k")

	// Assert
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_Ping(t *testing.T) {
	// Arrange
	mr, store := setupStore(t)

	// Act / Assert
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
