package flash

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func samplePayload() Payload {
	return Payload{
		Draft:              json.RawMessage(`{"title":"short"}`),
		ValidationMessages: []string{"title must be between 30 and 250 characters"},
	}
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	_, ok, err := store.Take(ctx, "nothing-here")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "s1", samplePayload()))

	got, ok, err := store.Take(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"short"}`, string(got.Draft))
	assert.Equal(t, samplePayload().ValidationMessages, got.ValidationMessages)

	_, ok, err = store.Take(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok, "cleared after the first read")

	require.NoError(t, store.Put(ctx, "s2", Payload{ValidationMessages: []string{"first"}}))
	require.NoError(t, store.Put(ctx, "s2", Payload{ValidationMessages: []string{"second"}}))
	got, ok, err = store.Take(ctx, "s2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"second"}, got.ValidationMessages, "put replaces")

	assert.ErrorIs(t, store.Put(ctx, " ", samplePayload()), ErrInvalidSessionID)
	_, _, err = store.Take(ctx, strings.Repeat("x", MaxSessionIDLength+1))
	assert.ErrorIs(t, err, ErrInvalidSessionID)
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	storeContract(t, store)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore(time.Minute))
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	require.NoError(t, store.Put(context.Background(), "abc", samplePayload()))

	assert.True(t, mr.Exists("flash:abc"))
	assert.Equal(t, time.Minute, mr.TTL("flash:abc"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := store.Take(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, ok, "expired")
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	mr.Close()

	err := store.Put(context.Background(), "abc", samplePayload())
	assert.Error(t, err)
	assert.Error(t, store.Ping(context.Background()))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(context.Background(), "abc", samplePayload()))
	now = now.Add(time.Minute)

	_, ok, err := store.Take(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}
