package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueGetDestroy(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour)
	ctx := context.Background()

	token, err := m.Issue(ctx, Session{UserID: 7, Username: "alice", Role: "user"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := m.Get(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, m.Destroy(ctx, token))

	got, err = m.Get(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManager_TokensAreUnique(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := m.Issue(ctx, Session{UserID: 1, Username: "alice", Role: "user"})
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestManager_EmptyTokenIsAbsent(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Hour)

	got, err := m.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Destroying nothing is not an error.
	assert.NoError(t, m.Destroy(context.Background(), ""))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "tok", Session{UserID: 1, Username: "alice"}, time.Hour))

	got, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, got)

	current = current.Add(2 * time.Hour)
	got, err = store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_UnknownToken(t *testing.T) {
	got, err := NewMemoryStore().Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	sess := Session{UserID: 9, Username: "bob", Role: "admin"}
	require.NoError(t, store.Save(ctx, "tok", sess, time.Hour))

	got, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess, *got)

	require.NoError(t, store.Delete(ctx, "tok"))
	got, err = store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok", Session{UserID: 1, Username: "alice"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_UnknownTokenIsAbsentNotError(t *testing.T) {
	store, _ := setupRedisStore(t)

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}
