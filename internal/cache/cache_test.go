package cache

import (
	"context"
	"testing"
	"time"

	"github.com/inkpost/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	UseClient(client, "test")
	t.Cleanup(func() {
		_ = client.Close()
		Disable()
	})
	return mr
}

func TestJSONRoundTripUsesPrefix(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "greeting", map[string]string{"hello": "world"}, time.Minute))
	assert.True(t, mr.Exists("test:greeting"))

	var got map[string]string
	hit, err := GetJSON(ctx, "greeting", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "world", got["hello"])

	require.NoError(t, Del(ctx, "greeting"))
	hit, err = GetJSON(ctx, "greeting", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDisabledCacheIsNoop(t *testing.T) {
	Disable()
	ctx := context.Background()
	require.NoError(t, SetJSON(ctx, "k", 1, time.Minute))
	var v int
	hit, err := GetJSON(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)

	calls := 0
	got, err := Remember(ctx, time.Minute, func() (int, error) {
		calls++
		return 42, nil
	}, "answer")
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls)
}

func TestRememberInvalidatedByVersionBump(t *testing.T) {
	setupMiniRedis(t)
	ctx := context.Background()

	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"hello-world"}, nil
	}

	first, err := Remember(ctx, time.Minute, load, "list", 1)
	require.NoError(t, err)
	second, err := Remember(ctx, time.Minute, load, "list", 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	version, err := BumpPublishedVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	_, err = Remember(ctx, time.Minute, load, "list", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPublishedKey(t *testing.T) {
	assert.Equal(t, "posts:published:v3:list:2:go", PublishedKey(3, "list", 2, "go"))
}

func TestUserAuthStateRoundTrip(t *testing.T) {
	setupMiniRedis(t)
	ctx := context.Background()
	now := time.Now()
	user := &models.User{ID: 7, Username: "editor", TokenVersion: 3, IsSuper: true, TokenInvalidBefore: &now}

	require.NoError(t, SetUserAuthState(ctx, BuildUserAuthState(user)))
	state, hit, err := GetUserAuthState(ctx, 7)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, uint64(3), state.TokenVersion)
	assert.Equal(t, now.Unix(), state.TokenInvalidBefore)
	assert.True(t, state.IsSuper)

	require.NoError(t, DelUserAuthState(ctx, 7))
	_, hit, err = GetUserAuthState(ctx, 7)
	require.NoError(t, err)
	assert.False(t, hit)
}
