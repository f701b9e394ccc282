package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonKey(t *testing.T) {
	key := ComparisonKey("user-1", []int64{3, 1, 2})
	assert.Equal(t, "compare:user-1:1-2-3", key)

	// Request order must not change the key.
	assert.Equal(t, key, ComparisonKey("user-1", []int64{2, 3, 1}))

	assert.Equal(t, "compare:user-1:", ComparisonKey("user-1", nil))
}

func TestComparisonKeyDoesNotMutateInput(t *testing.T) {
	ids := []int64{9, 1, 5}
	ComparisonKey("u", ids)
	assert.Equal(t, []int64{9, 1, 5}, ids)
}

func TestJitterTTL(t *testing.T) {
	c := &resultCache{}
	assert.Equal(t, time.Duration(0), c.jitterTTL(0))

	base := 10 * time.Minute
	for i := 0; i < 50; i++ {
		got := c.jitterTTL(base)
		assert.GreaterOrEqual(t, got, 9*time.Minute)
		assert.LessOrEqual(t, got, 11*time.Minute)
	}
}

func TestFullKeyUsesPrefix(t *testing.T) {
	c := &resultCache{prefix: "insuraiq:"}
	assert.Equal(t, "insuraiq:compare:u:1-2", c.fullKey("compare:u:1-2"))
}

func TestNopCache(t *testing.T) {
	ctx := context.Background()
	var cache Cache = NopCache{}

	var dest map[string]string
	assert.Equal(t, ErrCacheMiss, cache.Get(ctx, "k", &dest))
	assert.NoError(t, cache.Set(ctx, "k", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, cache.Delete(ctx, "k"))
	assert.NoError(t, cache.Ping(ctx))

	calls := 0
	err := cache.GetOrSet(ctx, "k", &dest, time.Minute, func(ctx context.Context) (interface{}, error) {
		calls++
		return map[string]string{"result": "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fresh", dest["result"])

	n, err := cache.InvalidateUser(ctx, "u")
	require.NoError(t, err)
	assert.Zero(t, n)
}
