package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithoutRedisEverythingMisses(t *testing.T) {
	RDB = nil
	ctx := context.Background()

	var out string
	assert.False(t, Get(ctx, "k", &out))
	assert.NoError(t, Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, Del(ctx, "k"))
	assert.NoError(t, DelPrefix(ctx, "catalog:"))
	assert.NoError(t, Close())
}

func TestRememberFallsThroughToLoader(t *testing.T) {
	RDB = nil
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"Fruits", "Dairy"}, nil
	}

	v, err := Remember(context.Background(), "catalog:categories", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fruits", "Dairy"}, v)

	_, _ = Remember(context.Background(), "catalog:categories", time.Minute, load)
	assert.Equal(t, 2, calls)

	boom := errors.New("db down")
	_, err = Remember(context.Background(), "x", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}
