package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Total int `json:"total"`
}

func TestGetOrSetCachesValue(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := New(context.Background(), mr.Addr())
	require.NoError(t, err)
	defer s.Close()

	calls := 0
	load := func() (report, error) {
		calls++
		return report{Total: 7}, nil
	}

	ctx := context.Background()
	v, err := GetOrSet(ctx, s, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Total)

	v, err = GetOrSet(ctx, s, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Total)
	assert.Equal(t, 1, calls)

	mr.FastForward(2 * time.Minute)
	_, err = GetOrSet(ctx, s, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrSetWithoutStore(t *testing.T) {
	v, err := GetOrSet(context.Background(), nil, "k", time.Minute, func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = GetOrSet(context.Background(), nil, "k", time.Minute, func() (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
}

func TestEmbeddedStore(t *testing.T) {
	s, err := New(context.Background(), "")
	require.NoError(t, err)
	defer s.Close()

	var out report
	assert.ErrorIs(t, s.GetJSON(context.Background(), "missing", &out), ErrMiss)
	require.NoError(t, s.SetJSON(context.Background(), "present", report{Total: 1}, time.Minute))
	require.NoError(t, s.GetJSON(context.Background(), "present", &out))
	assert.Equal(t, 1, out.Total)
}
