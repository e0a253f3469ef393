package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageRating(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	u := env.user(t, "a@b.com")
	loc := env.location(t, u.ID, "Shelter A", "", "")

	avg, err := env.feedback.AverageRating(ctx, loc.ID)
	require.NoError(t, err)
	assert.Nil(t, avg)

	for _, r := range []int{3, 5} {
		_, err := env.feedback.AddFeedback(ctx, loc.ID, u.ID, "visited", r)
		require.NoError(t, err)
	}

	avg, err = env.feedback.AverageRating(ctx, loc.ID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 4.0, *avg, 1e-9)

	list, err := env.feedback.ListFeedback(ctx, loc.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 5, list[0].Rating)
	require.NotNil(t, list[0].User)
}

func TestAddFeedbackMissingLocation(t *testing.T) {
	env := setup(t)
	u := env.user(t, "a@b.com")

	_, err := env.feedback.AddFeedback(context.Background(), 77, u.ID, "?", 3)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.feedback.ListFeedback(context.Background(), 77)
	assert.ErrorIs(t, err, ErrNotFound)
}
