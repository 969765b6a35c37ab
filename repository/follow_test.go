package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altvik/plume/models"
)

func TestFollowLifecycle(t *testing.T) {
	db := setupTestDB(t)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	a := createUser(t, db, "a")
	b := createUser(t, db, "b")

	following, err := follows.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, follows.Follow(ctx, a.ID, b.ID))
	following, err = follows.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The edge is directed: B does not follow A.
	following, err = follows.IsFollowing(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, follows.Unfollow(ctx, a.ID, b.ID))
	following, err = follows.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Unfollowing a missing edge fails.
	assert.ErrorIs(t, follows.Unfollow(ctx, a.ID, b.ID), ErrFollowNotFound)
}

func TestFollowDuplicateIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	a := createUser(t, db, "a")
	b := createUser(t, db, "b")

	require.NoError(t, follows.Follow(ctx, a.ID, b.ID))
	require.NoError(t, follows.Follow(ctx, a.ID, b.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "a (user, author) pair exists at most once")
}

func TestSelfFollowRejected(t *testing.T) {
	db := setupTestDB(t)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	a := createUser(t, db, "a")

	assert.ErrorIs(t, follows.Follow(ctx, a.ID, a.ID), ErrSelfFollow)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
