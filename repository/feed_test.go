package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altvik/plume/models"
)

func TestAllFeedNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	feeds := NewFeedRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "leo")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := createPost(t, db, author, nil, base)
	middle := createPost(t, db, author, nil, base.Add(time.Hour))
	newest := createPost(t, db, author, nil, base.Add(2*time.Hour))

	posts, err := feeds.All(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, newest.ID, posts[0].ID)
	assert.Equal(t, middle.ID, posts[1].ID)
	assert.Equal(t, oldest.ID, posts[2].ID)
	assert.Equal(t, "leo", posts[0].User.Username, "author must be joined for display")
}

func TestAllFeedTiebreakOnEqualTimestamps(t *testing.T) {
	db := setupTestDB(t)
	feeds := NewFeedRepository(db)

	author := createUser(t, db, "sasha")
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := createPost(t, db, author, nil, at)
	second := createPost(t, db, author, nil, at)

	posts, err := feeds.All(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestGroupFeedMembership(t *testing.T) {
	db := setupTestDB(t)
	feeds := NewFeedRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "mira")
	cats := createGroup(t, db, "Cats", "cats")
	dogs := createGroup(t, db, "Dogs", "dogs")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	inCats := createPost(t, db, author, cats, base)
	createPost(t, db, author, dogs, base.Add(time.Minute))
	createPost(t, db, author, nil, base.Add(2*time.Minute))

	group, posts, err := feeds.ByGroup(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "Cats", group.Title)
	require.Len(t, posts, 1, "a post assigned to one group never appears in another group's feed")
	assert.Equal(t, inCats.ID, posts[0].ID)
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	db := setupTestDB(t)
	feeds := NewFeedRepository(db)

	_, _, err := feeds.ByGroup(context.Background(), "no-such-group")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestAuthorFeed(t *testing.T) {
	db := setupTestDB(t)
	feeds := NewFeedRepository(db)
	ctx := context.Background()

	anna := createUser(t, db, "anna")
	boris := createUser(t, db, "boris")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mine := createPost(t, db, anna, nil, base)
	createPost(t, db, boris, nil, base.Add(time.Minute))

	author, posts, err := feeds.ByAuthor(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, anna.ID, author.ID)
	require.Len(t, posts, 1)
	assert.Equal(t, mine.ID, posts[0].ID)

	_, _, err = feeds.ByAuthor(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowingFeedMembership(t *testing.T) {
	db := setupTestDB(t)
	feeds := NewFeedRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	viewerA := createUser(t, db, "a")
	authorB := createUser(t, db, "b")
	viewerC := createUser(t, db, "c")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	byB := createPost(t, db, authorB, nil, base)
	createPost(t, db, viewerC, nil, base.Add(time.Minute))

	require.NoError(t, follows.Follow(ctx, viewerA.ID, authorB.ID))

	// A follows B: B's posts appear, C's do not.
	posts, err := feeds.Following(ctx, viewerA.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, byB.ID, posts[0].ID)

	// C follows nobody: empty feed despite posts existing.
	posts, err = feeds.Following(ctx, viewerC.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostByIDWithComments(t *testing.T) {
	db := setupTestDB(t)
	feeds := NewFeedRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "dasha")
	commenter := createUser(t, db, "egor")
	post := createPost(t, db, author, nil, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: commenter.ID, Text: "nice"}).Error)

	loaded, err := feeds.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "dasha", loaded.User.Username)
	require.Len(t, loaded.Comments, 1)
	assert.Equal(t, "egor", loaded.Comments[0].User.Username)

	_, err = feeds.PostByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
