package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/altvik/plume/models"
)

// feedOrder is the explicit ordering contract for every feed: newest
// first, id as tiebreaker for posts created in the same instant.
const feedOrder = "created_at DESC, id DESC"

// FeedRepository composes the ordered post sets behind the home,
// group, profile and follow pages.
type FeedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a FeedRepository over the given connection.
func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

func (r *FeedRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		Order(feedOrder)
}

// All returns every post, newest first, with authors attached.
func (r *FeedRepository) All(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.base(ctx).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ByGroup resolves a group by slug and returns its posts.
func (r *FeedRepository) ByGroup(ctx context.Context, slug string) (*models.Group, []models.Post, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrGroupNotFound
		}
		return nil, nil, err
	}
	var posts []models.Post
	if err := r.base(ctx).Where("group_id = ?", group.ID).Find(&posts).Error; err != nil {
		return nil, nil, err
	}
	return &group, posts, nil
}

// ByAuthor resolves a user by username and returns their posts.
func (r *FeedRepository) ByAuthor(ctx context.Context, username string) (*models.User, []models.Post, error) {
	var author models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	var posts []models.Post
	if err := r.base(ctx).Where("user_id = ?", author.ID).Find(&posts).Error; err != nil {
		return nil, nil, err
	}
	return &author, posts, nil
}

// Following returns posts authored by any user the viewer follows.
func (r *FeedRepository) Following(ctx context.Context, viewerID uint) ([]models.Post, error) {
	authors := r.db.Model(&models.Follow{}).
		Select("author_id").
		Where("user_id = ?", viewerID)

	var posts []models.Post
	if err := r.base(ctx).Where("user_id IN (?)", authors).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// PostByID loads a single post with author, group and comment authors.
func (r *FeedRepository) PostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}
