package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/altvik/plume/models"
)

// FollowRepository records and removes directed follow edges.
type FollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a FollowRepository over the given connection.
func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// IsFollowing reports whether a (viewer, author) edge exists.
func (r *FollowRepository) IsFollowing(ctx context.Context, viewerID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", viewerID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Follow creates the edge. Following yourself is rejected and a
// duplicate edge is a no-op; the unique (user_id, author_id) index
// backstops concurrent duplicates.
func (r *FollowRepository) Follow(ctx context.Context, viewerID, authorID uint) error {
	if viewerID == authorID {
		return ErrSelfFollow
	}
	exists, err := r.IsFollowing(ctx, viewerID, authorID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = r.db.WithContext(ctx).Create(&models.Follow{UserID: viewerID, AuthorID: authorID}).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Unfollow removes the edge, failing when it does not exist.
func (r *FollowRepository) Unfollow(ctx context.Context, viewerID, authorID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", viewerID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}
