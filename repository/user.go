package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/altvik/plume/models"
)

// UserRepository resolves user identities for page handlers.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository over the given connection.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ByUsername resolves a user by their unique username.
func (r *UserRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
