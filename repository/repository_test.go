package repository

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/altvik/plume/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: gofakeit.Email()}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createGroup(t *testing.T, db *gorm.DB, title, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: title, Slug: slug, Description: gofakeit.Sentence(6)}
	require.NoError(t, db.Create(group).Error)
	return group
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:    author.ID,
		Text:      gofakeit.Sentence(8),
		CreatedAt: createdAt,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
