package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/altvik/plume/config"
	"github.com/altvik/plume/repository"
	"github.com/altvik/plume/utils"
)

// FollowController renders the follow feed and manages follow edges.
type FollowController struct {
	feeds   *repository.FeedRepository
	follows *repository.FollowRepository
	users   *repository.UserRepository
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{
		feeds:   repository.NewFeedRepository(db),
		follows: repository.NewFollowRepository(db),
		users:   repository.NewUserRepository(db),
	}
}

// FollowIndex renders posts by every author the viewer follows.
func (f *FollowController) FollowIndex(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "unauthorized")
		return
	}

	posts, err := f.feeds.Following(ctx, viewerID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load follow feed")
		return
	}

	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"title": "Posts from followed authors",
		"page":  utils.Paginate(posts, cfg.PostsPerPage, utils.ParsePage(ctx.Query("page"))),
	})
}

// Follow creates a follow edge toward the named author and returns to
// their profile. Following yourself or an already-followed author
// changes nothing.
func (f *FollowController) Follow(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40116, "unauthorized")
		return
	}

	username := ctx.Param("username")
	author, err := f.users.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load user")
		return
	}

	if err := f.follows.Follow(ctx, viewerID, author.ID); err != nil && !errors.Is(err, repository.ErrSelfFollow) {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to follow")
		return
	}

	utils.Redirect(ctx, "/profile/"+username+"/")
}

// Unfollow removes the follow edge toward the named author. A missing
// edge is a 404, matching the unfollow contract.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40117, "unauthorized")
		return
	}

	username := ctx.Param("username")
	author, err := f.users.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40431, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load user")
		return
	}

	if err := f.follows.Unfollow(ctx, viewerID, author.ID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40432, "follow edge not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to unfollow")
		return
	}

	utils.Redirect(ctx, "/profile/"+username+"/")
}
