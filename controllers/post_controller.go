package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/altvik/plume/cache"
	"github.com/altvik/plume/config"
	"github.com/altvik/plume/models"
	"github.com/altvik/plume/repository"
	"github.com/altvik/plume/utils"
)

// IndexCachePrefix keys the cached home feed pages.
const IndexCachePrefix = "index_page:"

// PostController renders the feed pages and manages posts and comments.
type PostController struct {
	db      *gorm.DB
	feeds   *repository.FeedRepository
	follows *repository.FollowRepository
	pages   cache.Store
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB, pages cache.Store) *PostController {
	return &PostController{
		db:      db,
		feeds:   repository.NewFeedRepository(db),
		follows: repository.NewFollowRepository(db),
		pages:   pages,
	}
}

// Index renders the home feed. The rendered response is cached per
// page for the configured window; within the window identical
// requests replay the exact cached bytes even if posts changed.
func (p *PostController) Index(ctx *gin.Context) {
	cfg := config.Get()
	page := utils.ParsePage(ctx.Query("page"))
	key := fmt.Sprintf("%spage=%d", IndexCachePrefix, page)

	if b, ok := p.pages.Get(ctx, key); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	posts, err := p.feeds.All(ctx)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load posts")
		return
	}
	payload := gin.H{
		"title": "Latest updates",
		"page":  utils.Paginate(posts, cfg.PostsPerPage, page),
	}
	b, err := json.Marshal(utils.JSONResponse{Code: 0, Message: "success", Data: payload})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to render page")
		return
	}
	p.pages.Set(ctx, key, b, cfg.IndexCacheTTL())
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

// GroupPosts renders the feed of a single group, resolved by slug.
// Never cached.
func (p *PostController) GroupPosts(ctx *gin.Context) {
	cfg := config.Get()
	group, posts, err := p.feeds.ByGroup(ctx, ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load group posts")
		return
	}
	utils.Success(ctx, gin.H{
		"group": group,
		"page":  utils.Paginate(posts, cfg.PostsPerPage, utils.ParsePage(ctx.Query("page"))),
	})
}

// Profile renders an author's feed plus whether the viewer follows them.
func (p *PostController) Profile(ctx *gin.Context) {
	cfg := config.Get()
	author, posts, err := p.feeds.ByAuthor(ctx, ctx.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40421, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load profile")
		return
	}

	following := false
	if viewerID, ok := getUserID(ctx); ok {
		following, err = p.follows.IsFollowing(ctx, viewerID, author.ID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load follow state")
			return
		}
	}

	utils.Success(ctx, gin.H{
		"author":    author,
		"following": following,
		"page":      utils.Paginate(posts, cfg.PostsPerPage, utils.ParsePage(ctx.Query("page"))),
	})
}

// PostDetail renders a single post with its comments.
func (p *PostController) PostDetail(ctx *gin.Context) {
	post, err := p.loadPost(ctx)
	if err != nil {
		return
	}
	utils.Success(ctx, gin.H{"post": post, "comments": post.Comments})
}

// NewPost serves the data a create-post form needs: the group options.
func (p *PostController) NewPost(ctx *gin.Context) {
	var groups []models.Group
	if err := p.db.WithContext(ctx).Order("title ASC").Find(&groups).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

type postForm struct {
	Text    string `form:"text" json:"text" binding:"required"`
	GroupID *uint  `form:"group_id" json:"group_id"`
	Image   string `form:"image" json:"image"`
}

// CreatePost persists a new post for the viewer and sends them to
// their profile page.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	form, ok := p.bindPostForm(ctx)
	if !ok {
		return
	}

	post := models.Post{
		UserID:  userID,
		Text:    form.Text,
		GroupID: form.GroupID,
		Image:   form.Image,
	}
	if err := p.db.WithContext(ctx).Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to create post")
		return
	}

	utils.Redirect(ctx, "/profile/"+currentUsername(ctx)+"/")
}

// EditPost serves the current field values of a post to its author.
// Non-authors are sent back to the detail page.
func (p *PostController) EditPost(ctx *gin.Context) {
	post, err := p.loadPost(ctx)
	if err != nil {
		return
	}
	if viewerID, _ := getUserID(ctx); post.UserID != viewerID {
		utils.Redirect(ctx, detailPath(post.ID))
		return
	}
	utils.Success(ctx, gin.H{"post": post, "is_edit": true})
}

// UpdatePost applies edits. Only the author may edit; anyone else is
// redirected to the detail page rather than shown an error.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	post, err := p.loadPost(ctx)
	if err != nil {
		return
	}
	if viewerID, _ := getUserID(ctx); post.UserID != viewerID {
		utils.Redirect(ctx, detailPath(post.ID))
		return
	}

	form, ok := p.bindPostForm(ctx)
	if !ok {
		return
	}

	post.Text = form.Text
	post.GroupID = form.GroupID
	if form.Image != "" {
		post.Image = form.Image
	}
	if err := p.db.WithContext(ctx).Save(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to update post")
		return
	}

	utils.Redirect(ctx, detailPath(post.ID))
}

// DeletePost removes a post and its comments. Author only.
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, err := p.loadPost(ctx)
	if err != nil {
		return
	}
	if viewerID, _ := getUserID(ctx); post.UserID != viewerID {
		utils.Redirect(ctx, detailPath(post.ID))
		return
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to delete post")
		return
	}

	utils.Redirect(ctx, "/profile/"+currentUsername(ctx)+"/")
}

// AddComment attaches a comment to a post and returns to the detail page.
func (p *PostController) AddComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	post, err := p.loadPost(ctx)
	if err != nil {
		return
	}

	var req struct {
		Text string `form:"text" json:"text" binding:"required"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid comment payload")
		return
	}
	text := strings.TrimSpace(utils.Sanitize(req.Text))
	if text == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "comment cannot be empty")
		return
	}

	comment := models.Comment{PostID: post.ID, UserID: userID, Text: text}
	if err := p.db.WithContext(ctx).Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to create comment")
		return
	}

	utils.Redirect(ctx, detailPath(post.ID))
}

// Upload stores a post image on local disk and returns its URL.
func (p *PostController) Upload(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "no file uploaded")
		return
	}
	const maxSize = 10 * 1024 * 1024
	if file.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40041, "file size exceeds 10MB")
		return
	}

	cfg := config.Get()
	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create media directory")
		return
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := ctx.SaveUploadedFile(file, filepath.Join(cfg.MediaDir, name)); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save file")
		return
	}

	utils.Success(ctx, gin.H{"url": "/media/" + name})
}

// ClearHomeCache drops every cached home feed page. Admin only.
func (p *PostController) ClearHomeCache(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40310, "admin only")
		return
	}
	p.pages.Clear(ctx, IndexCachePrefix)
	utils.Success(ctx, gin.H{"message": "home cache cleared"})
}

func (p *PostController) loadPost(ctx *gin.Context) (*models.Post, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
		return nil, repository.ErrPostNotFound
	}
	post, err := p.feeds.PostByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load post")
		}
		return nil, err
	}
	return post, nil
}

func (p *PostController) bindPostForm(ctx *gin.Context) (*postForm, bool) {
	var form postForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid post payload")
		return nil, false
	}
	form.Text = strings.TrimSpace(utils.Sanitize(form.Text))
	if form.Text == "" {
		utils.Error(ctx, http.StatusBadRequest, 40033, "text cannot be empty")
		return nil, false
	}
	if form.GroupID != nil {
		var group models.Group
		if err := p.db.WithContext(ctx).First(&group, *form.GroupID).Error; err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40034, "invalid group")
			return nil, false
		}
	}
	return &form, true
}

func detailPath(postID uint) string {
	return fmt.Sprintf("/posts/%d/", postID)
}
