package controllers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/altvik/plume/models"
	"github.com/altvik/plume/utils"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// GroupController lists groups and lets admins create them.
type GroupController struct {
	db *gorm.DB
}

// NewGroupController creates a new GroupController instance.
func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{db: db}
}

// ListGroups returns every group, ordered by title.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	var groups []models.Group
	if err := g.db.WithContext(ctx).Order("title ASC").Find(&groups).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// CreateGroup adds a new group. Admin only; slugs are lowercase
// hyphenated and must be unique.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40311, "admin only")
		return
	}

	var req struct {
		Title       string `form:"title" json:"title" binding:"required,min=1,max=200"`
		Slug        string `form:"slug" json:"slug" binding:"required,max=64"`
		Description string `form:"description" json:"description"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid group payload")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid slug")
		return
	}

	var count int64
	if err := g.db.WithContext(ctx).Model(&models.Group{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to check slug")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusConflict, 40920, "slug already taken")
		return
	}

	group := models.Group{
		Title:       strings.TrimSpace(req.Title),
		Slug:        slug,
		Description: utils.Sanitize(req.Description),
	}
	if err := g.db.WithContext(ctx).Create(&group).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to create group")
		return
	}

	utils.Success(ctx, gin.H{"group": group})
}
