package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/altvik/plume/cache"
	"github.com/altvik/plume/middleware"
	"github.com/altvik/plume/models"
	"github.com/altvik/plume/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles the local identity provider: signup, login
// with cookie-backed sessions, logout via token revocation.
type AuthController struct {
	db    *gorm.DB
	store cache.Store
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB, store cache.Store) *AuthController {
	return &AuthController{db: db, store: store}
}

// Register creates a local account and signs the user in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username" binding:"required,min=3,max=64"`
		Email    string `form:"email" json:"email" binding:"omitempty,email"`
		Password string `form:"password" json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid registration payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	var existing models.User
	err := a.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		utils.Error(ctx, http.StatusConflict, 40910, "username already taken")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to check username")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to hash password")
		return
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to create user")
		return
	}

	a.issueSession(ctx, &user)
}

// Login verifies credentials and starts a session. A next parameter,
// when present, sends the browser back to the page it came from.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
		Next     string `form:"next" json:"next"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid login payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "invalid username or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "invalid username or password")
		return
	}

	next := req.Next
	if next == "" {
		next = ctx.Query("next")
	}
	if next != "" && strings.HasPrefix(next, "/") {
		a.setSessionCookie(ctx, &user)
		utils.Redirect(ctx, next)
		return
	}
	a.issueSession(ctx, &user)
}

// Logout revokes the current token and drops the session cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := tokenFromContext(ctx)
	if token != "" {
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(a.store, token, claims.ExpiresAt.Time)
		}
	}
	ctx.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated viewer's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

func (a *AuthController) issueSession(ctx *gin.Context, user *models.User) {
	token := a.setSessionCookie(ctx, user)
	if token == "" {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

func (a *AuthController) setSessionCookie(ctx *gin.Context, user *models.User) string {
	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		return ""
	}
	ctx.SetCookie(middleware.AuthCookieName, token, int(tokenLifetime.Seconds()), "/", "", false, true)
	return token
}

func tokenFromContext(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(middleware.AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
