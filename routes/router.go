package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/altvik/plume/cache"
	"github.com/altvik/plume/config"
	"github.com/altvik/plume/controllers"
	"github.com/altvik/plume/middleware"
	"github.com/altvik/plume/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, pages cache.Store) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if utils.Logger != nil {
		r.Use(middleware.Recovery(utils.Logger))
		r.Use(middleware.AccessLog(utils.Logger))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Viewer identity is resolved for every request; guards come per-route.
	r.Use(middleware.Authenticate(pages))

	r.Static("/media", cfg.MediaDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db, pages)
	postController := controllers.NewPostController(db, pages)
	followController := controllers.NewFollowController(db)
	groupController := controllers.NewGroupController(db)

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/signup/", authController.Register)
	authGroup.POST("/login/", authController.Login)
	authGroup.POST("/logout/", middleware.LoginRequired(), authController.Logout)
	authGroup.GET("/me/", middleware.LoginRequired(), authController.Me)

	// Public pages
	r.GET("/", postController.Index)
	r.GET("/group/:slug/", postController.GroupPosts)
	r.GET("/profile/:username/", postController.Profile)
	r.GET("/posts/:id/", postController.PostDetail)
	r.GET("/groups/", groupController.ListGroups)

	// Authenticated pages and actions
	authed := r.Group("")
	authed.Use(middleware.LoginRequired())
	authed.GET("/create/", postController.NewPost)
	authed.GET("/posts/:id/edit/", postController.EditPost)
	authed.GET("/profile/:username/follow/", followController.Follow)
	authed.GET("/profile/:username/unfollow/", followController.Unfollow)
	authed.GET("/follow/", followController.FollowIndex)

	writes := r.Group("")
	writes.Use(middleware.LoginRequired(), middleware.RateLimitMiddleware())
	writes.POST("/create/", postController.CreatePost)
	writes.POST("/posts/:id/edit/", postController.UpdatePost)
	writes.POST("/posts/:id/delete/", postController.DeletePost)
	writes.POST("/posts/:id/comment/", postController.AddComment)
	writes.POST("/upload/", postController.Upload)
	writes.POST("/groups/", groupController.CreateGroup)
	writes.POST("/admin/cache/clear/", postController.ClearHomeCache)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "page not found")
	})

	return r
}
