package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/altvik/plume/config"
	"github.com/altvik/plume/middleware"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func currentUsername(ctx *gin.Context) string {
	value, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return ""
	}
	name, _ := value.(string)
	return name
}

func isAdmin(ctx *gin.Context) bool {
	uname := currentUsername(ctx)
	if uname == "" {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}
