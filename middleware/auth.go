package middleware

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/altvik/plume/cache"
	"github.com/altvik/plume/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// AuthCookieName is the session cookie carrying the JWT.
	AuthCookieName = "auth_token"
	// LoginPath is where unauthenticated page requests are sent.
	LoginPath = "/auth/login/"
)

// Authenticate resolves the viewer identity from the auth cookie or a
// Bearer header when present. It never rejects: public pages render
// for anonymous viewers, and guards that need a login come after.
func Authenticate(store cache.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenFromRequest(ctx)
		if token == "" {
			ctx.Next()
			return
		}
		if utils.IsTokenBlacklisted(store, token) {
			ctx.Next()
			return
		}
		claims, err := utils.ParseToken(token)
		if err != nil {
			ctx.Next()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// LoginRequired redirects anonymous viewers to the sign-in page,
// preserving the original target in the next parameter.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := ctx.Get(ContextUserIDKey); !ok {
			utils.Redirect(ctx, LoginPath+"?next="+url.QueryEscape(ctx.Request.URL.RequestURI()))
			return
		}
		ctx.Next()
	}
}

func tokenFromRequest(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
