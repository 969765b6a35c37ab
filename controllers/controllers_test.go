package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/altvik/plume/cache"
	"github.com/altvik/plume/config"
	"github.com/altvik/plume/models"
	"github.com/altvik/plume/routes"
)

// testEnv wires a router against an in-memory SQLite database and an
// in-memory page cache, substituting both external collaborators.
type testEnv struct {
	db     *gorm.DB
	pages  *cache.Memory
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	config.SetForTesting(config.AppConfig{
		AppPort:            "0",
		JWTSecret:          "test-secret-key",
		PostsPerPage:       10,
		IndexCacheSeconds:  20,
		RateLimitPerMinute: 10000,
		AllowedOrigins:     []string{"*"},
		AdminUsernames:     []string{"admin"},
		GinMode:            "test",
		MediaDir:           t.TempDir(),
	})

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

	pages := cache.NewMemory()
	return &testEnv{db: db, pages: pages, router: routes.SetupRouter(db, pages)}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// signup registers a user through the HTTP surface and returns their token.
func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	w := e.do(t, http.MethodPost, "/auth/signup/", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (e *testEnv) do(t *testing.T, method, target string, body []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createPost(t *testing.T, userID uint, text string, groupID *uint, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Text: text, GroupID: groupID, CreatedAt: createdAt}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

func (e *testEnv) userID(t *testing.T, username string) uint {
	t.Helper()
	var user models.User
	require.NoError(t, e.db.Where("username = ?", username).First(&user).Error)
	return user.ID
}
