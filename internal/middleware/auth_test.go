package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/flowtask/flowtask-api/internal/auth"
	"github.com/flowtask/flowtask-api/internal/models"
	"github.com/flowtask/flowtask-api/internal/repository"
	"github.com/flowtask/flowtask-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthMiddleware(t *testing.T) (*gorm.DB, *auth.TokenService, gin.HandlerFunc) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo, auth.NewPasswordHasher(4))
	tokens := auth.NewTokenService("test-secret", 30*time.Minute)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, tokens, RequireAuth(tokens, userService)
}

func protectedRouter(requireAuth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", requireAuth, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": email})
	})
	return r
}

func TestRequireAuth_ValidToken(t *testing.T) {
	db, tokens, requireAuth := setupAuthMiddleware(t)

	user := &models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(user).Error)

	token, err := tokens.Issue(user.Email)
	require.NoError(t, err)

	r := protectedRouter(requireAuth)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alice@example.com")
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	_, _, requireAuth := setupAuthMiddleware(t)

	r := protectedRouter(requireAuth)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	_, _, requireAuth := setupAuthMiddleware(t)

	r := protectedRouter(requireAuth)

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc", "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	_, _, requireAuth := setupAuthMiddleware(t)

	r := protectedRouter(requireAuth)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_SubjectNoLongerExists(t *testing.T) {
	_, tokens, requireAuth := setupAuthMiddleware(t)

	// Token for a user that was never created (or has been removed)
	token, err := tokens.Issue("ghost@example.com")
	require.NoError(t, err)

	r := protectedRouter(requireAuth)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
