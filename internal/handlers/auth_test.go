package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/flowtask/flowtask-api/internal/auth"
	"github.com/flowtask/flowtask-api/internal/constants"
	"github.com/flowtask/flowtask-api/internal/database"
	"github.com/flowtask/flowtask-api/internal/dto"
	"github.com/flowtask/flowtask-api/internal/models"
	"github.com/flowtask/flowtask-api/internal/repository"
	"github.com/flowtask/flowtask-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	userService *services.UserService
	tokens      *auth.TokenService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Comment{},
		&models.TaskHistory{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	hasher := auth.NewPasswordHasher(4)
	tokens := auth.NewTokenService("test-secret", 30*time.Minute)
	userService := services.NewUserService(userRepo, hasher)
	handler := NewAuthHandler(userService, tokens)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		userService: userService,
		tokens:      tokens,
	}
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/auth/register", env.handler.Register)

	payload := map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice@example.com", response.Email)
	require.Equal(t, "Alice", response.Name)

	// The hash must never appear in the response
	require.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/auth/register", env.handler.Register)

	payload := map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	for i, wantCode := range []int{http.StatusCreated, http.StatusBadRequest} {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)
		require.Equal(t, wantCode, w.Code, "request %d", i)
	}
}

func TestAuthHandler_LoginJSON(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.userService.Register(services.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/auth/login-json", env.handler.LoginJSON)

	payload := map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login-json", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "bearer", response.TokenType)

	subject, err := env.tokens.Validate(response.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", subject)
}

func TestAuthHandler_LoginJSON_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.userService.Register(services.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/auth/login-json", env.handler.LoginJSON)

	// Wrong password stays wrong no matter how many good logins happened
	for i := 0; i < 3; i++ {
		payload := map[string]string{
			"email":    "alice@example.com",
			"password": "not-the-password",
		}
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/auth/login-json", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestAuthHandler_LoginForm(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.userService.Register(services.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/auth/login", env.handler.Login)

	form := url.Values{}
	form.Set("username", "alice@example.com")
	form.Set("password", "supersecret")

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.AccessToken)
	require.Equal(t, "bearer", response.TokenType)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.userService.Register(services.RegisterInput{
		Email:    "current@example.com",
		Name:     "Current User",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.Email, response.Email)
}
