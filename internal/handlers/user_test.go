package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/flowtask/flowtask-api/internal/auth"
	"github.com/flowtask/flowtask-api/internal/database"
	"github.com/flowtask/flowtask-api/internal/dto"
	"github.com/flowtask/flowtask-api/internal/models"
	"github.com/flowtask/flowtask-api/internal/repository"
	"github.com/flowtask/flowtask-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserTestEnv(t *testing.T) (*gorm.DB, *UserHandler) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo, auth.NewPasswordHasher(4))
	handler := NewUserHandler(userService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, handler
}

func TestUserHandler_CreateUser(t *testing.T) {
	_, handler := setupUserTestEnv(t)

	r := gin.New()
	r.POST("/users", handler.CreateUser)

	payload := map[string]string{
		"email":    "bob@example.com",
		"name":     "Bob",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "bob@example.com", response.Email)
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	_, handler := setupUserTestEnv(t)

	r := gin.New()
	r.GET("/users/:id", handler.GetUser)

	req := httptest.NewRequest(http.MethodGet, "/users/9999", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_ListUsers_OrderAndLimit(t *testing.T) {
	db, handler := setupUserTestEnv(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, email := range []string{"first@example.com", "second@example.com", "third@example.com"} {
		user := &models.User{
			Email:        email,
			Name:         "User",
			PasswordHash: "hashedpassword",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(user).Error)
	}

	r := gin.New()
	r.GET("/users", handler.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/users?limit=2", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response []dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	// Newest first, capped at the requested limit
	require.Len(t, response, 2)
	require.Equal(t, "third@example.com", response[0].Email)
	require.Equal(t, "second@example.com", response[1].Email)
}

func TestUserHandler_ListUsers_SkipsLeadingRows(t *testing.T) {
	db, handler := setupUserTestEnv(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, email := range []string{"first@example.com", "second@example.com", "third@example.com"} {
		user := &models.User{
			Email:        email,
			Name:         "User",
			PasswordHash: "hashedpassword",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(user).Error)
	}

	r := gin.New()
	r.GET("/users", handler.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/users?skip=1&limit=10", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response []dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)
	require.Equal(t, "second@example.com", response[0].Email)
	require.Equal(t, "first@example.com", response[1].Email)
}
