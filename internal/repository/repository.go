package repository

import (
	"github.com/flowtask/flowtask-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email (case-sensitive exact match)
	FindByEmail(email string) (*models.User, error)

	// List retrieves users ordered by creation time, newest first
	List(offset, limit int) ([]models.User, error)
}

// TaskFilter holds filtering and pagination options for listing tasks
type TaskFilter struct {
	Status         *models.TaskStatus
	AssignedUserID *uint64
	Offset         int
	Limit          int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateWithHistory creates a task and its initial audit entry in one
	// transaction
	CreateWithHistory(task *models.Task, entry *models.TaskHistory) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// UpdateWithHistory saves a task and appends audit entries in one
	// transaction
	UpdateWithHistory(task *models.Task, entries []models.TaskHistory) error

	// Delete removes a task along with its comments and history
	Delete(id uint64) error

	// CreateComment attaches a comment to a task
	CreateComment(comment *models.Comment) error

	// ListComments retrieves a task's comments, newest first
	ListComments(taskID uint64, offset, limit int) ([]models.Comment, error)

	// ListHistory retrieves a task's audit log, newest first
	ListHistory(taskID uint64, offset, limit int) ([]models.TaskHistory, error)
}
