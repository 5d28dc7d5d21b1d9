package repository

import (
	"github.com/flowtask/flowtask-api/internal/database"
	"github.com/flowtask/flowtask-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithHistory creates a task and its initial audit entry atomically.
func (r *GormTaskRepository) CreateWithHistory(task *models.Task, entry *models.TaskHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		entry.TaskID = task.ID
		return tx.Create(entry).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssignedUserID != nil {
		query = query.Where("tasks.assigned_user_id = ?", *filter.AssignedUserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")

	if filter.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Offset, filter.Limit))
	}

	if err := listQuery.Preload("Creator").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateWithHistory saves a task and appends audit entries atomically.
func (r *GormTaskRepository) UpdateWithHistory(task *models.Task, entries []models.TaskHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

// Delete removes a task and cascades to its comments and audit log.
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskHistory{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// CreateComment attaches a comment to a task
func (r *GormTaskRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListComments retrieves a task's comments, newest first
func (r *GormTaskRepository) ListComments(taskID uint64, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Scopes(database.Paginate(offset, limit)).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListHistory retrieves a task's audit log, newest first
func (r *GormTaskRepository) ListHistory(taskID uint64, offset, limit int) ([]models.TaskHistory, error) {
	var entries []models.TaskHistory
	if err := r.db.
		Where("task_id = ?", taskID).
		Order("changed_at DESC").
		Scopes(database.Paginate(offset, limit)).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
