package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flowtask/flowtask-api/internal/models"
	"github.com/flowtask/flowtask-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidStatus    = errors.New("status must be one of 'To do', 'In progress', 'Done'")
	ErrAssigneeNotFound = errors.New("assigned user does not exist")
	ErrContentRequired  = errors.New("comment content is required")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// TaskInput carries every client-settable task field. It is used for both
// creation and update: updates replace all of these fields wholesale.
// The creator is never part of it; it is taken from the authenticated
// caller at creation and immutable afterwards.
type TaskInput struct {
	Title          string
	Description    string
	Status         models.TaskStatus
	Deadline       *time.Time
	AssignedUserID *uint64
	AttachmentURL  string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status         *models.TaskStatus
	AssignedUserID *uint64
	Offset         int
	Limit          int
}

// Create creates a task on behalf of the authenticated creator. The
// initial audit entry is written in the same transaction.
func (s *TaskService) Create(input TaskInput, creatorID uint64) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		Deadline:       input.Deadline,
		AssignedUserID: input.AssignedUserID,
		AttachmentURL:  input.AttachmentURL,
		CreatedByID:    creatorID,
	}

	entry := &models.TaskHistory{
		UserID:            creatorID,
		ChangeType:        models.ChangeTypeCreated,
		ChangeDescription: fmt.Sprintf("task created with status %q", input.Status),
	}

	if err := s.taskRepo.CreateWithHistory(task, entry); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// Get returns a task with its creator and assignee loaded
func (s *TaskService) Get(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// List returns tasks matching the given filters
func (s *TaskService) List(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Status:         input.Status,
		AssignedUserID: input.AssignedUserID,
		Offset:         input.Offset,
		Limit:          input.Limit,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Update replaces every mutable field of the task with the supplied
// values. Status and assignee changes are recorded in the audit log
// within the same transaction as the update.
func (s *TaskService) Update(taskID uint64, input TaskInput, actorID uint64) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	entries := changeEntries(task, input, actorID)
	applyReplacement(task, input)

	if err := s.taskRepo.UpdateWithHistory(task, entries); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// Delete removes a task. Dependent comments and history rows are removed
// in the same transaction.
func (s *TaskService) Delete(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AddComment attaches a comment to a task on behalf of the author
func (s *TaskService) AddComment(taskID, authorID uint64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.Comment{
		TaskID:  taskID,
		UserID:  authorID,
		Content: content,
	}

	if err := s.taskRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListComments returns a task's comments, newest first
func (s *TaskService) ListComments(taskID uint64, offset, limit int) ([]models.Comment, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comments, err := s.taskRepo.ListComments(taskID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// ListHistory returns a task's audit log, newest first
func (s *TaskService) ListHistory(taskID uint64, offset, limit int) ([]models.TaskHistory, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	entries, err := s.taskRepo.ListHistory(taskID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return entries, nil
}

// validateInput checks the status value and, when an assignee is given,
// that the referenced user exists.
func (s *TaskService) validateInput(input TaskInput) error {
	if !input.Status.IsValid() {
		return ErrInvalidStatus
	}

	if input.AssignedUserID != nil {
		if _, err := s.userRepo.FindByID(*input.AssignedUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssigneeNotFound
			}
			return fmt.Errorf("failed to verify assignee: %w", err)
		}
	}

	return nil
}

// applyReplacement overwrites every mutable field of the task. CreatedByID
// is deliberately never copied: the creator reference is immutable after
// creation, whatever the request payload carried.
func applyReplacement(task *models.Task, input TaskInput) {
	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.Deadline = input.Deadline
	task.AssignedUserID = input.AssignedUserID
	task.AttachmentURL = input.AttachmentURL
}

// changeEntries builds the audit entries for the field transitions an
// update is about to apply.
func changeEntries(task *models.Task, input TaskInput, actorID uint64) []models.TaskHistory {
	var entries []models.TaskHistory

	if task.Status != input.Status {
		entries = append(entries, models.TaskHistory{
			TaskID:            task.ID,
			UserID:            actorID,
			ChangeType:        models.ChangeTypeStatusChanged,
			ChangeDescription: fmt.Sprintf("status changed from %q to %q", task.Status, input.Status),
		})
	}

	if !equalAssignee(task.AssignedUserID, input.AssignedUserID) {
		entries = append(entries, models.TaskHistory{
			TaskID:            task.ID,
			UserID:            actorID,
			ChangeType:        models.ChangeTypeAssigneeChanged,
			ChangeDescription: fmt.Sprintf("assignee changed from %s to %s", assigneeLabel(task.AssignedUserID), assigneeLabel(input.AssignedUserID)),
		})
	}

	return entries
}

func equalAssignee(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func assigneeLabel(id *uint64) string {
	if id == nil {
		return "nobody"
	}
	return fmt.Sprintf("user %d", *id)
}
