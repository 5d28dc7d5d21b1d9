package dto

import (
	"time"

	"github.com/flowtask/flowtask-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         models.TaskStatus `json:"status"`
	Deadline       *time.Time        `json:"deadline"`
	AssignedUserID *uint64           `json:"assigned_user_id"`
	CreatedByID    uint64            `json:"created_by_id"`
	CreatedAt      time.Time         `json:"created_at"`
	AttachmentURL  string            `json:"attachment_url"`
	Creator        *UserDTO          `json:"creator,omitempty"`
	Assignee       *UserDTO          `json:"assignee,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Skip       int       `json:"skip"`
	Limit      int       `json:"limit"`
	TotalCount int64     `json:"total_count"`
}

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	UserID    uint64    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    *UserDTO  `json:"author,omitempty"`
}

// TaskHistoryDTO represents an audit log entry in API responses
type TaskHistoryDTO struct {
	ID                uint64    `json:"id"`
	TaskID            uint64    `json:"task_id"`
	UserID            uint64    `json:"user_id"`
	ChangeType        string    `json:"change_type"`
	ChangeDescription string    `json:"change_description"`
	ChangedAt         time.Time `json:"changed_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Deadline:       task.Deadline,
		AssignedUserID: task.AssignedUserID,
		CreatedByID:    task.CreatedByID,
		CreatedAt:      task.CreatedAt,
		AttachmentURL:  task.AttachmentURL,
	}

	// Include creator if preloaded
	if task.Creator != nil && task.Creator.ID != 0 {
		creator := ToUserDTO(*task.Creator)
		dto.Creator = &creator
	}

	// Include assignee if preloaded
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, skip, limit int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Skip:       skip,
		Limit:      limit,
		TotalCount: totalCount,
	}
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}

	if comment.User != nil && comment.User.ID != 0 {
		author := ToUserDTO(*comment.User)
		dto.Author = &author
	}

	return dto
}

// ToCommentDTOs converts a slice of Comment models
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	result := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		result[i] = ToCommentDTO(comment)
	}
	return result
}

// ToTaskHistoryDTO converts a TaskHistory model to TaskHistoryDTO
func ToTaskHistoryDTO(entry models.TaskHistory) TaskHistoryDTO {
	return TaskHistoryDTO{
		ID:                entry.ID,
		TaskID:            entry.TaskID,
		UserID:            entry.UserID,
		ChangeType:        entry.ChangeType,
		ChangeDescription: entry.ChangeDescription,
		ChangedAt:         entry.ChangedAt,
	}
}

// ToTaskHistoryDTOs converts a slice of TaskHistory models
func ToTaskHistoryDTOs(entries []models.TaskHistory) []TaskHistoryDTO {
	result := make([]TaskHistoryDTO, len(entries))
	for i, entry := range entries {
		result[i] = ToTaskHistoryDTO(entry)
	}
	return result
}
