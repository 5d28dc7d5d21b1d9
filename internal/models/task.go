package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To do"
	TaskStatusInProgress TaskStatus = "In progress"
	TaskStatusDone       TaskStatus = "Done"
)

// IsValid reports whether the status is one of the canonical values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         TaskStatus `gorm:"type:varchar(50);not null;check:status IN ('To do','In progress','Done')" json:"status"`
	Deadline       *time.Time `json:"deadline"`
	AssignedUserID *uint64    `gorm:"index" json:"assigned_user_id"`
	CreatedByID    uint64     `gorm:"index" json:"created_by_id"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	AttachmentURL  string     `gorm:"type:varchar(500)" json:"attachment_url"`

	// Relations
	Creator  *User         `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	Assignee *User         `gorm:"foreignKey:AssignedUserID" json:"assignee,omitempty"`
	Comments []Comment     `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	History  []TaskHistory `gorm:"foreignKey:TaskID" json:"history,omitempty"`
}
