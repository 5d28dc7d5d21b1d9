package models

import (
	"time"
)

// Change types recorded in the task audit log.
const (
	ChangeTypeCreated         = "task_created"
	ChangeTypeStatusChanged   = "status_changed"
	ChangeTypeAssigneeChanged = "assignee_changed"
)

// TaskHistory is an append-only audit entry; rows are never updated.
type TaskHistory struct {
	ID                uint64    `gorm:"primarykey" json:"id"`
	TaskID            uint64    `gorm:"index;not null" json:"task_id"`
	UserID            uint64    `gorm:"index;not null" json:"user_id"`
	ChangeType        string    `gorm:"type:varchar(100);not null" json:"change_type"`
	ChangeDescription string    `gorm:"type:text" json:"change_description"`
	ChangedAt         time.Time `gorm:"autoCreateTime" json:"changed_at"`

	// Relations
	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
