package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	CreatedTasks   []Task        `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedTasks  []Task        `gorm:"foreignKey:AssignedUserID" json:"-"`
	Comments       []Comment     `gorm:"foreignKey:UserID" json:"-"`
	HistoryEntries []TaskHistory `gorm:"foreignKey:UserID" json:"-"`
}
