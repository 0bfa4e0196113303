package domain

import (
	"time"
)

// DeadlineFormat is the wire format for task deadlines.
const DeadlineFormat = "02/01/2006 15:04"

type Task struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      int64      `json:"-" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
