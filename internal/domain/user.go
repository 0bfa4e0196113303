package domain

import (
	"time"
)

type User struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Fullname      string    `json:"fullname" gorm:"size:255;not null"`
	Username      string    `json:"username" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash  string    `json:"-" gorm:"not null"`
	Active        bool      `json:"-" gorm:"not null;default:true"`
	LoginAttempts int       `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Session binds an opaque access/refresh token pair to a user. A user may
// hold any number of concurrent sessions; rows are removed only by logout.
type Session struct {
	ID                 int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID             int64     `json:"userId" gorm:"not null;index"`
	AccessToken        string    `json:"-" gorm:"size:512;uniqueIndex;not null"`
	AccessTokenExpiry  time.Time `json:"-" gorm:"not null"`
	RefreshToken       string    `json:"-" gorm:"size:512;not null"`
	RefreshTokenExpiry time.Time `json:"-" gorm:"not null"`
	CreatedAt          time.Time `json:"createdAt"`
}
