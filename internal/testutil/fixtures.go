package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/calebw/tasklist-api/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	fullname      string
	username      string
	password      string
	active        bool
	loginAttempts int
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		fullname: "Test User",
		username: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password: "testpassword123",
		active:   true,
	}
}

// WithFullname sets the full name
func (b *UserBuilder) WithFullname(fullname string) *UserBuilder {
	b.fullname = fullname
	return b
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Inactive marks the account as deactivated
func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// WithLoginAttempts sets the failed-attempt counter
func (b *UserBuilder) WithLoginAttempts(attempts int) *UserBuilder {
	b.loginAttempts = attempts
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Fullname:      b.fullname,
		Username:      b.username,
		PasswordHash:  string(hashedPassword),
		Active:        b.active,
		LoginAttempts: b.loginAttempts,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// SessionBuilder creates test sessions with a builder pattern
type SessionBuilder struct {
	userID        int64
	accessExpiry  time.Time
	refreshExpiry time.Time
}

// NewSessionBuilder creates a SessionBuilder with both tokens unexpired
func NewSessionBuilder(userID int64) *SessionBuilder {
	return &SessionBuilder{
		userID:        userID,
		accessExpiry:  time.Now().Add(20 * time.Minute),
		refreshExpiry: time.Now().Add(14 * 24 * time.Hour),
	}
}

// WithAccessExpiry sets the access token expiry
func (b *SessionBuilder) WithAccessExpiry(expiry time.Time) *SessionBuilder {
	b.accessExpiry = expiry
	return b
}

// WithRefreshExpiry sets the refresh token expiry
func (b *SessionBuilder) WithRefreshExpiry(expiry time.Time) *SessionBuilder {
	b.refreshExpiry = expiry
	return b
}

// Build creates the session in the database with freshly generated tokens
func (b *SessionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Session {
	t.Helper()

	session := &domain.Session{
		UserID:             b.userID,
		AccessToken:        fmt.Sprintf("access_%s", uuid.New().String()),
		AccessTokenExpiry:  b.accessExpiry,
		RefreshToken:       fmt.Sprintf("refresh_%s", uuid.New().String()),
		RefreshTokenExpiry: b.refreshExpiry,
		CreatedAt:          time.Now(),
	}

	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return session
}

// TaskBuilder creates test tasks with a builder pattern
type TaskBuilder struct {
	userID      int64
	title       string
	description *string
	deadline    *time.Time
	completed   bool
}

// NewTaskBuilder creates a TaskBuilder with default values
func NewTaskBuilder(userID int64) *TaskBuilder {
	return &TaskBuilder{
		userID: userID,
		title:  fmt.Sprintf("task_%s", uuid.New().String()[:8]),
	}
}

// WithTitle sets the title
func (b *TaskBuilder) WithTitle(title string) *TaskBuilder {
	b.title = title
	return b
}

// WithDescription sets the description
func (b *TaskBuilder) WithDescription(description string) *TaskBuilder {
	b.description = &description
	return b
}

// WithDeadline sets the deadline
func (b *TaskBuilder) WithDeadline(deadline time.Time) *TaskBuilder {
	b.deadline = &deadline
	return b
}

// Completed marks the task as done
func (b *TaskBuilder) Completed() *TaskBuilder {
	b.completed = true
	return b
}

// Build creates the task in the database
func (b *TaskBuilder) Build(t *testing.T, db *gorm.DB) *domain.Task {
	t.Helper()

	task := &domain.Task{
		UserID:      b.userID,
		Title:       b.title,
		Description: b.description,
		Deadline:    b.deadline,
		Completed:   b.completed,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}
