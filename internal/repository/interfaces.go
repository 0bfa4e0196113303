package repository

import (
	"context"
	"time"

	"github.com/calebw/tasklist-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	IncrementLoginAttempts(ctx context.Context, id int64) error
	ResetLoginAttempts(ctx context.Context, id int64) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByAccessToken(ctx context.Context, accessToken string) (*domain.Session, error)
	GetByTokenTriple(ctx context.Context, id int64, accessToken, refreshToken string) (*domain.Session, error)
	// Rotate replaces both tokens and expiries, matching on the current
	// token pair. It returns the number of rows updated so callers can
	// detect a concurrent rotation.
	Rotate(ctx context.Context, current *domain.Session, accessToken string, accessExpiry time.Time, refreshToken string, refreshExpiry time.Time) (int64, error)
	// Delete removes the session matching both id and access token and
	// returns the number of rows deleted.
	Delete(ctx context.Context, id int64, accessToken string) (int64, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, userID, taskID int64) (*domain.Task, error)
	GetByUserID(ctx context.Context, userID int64) ([]*domain.Task, error)
	GetByCompleted(ctx context.Context, userID int64, completed bool) ([]*domain.Task, error)
	GetPage(ctx context.Context, userID int64, limit, offset int) ([]*domain.Task, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, userID, taskID int64) (int64, error)
}

// Transactor groups writes from multiple repositories into a single
// commit-or-rollback unit. The callback receives repositories bound to the
// transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
	Task    TaskRepository
	Tx      Transactor
}
