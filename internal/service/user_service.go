package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calebw/tasklist-api/internal/domain"
	"github.com/calebw/tasklist-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repos *repository.Repositories
}

func NewUserService(repos *repository.Repositories) *UserService {
	return &UserService{repos: repos}
}

type RegisterInput struct {
	Fullname string
	Username string
	Password string
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)

	_, err := s.repos.User.GetByUsername(ctx, username)
	if err == nil {
		return nil, domain.ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Fullname:     strings.TrimSpace(input.Fullname),
		Username:     username,
		PasswordHash: string(hashed),
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repos.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
