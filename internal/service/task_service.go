package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calebw/tasklist-api/internal/config"
	"github.com/calebw/tasklist-api/internal/domain"
	"github.com/calebw/tasklist-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService implements task CRUD scoped by the authorized user id. Every
// query filters by user id in SQL, so one user's tasks can never be reached
// through another user's token.
type TaskService struct {
	repos *repository.Repositories
	cfg   *config.Config
}

func NewTaskService(repos *repository.Repositories, cfg *config.Config) *TaskService {
	return &TaskService{repos: repos, cfg: cfg}
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Deadline    *time.Time
	Completed   bool
}

// TaskPatch carries the fields of a partial update; nil fields are left
// unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Completed   *bool
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Deadline == nil && p.Completed == nil
}

// TaskPage is one page of a user's tasks plus paging metadata.
type TaskPage struct {
	Tasks           []*domain.Task
	TotalRows       int64
	TotalPages      int
	HasNextPage     bool
	HasPreviousPage bool
}

func (s *TaskService) Create(ctx context.Context, userID int64, input CreateTaskInput) (*domain.Task, error) {
	task := &domain.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Completed:   input.Completed,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repos.Task.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	task, err := s.repos.Task.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]*domain.Task, error) {
	tasks, err := s.repos.Task.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ListByCompleted(ctx context.Context, userID int64, completed bool) ([]*domain.Task, error) {
	tasks, err := s.repos.Task.GetByCompleted(ctx, userID, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ListPage(ctx context.Context, userID int64, page int) (*TaskPage, error) {
	total, err := s.repos.Task.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	perPage := s.cfg.TasksPerPage
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages == 0 {
		totalPages = 1
	}

	if page == 0 || page > totalPages {
		return nil, domain.ErrPageNotFound
	}

	offset := (page - 1) * perPage
	tasks, err := s.repos.Task.GetPage(ctx, userID, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}

	return &TaskPage{
		Tasks:           tasks,
		TotalRows:       total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID int64, patch TaskPatch) (*domain.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.Deadline != nil {
		task.Deadline = patch.Deadline
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	task.UpdatedAt = time.Now()

	if err := s.repos.Task.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	rows, err := s.repos.Task.Delete(ctx, userID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
