package postgres

import (
	"context"

	"github.com/calebw/tasklist-api/internal/domain"
	"gorm.io/gorm"
)

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *taskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, "id = ? AND user_id = ?", taskID, userID).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) GetByCompleted(ctx context.Context, userID int64, completed bool) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, completed).
		Order("id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) GetPage(ctx context.Context, userID int64, limit, offset int) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, userID, taskID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&domain.Task{}, "id = ? AND user_id = ?", taskID, userID)
	return result.RowsAffected, result.Error
}
