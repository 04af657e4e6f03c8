package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskmaster/internal/errors"
	"taskmaster/internal/model"
)

// TaskRepository defines task persistence operations. Every read and delete is
// scoped to an owner.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	ListByOwner(ctx context.Context, owner string) ([]model.Task, error)
	DeleteOwned(ctx context.Context, owner string, id uint) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create persists a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's tasks in insertion order.
func (r *taskRepository) ListByOwner(ctx context.Context, owner string) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	if err := r.db.WithContext(ctx).
		Where("owner_username = ?", owner).
		Order("id").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteOwned removes the task only if it belongs to owner. A task owned by
// someone else is reported exactly like a missing one.
func (r *taskRepository) DeleteOwned(ctx context.Context, owner string, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_username = ?", id, owner).
		Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrTaskNotFound
	}
	return nil
}
