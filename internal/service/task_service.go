package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jellydator/validation"
	"go.uber.org/zap"

	"taskmaster/internal/errors"
	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

const (
	maxTextLength     = 500
	maxCategoryLength = 50
)

// NewTask is the client-controlled part of a task. Ownership is never part of it.
type NewTask struct {
	Text        string
	IsCompleted bool
	Category    string
}

// Validate implements validation.Validatable.
func (n NewTask) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Text, validation.Required, validation.By(notBlank), validation.RuneLength(1, maxTextLength)),
		validation.Field(&n.Category, validation.RuneLength(0, maxCategoryLength)),
	)
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "cannot be blank")
	}
	return nil
}

// TaskService handles task operations on behalf of an authenticated owner.
type TaskService interface {
	List(ctx context.Context, owner string) ([]model.Task, error)
	Add(ctx context.Context, owner string, in NewTask) (*model.Task, error)
	Delete(ctx context.Context, owner string, id uint) error
}

type taskService struct {
	logger *zap.SugaredLogger
	tasks  repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(logger *zap.SugaredLogger, tasks repository.TaskRepository) TaskService {
	return &taskService{logger: logger, tasks: tasks}
}

// List returns the owner's tasks only.
func (s *taskService) List(ctx context.Context, owner string) ([]model.Task, error) {
	return s.tasks.ListByOwner(ctx, owner)
}

// Add validates the input and stores it as a task of owner.
func (s *taskService) Add(ctx context.Context, owner string, in NewTask) (*model.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	task := &model.Task{
		Text:          in.Text,
		IsCompleted:   in.IsCompleted,
		Category:      category,
		OwnerUsername: owner,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task if owner owns it; otherwise errors.ErrTaskNotFound.
func (s *taskService) Delete(ctx context.Context, owner string, id uint) error {
	if err := s.tasks.DeleteOwned(ctx, owner, id); err != nil {
		return err
	}
	s.logger.Infow("task deleted", "owner", owner, "task_id", id)
	return nil
}
