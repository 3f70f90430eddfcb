package usecase

import (
	"context"
	"strings"
	"time"

	"dayboard-backend/internal/task/domain"
	"dayboard-backend/internal/task/repository"
)

// CreateTaskRequest carries a user-submitted task.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"` // RFC3339 or YYYY-MM-DD
}

// UpdateTaskRequest is a partial patch; nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"` // empty string clears the date
	Completed   *bool   `json:"completed"`
}

// TaskUsecase is the owner-scoped task service.
type TaskUsecase interface {
	List(ownerID string) ([]*domain.Task, error)
	Create(ownerID string, req CreateTaskRequest) (*domain.Task, error)
	Update(ownerID, id string, patch UpdateTaskRequest) (*domain.Task, error)
	Delete(ownerID, id string) error
	CountPending(ownerID string) (int64, error)

	// CreateFromTriage persists a task confirmed in the mail triage flow.
	CreateFromTriage(ctx context.Context, ownerID, title, description, priority string, dueDate *time.Time) error
}

type taskUsecase struct {
	taskRepo repository.TaskRepository
}

func NewTaskUsecase(taskRepo repository.TaskRepository) TaskUsecase {
	return &taskUsecase{taskRepo: taskRepo}
}

func (u *taskUsecase) List(ownerID string) ([]*domain.Task, error) {
	return u.taskRepo.FindByOwner(ownerID)
}

func (u *taskUsecase) Create(ownerID string, req CreateTaskRequest) (*domain.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &domain.ValidationError{Field: "title"}
	}

	task := &domain.Task{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.ParsePriority(req.Priority),
		DueDate:     parseDate(req.DueDate),
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) Update(ownerID, id string, patch UpdateTaskRequest) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, &domain.ValidationError{Field: "title"}
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = domain.ParsePriority(*patch.Priority)
	}
	if patch.DueDate != nil {
		if *patch.DueDate == "" {
			task.DueDate = nil
		} else {
			task.DueDate = parseDate(patch.DueDate)
		}
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}

	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) Delete(ownerID, id string) error {
	return u.taskRepo.Delete(id, ownerID)
}

func (u *taskUsecase) CountPending(ownerID string) (int64, error) {
	return u.taskRepo.CountPending(ownerID)
}

func (u *taskUsecase) CreateFromTriage(ctx context.Context, ownerID, title, description, priority string, dueDate *time.Time) error {
	if strings.TrimSpace(title) == "" {
		return &domain.ValidationError{Field: "title"}
	}
	return u.taskRepo.Create(&domain.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Priority:    domain.ParsePriority(priority),
		DueDate:     dueDate,
		OriginTag:   domain.OriginEmail,
	})
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", *s); err == nil {
		return &t
	}
	return nil
}
