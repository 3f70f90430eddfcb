package repository

import "dayboard-backend/internal/task/domain"

// TaskRepository defines the interface for task data access. Every lookup
// filters by owner; a mismatched owner reads as domain.ErrNotFound.
type TaskRepository interface {
	// Create inserts a new task
	Create(task *domain.Task) error

	// FindByOwner returns the owner's tasks, newest first
	FindByOwner(ownerID string) ([]*domain.Task, error)

	// FindByID finds one task scoped to its owner
	FindByID(id, ownerID string) (*domain.Task, error)

	// Update saves an already owner-checked task
	Update(task *domain.Task) error

	// Delete removes the task if it belongs to ownerID
	Delete(id, ownerID string) error

	// CountPending counts the owner's uncompleted tasks
	CountPending(ownerID string) (int64, error)
}
