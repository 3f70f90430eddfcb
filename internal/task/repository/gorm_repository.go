package repository

import (
	"errors"
	"time"

	"dayboard-backend/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	if err := r.db.Create(task).Error; err != nil {
		return &domain.StoreError{Op: "create", Err: err}
	}
	return nil
}

func (r *gormTaskRepository) FindByOwner(ownerID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	return tasks, nil
}

func (r *gormTaskRepository) FindByID(id, ownerID string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StoreError{Op: "find", Err: err}
	}
	return &task, nil
}

func (r *gormTaskRepository) Update(task *domain.Task) error {
	task.UpdatedAt = time.Now()
	res := r.db.Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", task.ID, task.OwnerID).
		Select("title", "description", "priority", "due_date", "completed", "updated_at").
		Updates(task)
	if res.Error != nil {
		return &domain.StoreError{Op: "update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gormTaskRepository) Delete(id, ownerID string) error {
	res := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.Task{})
	if res.Error != nil {
		return &domain.StoreError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gormTaskRepository) CountPending(ownerID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Task{}).
		Where("owner_id = ? AND completed = ?", ownerID, false).
		Count(&count).Error
	if err != nil {
		return 0, &domain.StoreError{Op: "count", Err: err}
	}
	return count, nil
}
