package repository

import (
	"errors"

	"dayboard-backend/internal/schedule/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) EventRepository {
	return &gormEventRepository{db: db}
}

func (r *gormEventRepository) Create(event *domain.ScheduleEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := r.db.Create(event).Error; err != nil {
		return &domain.StoreError{Op: "create", Err: err}
	}
	return nil
}

func (r *gormEventRepository) FindByOwner(ownerID string) ([]*domain.ScheduleEvent, error) {
	var events []*domain.ScheduleEvent
	err := r.db.
		Where("owner_id = ?", ownerID).
		Order("date ASC, time ASC").
		Find(&events).Error
	if err != nil {
		return nil, &domain.StoreError{Op: "list", Err: err}
	}
	return events, nil
}

func (r *gormEventRepository) FindByID(id, ownerID string) (*domain.ScheduleEvent, error) {
	var event domain.ScheduleEvent
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "find", Err: err}
	}
	return &event, nil
}

func (r *gormEventRepository) Update(event *domain.ScheduleEvent) error {
	res := r.db.Model(&domain.ScheduleEvent{}).
		Where("id = ? AND owner_id = ?", event.ID, event.OwnerID).
		Select("title", "description", "date", "time", "reminder_minutes", "updated_at").
		Updates(event)
	if res.Error != nil {
		return &domain.StoreError{Op: "update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gormEventRepository) Delete(id, ownerID string) error {
	res := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.ScheduleEvent{})
	if res.Error != nil {
		return &domain.StoreError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gormEventRepository) CountOnDate(ownerID, date string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ScheduleEvent{}).
		Where("owner_id = ? AND date = ?", ownerID, date).
		Count(&count).Error
	if err != nil {
		return 0, &domain.StoreError{Op: "count", Err: err}
	}
	return count, nil
}
