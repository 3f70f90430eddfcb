package repository

import "dayboard-backend/internal/schedule/domain"

// EventRepository persists schedule events. All lookups that take an
// ownerID are scoped to that owner at the query level.
type EventRepository interface {
	Create(event *domain.ScheduleEvent) error
	FindByOwner(ownerID string) ([]*domain.ScheduleEvent, error)
	FindByID(id, ownerID string) (*domain.ScheduleEvent, error)
	Update(event *domain.ScheduleEvent) error
	Delete(id, ownerID string) error
	CountOnDate(ownerID, date string) (int64, error)
}
