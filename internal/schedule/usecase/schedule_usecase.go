package usecase

import (
	"context"
	"strings"

	"dayboard-backend/internal/schedule/domain"
	"dayboard-backend/internal/schedule/repository"
)

type CreateEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	ReminderMinutes *int   `json:"reminderMinutes"`
}

// UpdateEventRequest patches an event. Nil fields are left untouched.
type UpdateEventRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	ReminderMinutes *int    `json:"reminderMinutes"`
}

type ScheduleUsecase interface {
	List(ownerID string) ([]*domain.ScheduleEvent, error)
	Create(ownerID string, req CreateEventRequest) (*domain.ScheduleEvent, error)
	Update(ownerID, id string, patch UpdateEventRequest) (*domain.ScheduleEvent, error)
	Delete(ownerID, id string) error
	CountOnDate(ownerID, date string) (int64, error)

	// CreateFromTriage persists an event confirmed in the mail triage flow.
	CreateFromTriage(ctx context.Context, ownerID, title, description, date, timeOfDay string) error
}

type scheduleUsecase struct {
	eventRepo repository.EventRepository
}

func NewScheduleUsecase(eventRepo repository.EventRepository) ScheduleUsecase {
	return &scheduleUsecase{eventRepo: eventRepo}
}

func (u *scheduleUsecase) List(ownerID string) ([]*domain.ScheduleEvent, error) {
	return u.eventRepo.FindByOwner(ownerID)
}

func (u *scheduleUsecase) Create(ownerID string, req CreateEventRequest) (*domain.ScheduleEvent, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &domain.ValidationError{Field: "title"}
	}
	if !domain.ValidDate(req.Date) {
		return nil, &domain.ValidationError{Field: "date"}
	}
	if req.Time != "" && !domain.ValidTime(req.Time) {
		return nil, &domain.ValidationError{Field: "time"}
	}

	reminder := domain.DefaultReminderMinutes
	if req.ReminderMinutes != nil {
		if *req.ReminderMinutes < 0 {
			return nil, &domain.ValidationError{Field: "reminderMinutes"}
		}
		reminder = *req.ReminderMinutes
	}

	event := &domain.ScheduleEvent{
		OwnerID:         ownerID,
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		ReminderMinutes: reminder,
	}
	if err := u.eventRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (u *scheduleUsecase) Update(ownerID, id string, patch UpdateEventRequest) (*domain.ScheduleEvent, error) {
	event, err := u.eventRepo.FindByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, &domain.ValidationError{Field: "title"}
		}
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Date != nil {
		if !domain.ValidDate(*patch.Date) {
			return nil, &domain.ValidationError{Field: "date"}
		}
		event.Date = *patch.Date
	}
	if patch.Time != nil {
		if *patch.Time != "" && !domain.ValidTime(*patch.Time) {
			return nil, &domain.ValidationError{Field: "time"}
		}
		event.Time = *patch.Time
	}
	if patch.ReminderMinutes != nil {
		if *patch.ReminderMinutes < 0 {
			return nil, &domain.ValidationError{Field: "reminderMinutes"}
		}
		event.ReminderMinutes = *patch.ReminderMinutes
	}

	if err := u.eventRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (u *scheduleUsecase) Delete(ownerID, id string) error {
	return u.eventRepo.Delete(id, ownerID)
}

func (u *scheduleUsecase) CountOnDate(ownerID, date string) (int64, error) {
	return u.eventRepo.CountOnDate(ownerID, date)
}

func (u *scheduleUsecase) CreateFromTriage(ctx context.Context, ownerID, title, description, date, timeOfDay string) error {
	if strings.TrimSpace(title) == "" {
		return &domain.ValidationError{Field: "title"}
	}
	if !domain.ValidDate(date) {
		return &domain.ValidationError{Field: "date"}
	}
	if timeOfDay != "" && !domain.ValidTime(timeOfDay) {
		timeOfDay = ""
	}
	return u.eventRepo.Create(&domain.ScheduleEvent{
		OwnerID:         ownerID,
		Title:           title,
		Description:     description,
		Date:            date,
		Time:            timeOfDay,
		ReminderMinutes: domain.DefaultReminderMinutes,
	})
}
