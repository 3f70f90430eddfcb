package domain

import (
	"errors"
	"fmt"
	"time"
)

// ScheduleEvent is a calendar entry owned by a single user. Date is stored
// as YYYY-MM-DD and Time as HH:MM so entries sort lexically in day order.
type ScheduleEvent struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	OwnerID         string    `gorm:"index;not null" json:"-"`
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `json:"description"`
	Date            string    `gorm:"index;not null" json:"date"`
	Time            string    `json:"time"`
	ReminderMinutes int       `json:"reminderMinutes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DefaultReminderMinutes applies when a client omits the reminder lead time.
const DefaultReminderMinutes = 15

var ErrNotFound = errors.New("event not found")

type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("schedule store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidTime reports whether s is a well-formed HH:MM time of day.
func ValidTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
