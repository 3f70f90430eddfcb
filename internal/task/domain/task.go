package domain

import (
	"errors"
	"time"
)

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// OriginEmail tags tasks spawned by the mail triage flow.
const OriginEmail = "email"

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	OwnerID     string     `json:"ownerId" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority" gorm:"default:medium"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	OriginTag   string     `json:"originTag,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ErrNotFound covers both a missing id and an id owned by someone else;
// the two are indistinguishable on purpose.
var ErrNotFound = errors.New("task not found")

// ValidationError names the missing or malformed field in a request.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// StoreError is an underlying transport or query failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "task store " + e.Op + " failed: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s)
	default:
		return PriorityMedium
	}
}
