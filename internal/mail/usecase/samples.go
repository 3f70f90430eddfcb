package usecase

import (
	"time"

	"dayboard-backend/internal/mail/domain"
)

// SampleMessages returns the built-in inbox shown when the provider is
// unavailable. Exactly three messages, one per importance level.
func SampleMessages() []*domain.Message {
	now := time.Now()
	return []*domain.Message{
		{
			ID:         "sample-1",
			Subject:    "Welcome to Your Dashboard",
			From:       "welcome@example.com",
			Snippet:    "Thank you for joining our platform. Here's how to get started...",
			Body:       "Thank you for joining our platform. Here's how to get started: connect your mail account, add a few tasks, and explore the schedule view.",
			ReceivedAt: now.Add(-2 * time.Hour),
			IsRead:     false,
			Importance: domain.ImportanceHigh,
			Labels:     []string{"INBOX", "IMPORTANT"},
		},
		{
			ID:         "sample-2",
			Subject:    "Weekly Team Meeting",
			From:       "team@company.com",
			Snippet:    "Don't forget about our weekly team meeting scheduled for tomorrow...",
			Body:       "Don't forget about our weekly team meeting scheduled for tomorrow at 10:00. Agenda: project status, blockers, next sprint planning.",
			ReceivedAt: now.Add(-24 * time.Hour),
			IsRead:     true,
			Importance: domain.ImportanceMedium,
			Labels:     []string{"INBOX"},
		},
		{
			ID:         "sample-3",
			Subject:    "Newsletter: Latest Updates",
			From:       "newsletter@updates.com",
			Snippet:    "Check out the latest features and improvements in this month's update...",
			Body:       "Check out the latest features and improvements in this month's update. We shipped a faster inbox view and new schedule reminders.",
			ReceivedAt: now.Add(-48 * time.Hour),
			IsRead:     true,
			Importance: domain.ImportanceLow,
			Labels:     []string{"INBOX"},
		},
	}
}
