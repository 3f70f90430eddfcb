package domain

import (
	"context"
	"time"
)

// Importance is the derived priority signal shown in the inbox list.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Message is one inbox message as returned by the mail provider.
// Immutable within a session except IsRead, which the provider may
// flip server-side between fetches.
type Message struct {
	ID         string     `json:"id"`
	Subject    string     `json:"subject"`
	From       string     `json:"from"`
	Snippet    string     `json:"snippet"`
	Body       string     `json:"body,omitempty"`
	ReceivedAt time.Time  `json:"date"`
	IsRead     bool       `json:"isRead"`
	Importance Importance `json:"importance"`
	Labels     []string   `json:"labels"`
}

// Provider is the narrow surface the rest of the system sees of the mail
// backend. It is implemented once against the Gmail API and once against
// the built-in sample set.
type Provider interface {
	// ListMessages returns up to maxResults inbox messages, most recent
	// first. Bodies are not populated; use GetMessage for the full text.
	ListMessages(ctx context.Context, maxResults int) ([]*Message, error)

	// GetMessage returns one message with its body decoded to plain text.
	GetMessage(ctx context.Context, id string) (*Message, error)

	// SendReply sends bodyText in the thread of inReplyToID and returns
	// the provider's id for the sent message.
	SendReply(ctx context.Context, inReplyToID, to, subject, bodyText string) (string, error)
}
