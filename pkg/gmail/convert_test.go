package gmail

import (
	"encoding/base64"
	"testing"

	maildomain "dayboard-backend/internal/mail/domain"

	"google.golang.org/api/gmail/v1"
)

func TestInferImportance(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		from     string
		expected maildomain.Importance
	}{
		{
			name:     "urgent keyword in subject",
			subject:  "URGENT: server down",
			from:     "ops@example.com",
			expected: maildomain.ImportanceHigh,
		},
		{
			name:     "asap keyword",
			subject:  "need this asap",
			from:     "boss@co.com",
			expected: maildomain.ImportanceHigh,
		},
		{
			name:     "critical beats meeting",
			subject:  "critical meeting about launch",
			from:     "pm@co.com",
			expected: maildomain.ImportanceHigh,
		},
		{
			name:     "meeting keyword",
			subject:  "Team meeting tomorrow",
			from:     "team@co.com",
			expected: maildomain.ImportanceMedium,
		},
		{
			name:     "action required",
			subject:  "Action Required: confirm your account",
			from:     "support@example.com",
			expected: maildomain.ImportanceMedium,
		},
		{
			name:     "noreply sender",
			subject:  "Your receipt",
			from:     "noreply@shop.example.com",
			expected: maildomain.ImportanceMedium,
		},
		{
			name:     "no-reply sender",
			subject:  "Your receipt",
			from:     "no-reply@shop.example.com",
			expected: maildomain.ImportanceMedium,
		},
		{
			name:     "plain message",
			subject:  "Lunch?",
			from:     "friend@example.com",
			expected: maildomain.ImportanceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferImportance(tt.subject, tt.from)
			if got != tt.expected {
				t.Errorf("InferImportance(%q, %q) = %q, want %q", tt.subject, tt.from, got, tt.expected)
			}
		})
	}
}

func b64url(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestDecodeBody(t *testing.T) {
	t.Run("top-level body", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: b64url("hello world")},
		}
		if got := decodeBody(payload); got != "hello world" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("prefers text/plain part of multipart", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64url("<p>html</p>")}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64url("plain text")}},
			},
		}
		if got := decodeBody(payload); got != "plain text" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("nested multipart", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64url("nested plain")}},
					},
				},
			},
		}
		if got := decodeBody(payload); got != "nested plain" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		if got := decodeBody(&gmail.MessagePart{}); got != "" {
			t.Errorf("got %q", got)
		}
	})
}

func TestConvertMessage(t *testing.T) {
	msg := &gmail.Message{
		Id:           "abc123",
		Snippet:      "preview text",
		InternalDate: 1700000000000,
		LabelIds:     []string{"INBOX", "UNREAD"},
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Weekly reminder"},
				{Name: "From", Value: "Alice <alice@example.com>"},
			},
			Body: &gmail.MessagePartBody{Data: b64url("full body")},
		},
	}

	got := convertMessage(msg, true)

	if got.ID != "abc123" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.Subject != "Weekly reminder" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if got.IsRead {
		t.Error("expected unread")
	}
	if got.Importance != maildomain.ImportanceMedium {
		t.Errorf("Importance = %q, want medium (reminder keyword)", got.Importance)
	}
	if got.Body != "full body" {
		t.Errorf("Body = %q", got.Body)
	}

	listed := convertMessage(msg, false)
	if listed.Body != "" {
		t.Errorf("list conversion should not carry a body, got %q", listed.Body)
	}
}

func TestConvertMessageDefaults(t *testing.T) {
	msg := &gmail.Message{
		Id:      "x",
		Payload: &gmail.MessagePart{},
	}
	got := convertMessage(msg, false)
	if got.Subject != "No Subject" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if got.From != "Unknown Sender" {
		t.Errorf("From = %q", got.From)
	}
	if got.Labels == nil {
		t.Error("Labels should be non-nil")
	}
}

func TestEncodeHeader(t *testing.T) {
	if got := encodeHeader("plain ascii"); got != "plain ascii" {
		t.Errorf("ascii subject should pass through, got %q", got)
	}
	got := encodeHeader("héllo")
	if got == "héllo" {
		t.Error("non-ascii subject should be RFC 2047 encoded")
	}
	if want := "=?utf-8?B?"; len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("unexpected encoding %q", got)
	}
}
