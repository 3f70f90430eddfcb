package gmail

import (
	"encoding/base64"
	"strings"
	"time"

	maildomain "dayboard-backend/internal/mail/domain"

	"google.golang.org/api/gmail/v1"
)

func convertMessage(msg *gmail.Message, withBody bool) *maildomain.Message {
	subject := getHeader(msg.Payload.Headers, "Subject")
	if subject == "" {
		subject = "No Subject"
	}
	from := getHeader(msg.Payload.Headers, "From")
	if from == "" {
		from = "Unknown Sender"
	}

	out := &maildomain.Message{
		ID:         msg.Id,
		Subject:    subject,
		From:       from,
		Snippet:    msg.Snippet,
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
		IsRead:     !hasLabel(msg.LabelIds, "UNREAD"),
		Importance: InferImportance(subject, from),
		Labels:     msg.LabelIds,
	}
	if out.Labels == nil {
		out.Labels = []string{}
	}

	if withBody {
		out.Body = decodeBody(msg.Payload)
		if out.Body == "" {
			out.Body = msg.Snippet
		}
	}

	return out
}

// decodeBody decodes the base64url transport encoding, preferring the
// text/plain part of multipart messages.
func decodeBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(data)
		}
	}

	var plain strings.Builder
	var findPlain func(parts []*gmail.MessagePart)
	findPlain = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
					plain.Write(data)
				}
			}
			if len(part.Parts) > 0 {
				findPlain(part.Parts)
			}
		}
	}
	findPlain(payload.Parts)

	return plain.String()
}

var (
	urgentKeywords = []string{"urgent", "asap", "important", "critical", "emergency"}
	mediumKeywords = []string{"meeting", "deadline", "reminder", "action required"}
)

// InferImportance derives the importance signal from subject and sender
// when the provider does not supply one.
func InferImportance(subject, from string) maildomain.Importance {
	subjectLower := strings.ToLower(subject)
	fromLower := strings.ToLower(from)

	for _, kw := range urgentKeywords {
		if strings.Contains(subjectLower, kw) {
			return maildomain.ImportanceHigh
		}
	}

	for _, kw := range mediumKeywords {
		if strings.Contains(subjectLower, kw) {
			return maildomain.ImportanceMedium
		}
	}
	if strings.Contains(fromLower, "noreply") || strings.Contains(fromLower, "no-reply") {
		return maildomain.ImportanceMedium
	}

	return maildomain.ImportanceLow
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func hasLabel(labels []string, labelID string) bool {
	for _, l := range labels {
		if l == labelID {
			return true
		}
	}
	return false
}
