package usecase

import (
	"context"
	"errors"

	"dayboard-backend/internal/mail/domain"

	"github.com/rs/zerolog"
)

// Fallback reason codes reported alongside sample data.
const (
	ReasonMissingCredentials = "missing_credentials"
	ReasonAuthError          = "auth_error"
	ReasonAPIError           = "api_error"
)

// ListResult is the outcome of an inbox fetch, including whether the
// built-in samples were substituted and why.
type ListResult struct {
	Messages      []*domain.Message
	UsingFallback bool
	Reason        string
}

// MailUsecase owns the read-path degradation policy: provider failures on
// reads substitute sample data instead of erroring, while sends always
// surface their failure so the draft can be retried.
type MailUsecase interface {
	ListMessages(ctx context.Context, maxResults int) (*ListResult, error)
	GetMessage(ctx context.Context, id string) (*domain.Message, bool, error)
	SendReply(ctx context.Context, inReplyToID, to, subject, body string) (string, error)
}

type mailUsecase struct {
	provider domain.Provider // nil when credentials are not configured
	log      zerolog.Logger
}

// NewMailUsecase creates the inbox usecase. Pass a nil provider to run in
// permanent sample-data mode.
func NewMailUsecase(provider domain.Provider, log zerolog.Logger) MailUsecase {
	return &mailUsecase{provider: provider, log: log}
}

func (u *mailUsecase) ListMessages(ctx context.Context, maxResults int) (*ListResult, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	if u.provider == nil {
		return sampleResult(maxResults, ReasonMissingCredentials), nil
	}

	messages, err := u.provider.ListMessages(ctx, maxResults)
	if err != nil {
		reason := ReasonAPIError
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			reason = ReasonAuthError
		}
		u.log.Warn().Err(err).Str("reason", reason).Msg("inbox fetch failed, serving sample data")
		return sampleResult(maxResults, reason), nil
	}

	return &ListResult{Messages: messages}, nil
}

// GetMessage returns the message and whether it came from the sample set.
func (u *mailUsecase) GetMessage(ctx context.Context, id string) (*domain.Message, bool, error) {
	if u.provider == nil {
		if msg := sampleByID(id); msg != nil {
			return msg, true, nil
		}
		return nil, true, domain.ErrNotFound
	}

	msg, err := u.provider.GetMessage(ctx, id)
	if err != nil {
		// A sample id can still be opened after a degraded list.
		if sample := sampleByID(id); sample != nil {
			return sample, true, nil
		}
		return nil, false, err
	}
	return msg, false, nil
}

func (u *mailUsecase) SendReply(ctx context.Context, inReplyToID, to, subject, body string) (string, error) {
	if u.provider == nil {
		return "", &domain.SendError{Detail: "mail provider credentials are not configured"}
	}
	return u.provider.SendReply(ctx, inReplyToID, to, subject, body)
}

func sampleResult(maxResults int, reason string) *ListResult {
	samples := SampleMessages()
	if maxResults < len(samples) {
		samples = samples[:maxResults]
	}
	return &ListResult{Messages: samples, UsingFallback: true, Reason: reason}
}

func sampleByID(id string) *domain.Message {
	for _, m := range SampleMessages() {
		if m.ID == id {
			return m
		}
	}
	return nil
}
