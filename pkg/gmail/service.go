package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	maildomain "dayboard-backend/internal/mail/domain"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Service implements maildomain.Provider against the Gmail REST API using
// the offline refresh-token grant (client id/secret/refresh token from the
// environment, authorized via the OAuth playground).
type Service struct {
	clientID     string
	clientSecret string
	refreshToken string
	cb           *gobreaker.CircuitBreaker
	log          zerolog.Logger
}

func NewService(clientID, clientSecret, refreshToken string, log zerolog.Logger) *Service {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "gmail-api",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		cb:           cb,
		log:          log,
	}
}

// newGmailService builds an authenticated Gmail client, forcing a token
// refresh so credential problems surface here rather than mid-request.
func (s *Service) newGmailService(ctx context.Context) (*gmail.Service, error) {
	token := &oauth2.Token{
		RefreshToken: refreshTokenValue(s.refreshToken),
		TokenType:    "Bearer",
		Expiry:       time.Now(), // expired on purpose: first use refreshes
	}

	cfg := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	ts := cfg.TokenSource(ctx, token)
	if _, err := ts.Token(); err != nil {
		return nil, classifyAuthErr(err)
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, &maildomain.TransportError{Op: "init", Err: err}
	}
	return srv, nil
}

// ListMessages fetches up to maxResults inbox messages, most recent first.
func (s *Service) ListMessages(ctx context.Context, maxResults int) ([]*maildomain.Message, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		return s.listMessages(ctx, maxResults)
	})
	if err != nil {
		return nil, breakerErr("list", err)
	}
	return out.([]*maildomain.Message), nil
}

func (s *Service) listMessages(ctx context.Context, maxResults int) ([]*maildomain.Message, error) {
	srv, err := s.newGmailService(ctx)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = 20
	}
	if maxResults > 500 {
		maxResults = 500 // Gmail API maximum
	}

	listResp, err := srv.Users.Messages.List("me").
		Q("in:inbox").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &maildomain.TransportError{Op: "list", Err: err}
	}

	messages := make([]*maildomain.Message, 0, len(listResp.Messages))

	// Fetch details in parallel with a bounded number of in-flight calls.
	type result struct {
		msg *maildomain.Message
		err error
	}
	resultCh := make(chan result, len(listResp.Messages))
	semaphore := make(chan struct{}, 10)

	for _, m := range listResp.Messages {
		go func(id string) {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			full, err := srv.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
			if err != nil {
				resultCh <- result{nil, err}
				return
			}
			resultCh <- result{convertMessage(full, false), nil}
		}(m.Id)
	}

	for range listResp.Messages {
		r := <-resultCh
		if r.err != nil {
			s.log.Warn().Err(r.err).Msg("skipping unfetchable message")
			continue
		}
		messages = append(messages, r.msg)
	}

	// Parallel fetching scrambles the order.
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].ReceivedAt.After(messages[j].ReceivedAt)
	})

	return messages, nil
}

// GetMessage fetches one message with its body decoded to plain text.
func (s *Service) GetMessage(ctx context.Context, id string) (*maildomain.Message, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		srv, err := s.newGmailService(ctx)
		if err != nil {
			return nil, err
		}
		full, err := srv.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
		if err != nil {
			var apiErr *googleapi.Error
			if errors.As(err, &apiErr) && apiErr.Code == 404 {
				return nil, maildomain.ErrNotFound
			}
			return nil, &maildomain.TransportError{Op: "get", Err: err}
		}
		return convertMessage(full, true), nil
	})
	if err != nil {
		return nil, breakerErr("get", err)
	}
	return out.(*maildomain.Message), nil
}

// SendReply sends bodyText in the thread of inReplyToID. The original's
// Message-ID and References headers are copied into the reply so the
// provider groups it with the conversation.
func (s *Service) SendReply(ctx context.Context, inReplyToID, to, subject, bodyText string) (string, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		return s.sendReply(ctx, inReplyToID, to, subject, bodyText)
	})
	if err != nil {
		if _, ok := err.(*maildomain.AuthError); ok {
			return "", err
		}
		if _, ok := err.(*maildomain.SendError); ok {
			return "", err
		}
		return "", &maildomain.SendError{Detail: err.Error()}
	}
	return out.(string), nil
}

func (s *Service) sendReply(ctx context.Context, inReplyToID, to, subject, bodyText string) (string, error) {
	srv, err := s.newGmailService(ctx)
	if err != nil {
		return "", err
	}

	var threadID, messageID, references string
	if inReplyToID != "" {
		orig, err := srv.Users.Messages.Get("me", inReplyToID).
			Format("metadata").
			MetadataHeaders("Message-ID", "References").
			Context(ctx).
			Do()
		if err != nil {
			return "", &maildomain.SendError{Detail: fmt.Sprintf("cannot load original message: %v", err)}
		}
		threadID = orig.ThreadId
		messageID = getHeader(orig.Payload.Headers, "Message-ID")
		references = getHeader(orig.Payload.Headers, "References")
	}

	var raw bytes.Buffer
	raw.WriteString(fmt.Sprintf("To: %s\r\n", to))
	raw.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeHeader(subject)))
	if messageID != "" {
		raw.WriteString(fmt.Sprintf("In-Reply-To: %s\r\n", messageID))
		refs := messageID
		if references != "" {
			refs = references + " " + messageID
		}
		raw.WriteString(fmt.Sprintf("References: %s\r\n", refs))
	}
	raw.WriteString("MIME-Version: 1.0\r\n")
	raw.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	raw.WriteString(bodyText)

	msg := &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString(raw.Bytes()),
		ThreadId: threadID,
	}

	sent, err := srv.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return "", &maildomain.SendError{Detail: err.Error()}
	}

	s.log.Info().Str("sentId", sent.Id).Str("threadId", sent.ThreadId).Msg("reply sent")
	return sent.Id, nil
}

// Profile returns the authenticated account's address and message counts.
// Used by the credentials diagnostic endpoint.
func (s *Service) Profile(ctx context.Context) (email string, total int64, err error) {
	srv, err := s.newGmailService(ctx)
	if err != nil {
		return "", 0, err
	}
	p, err := srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", 0, &maildomain.TransportError{Op: "profile", Err: err}
	}
	return p.EmailAddress, p.MessagesTotal, nil
}

func breakerErr(op string, err error) error {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return &maildomain.TransportError{Op: op, Err: err}
	}
	return err
}

// refreshTokenValue strips stray quotes users paste in from .env files.
func refreshTokenValue(v string) string {
	return strings.Trim(strings.TrimSpace(v), `'"`)
}

func classifyAuthErr(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "invalid_grant"):
		return &maildomain.AuthError{
			Reason: "invalid_grant",
			Hint:   "Refresh token expired or revoked. Re-authorize the app in Google OAuth Playground.",
		}
	case strings.Contains(msg, "invalid_client"):
		return &maildomain.AuthError{
			Reason: "invalid_client",
			Hint:   "Invalid client ID. Verify it ends with .apps.googleusercontent.com.",
		}
	case strings.Contains(msg, "unauthorized_client"):
		return &maildomain.AuthError{
			Reason: "unauthorized_client",
			Hint:   "App not authorized. Check the OAuth consent screen and test users.",
		}
	default:
		return &maildomain.TransportError{Op: "token refresh", Err: err}
	}
}

func encodeHeader(v string) string {
	// RFC 2047 encoding for non-ASCII subjects
	for _, r := range v {
		if r > 127 {
			return fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(v)))
		}
	}
	return v
}
