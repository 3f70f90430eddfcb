package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dayboard-backend/internal/mail/domain"
	"dayboard-backend/internal/mail/usecase"
	"dayboard-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func mailRouter(uc usecase.MailUsecase, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMailHandler(uc, cfg, nil)
	r := gin.New()
	r.GET("/mail/messages", h.GetMessages)
	r.GET("/mail/messages/:id", h.GetMessage)
	r.POST("/mail/messages/:id/reply", h.SendReply)
	r.GET("/mail/credentials/check", h.CheckCredentials)
	return r
}

func TestGetMessagesFallbackShape(t *testing.T) {
	uc := usecase.NewMailUsecase(nil, zerolog.Nop())
	r := mailRouter(uc, &config.Config{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mail/messages?maxResults=2", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Messages      []*domain.Message `json:"messages"`
		UsingFallback bool              `json:"usingFallback"`
		Reason        string            `json:"reason"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !body.UsingFallback || body.Reason != usecase.ReasonMissingCredentials {
		t.Errorf("fallback metadata = %v/%q", body.UsingFallback, body.Reason)
	}
	if len(body.Messages) != 2 {
		t.Errorf("got %d messages, want 2 (maxResults)", len(body.Messages))
	}
}

func TestSendReplyValidatesFields(t *testing.T) {
	uc := usecase.NewMailUsecase(nil, zerolog.Nop())
	r := mailRouter(uc, &config.Config{})

	tests := []struct {
		name string
		body string
	}{
		{"missing to", `{"subject":"Re: hi","body":"text"}`},
		{"missing subject", `{"to":"a@b.com","body":"text"}`},
		{"missing body", `{"to":"a@b.com","subject":"Re: hi"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mail/messages/m1/reply", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), `"field"`) {
				t.Errorf("response should name the missing field: %s", w.Body.String())
			}
		})
	}
}

type brokenMailUsecase struct {
	getErr error
}

func (b *brokenMailUsecase) ListMessages(ctx context.Context, maxResults int) (*usecase.ListResult, error) {
	return &usecase.ListResult{}, nil
}

func (b *brokenMailUsecase) GetMessage(ctx context.Context, id string) (*domain.Message, bool, error) {
	return nil, false, b.getErr
}

func (b *brokenMailUsecase) SendReply(ctx context.Context, inReplyToID, to, subject, body string) (string, error) {
	return "", nil
}

func TestGetMessageErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown id", domain.ErrNotFound, http.StatusNotFound},
		{"provider outage", &domain.TransportError{Op: "get", Err: context.DeadlineExceeded}, http.StatusInternalServerError},
		{"credential failure", &domain.AuthError{Reason: "invalid_grant"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mailRouter(&brokenMailUsecase{getErr: tt.err}, &config.Config{})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mail/messages/m1", nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestSendReplyWithoutProviderFails(t *testing.T) {
	uc := usecase.NewMailUsecase(nil, zerolog.Nop())
	r := mailRouter(uc, &config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/mail/messages/m1/reply",
		strings.NewReader(`{"to":"a@b.com","subject":"Re: hi","body":"text"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

type probeStub struct {
	email string
	err   error
}

func (p *probeStub) Profile(ctx context.Context) (string, int64, error) {
	return p.email, 42, p.err
}

func TestCheckCredentialsDiagnostics(t *testing.T) {
	cfg := &config.Config{
		GmailClientID:     "12345.apps.googleusercontent.com",
		GmailClientSecret: "secret",
		GmailRefreshToken: "1//abcdef",
	}
	gin.SetMode(gin.TestMode)
	h := NewMailHandler(usecase.NewMailUsecase(nil, zerolog.Nop()), cfg, &probeStub{email: "me@gmail.com"})
	r := gin.New()
	r.GET("/mail/credentials/check", h.CheckCredentials)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mail/credentials/check", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Diagnostics map[string]any `json:"diagnostics"`
		Probe       map[string]any `json:"probe"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Diagnostics["clientIdFormat"] != true || body.Diagnostics["refreshTokenFormat"] != true {
		t.Errorf("format checks failed: %v", body.Diagnostics)
	}
	if body.Probe["success"] != true || body.Probe["emailAddress"] != "me@gmail.com" {
		t.Errorf("probe = %v", body.Probe)
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Error("client secret leaked into diagnostics")
	}
}

func TestCheckCredentialsAuthHint(t *testing.T) {
	cfg := &config.Config{GmailClientID: "x", GmailClientSecret: "y", GmailRefreshToken: "z"}
	probe := &probeStub{err: &domain.AuthError{Reason: "invalid_grant", Hint: "re-authorize the app"}}

	gin.SetMode(gin.TestMode)
	h := NewMailHandler(usecase.NewMailUsecase(nil, zerolog.Nop()), cfg, probe)
	r := gin.New()
	r.GET("/mail/credentials/check", h.CheckCredentials)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mail/credentials/check", nil))

	if !strings.Contains(w.Body.String(), "re-authorize the app") {
		t.Errorf("expected remediation hint in probe: %s", w.Body.String())
	}
}
