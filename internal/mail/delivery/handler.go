package delivery

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dayboard-backend/internal/mail/domain"
	"dayboard-backend/internal/mail/usecase"
	"dayboard-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// ProfileProber exposes the live account probe used by the credentials
// diagnostic. Nil when no provider is configured.
type ProfileProber interface {
	Profile(ctx context.Context) (email string, total int64, err error)
}

// MailHandler handles inbox HTTP requests
type MailHandler struct {
	mailUsecase usecase.MailUsecase
	cfg         *config.Config
	prober      ProfileProber
}

func NewMailHandler(mailUsecase usecase.MailUsecase, cfg *config.Config, prober ProfileProber) *MailHandler {
	return &MailHandler{mailUsecase: mailUsecase, cfg: cfg, prober: prober}
}

// GetMessages lists inbox messages, newest first
// GET /mail/messages?maxResults=10
func (h *MailHandler) GetMessages(c *gin.Context) {
	maxResults := 10
	if raw := c.Query("maxResults"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxResults = n
		}
	}

	result, err := h.mailUsecase.ListMessages(c.Request.Context(), maxResults)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch messages"})
		return
	}

	resp := gin.H{
		"messages":      result.Messages,
		"usingFallback": result.UsingFallback,
	}
	if result.Reason != "" {
		resp["reason"] = result.Reason
	}
	c.JSON(http.StatusOK, resp)
}

// GetMessage returns one message with its full body
// GET /mail/messages/:id
func (h *MailHandler) GetMessage(c *gin.Context) {
	id := c.Param("id")

	msg, fromSample, err := h.mailUsecase.GetMessage(c.Request.Context(), id)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error()})
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msg, "usingFallback": fromSample})
}

type replyRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendReply sends a reply in the original message's thread
// POST /mail/messages/:id/reply
func (h *MailHandler) SendReply(c *gin.Context) {
	id := c.Param("id")

	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	for field, value := range map[string]string{"to": req.To, "subject": req.Subject, "body": req.Body} {
		if strings.TrimSpace(value) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: " + field, "field": field})
			return
		}
	}

	sentID, err := h.mailUsecase.SendReply(c.Request.Context(), id, req.To, req.Subject, req.Body)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sentId": sentID})
}

// CheckCredentials reports presence and format diagnostics for the Gmail
// credentials plus a live token-refresh and profile probe
// GET /mail/credentials/check
func (h *MailHandler) CheckCredentials(c *gin.Context) {
	clientID := h.cfg.GmailClientID
	refreshToken := h.cfg.GmailRefreshToken

	diagnostics := gin.H{
		"hasClientId":        clientID != "",
		"hasClientSecret":    h.cfg.GmailClientSecret != "",
		"hasRefreshToken":    refreshToken != "",
		"clientIdFormat":     strings.HasSuffix(clientID, ".apps.googleusercontent.com"),
		"refreshTokenFormat": strings.HasPrefix(refreshToken, "1//"),
		"clientIdPreview":    preview(clientID, 20),
	}

	var probe gin.H
	if h.prober != nil {
		email, total, err := h.prober.Profile(c.Request.Context())
		switch {
		case err == nil:
			probe = gin.H{"success": true, "emailAddress": email, "messagesTotal": total}
		default:
			probe = gin.H{"success": false, "error": err.Error()}
			var authErr *domain.AuthError
			if errors.As(err, &authErr) && authErr.Hint != "" {
				probe["suggestion"] = authErr.Hint
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "credentials_check",
		"diagnostics": diagnostics,
		"probe":       probe,
	})
}

func preview(s string, n int) string {
	if s == "" {
		return ""
	}
	if len(s) <= n {
		return s + "..."
	}
	return s[:n] + "..."
}
