package delivery

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dayboard-backend/internal/triage/usecase"

	"github.com/gin-gonic/gin"
)

// ReplyGenerator produces a standalone reply draft outside the pipeline.
// Nil when no LLM is configured; the handler then serves the heuristic draft.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, subject, from, body string) (string, error)
}

// TriageHandler exposes the classifier and the session-scoped triage pipeline
type TriageHandler struct {
	analyzer *usecase.Analyzer
	manager  *usecase.Manager
	replyGen ReplyGenerator
}

func NewTriageHandler(analyzer *usecase.Analyzer, manager *usecase.Manager, replyGen ReplyGenerator) *TriageHandler {
	return &TriageHandler{analyzer: analyzer, manager: manager, replyGen: replyGen}
}

type classifyRequest struct {
	Subject    string `json:"subject"`
	From       string `json:"from"`
	Body       string `json:"body"`
	Regenerate bool   `json:"regenerate"`
}

// Classify analyzes one email. Never fails: the heuristic covers any
// LLM outage.
// POST /classify
func (h *TriageHandler) Classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	analysis := h.analyzer.Analyze(c.Request.Context(), req.Subject, req.From, req.Body, req.Regenerate)
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// GenerateReply drafts a reply for an email without classifying it
// POST /reply/generate
func (h *TriageHandler) GenerateReply(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if h.replyGen != nil {
		if reply, err := h.replyGen.GenerateReply(c.Request.Context(), req.Subject, req.From, req.Body); err == nil {
			c.JSON(http.StatusOK, gin.H{"reply": reply, "source": "llm"})
			return
		}
	}
	analysis := usecase.Classify(req.Subject, req.From, req.Body, false)
	c.JSON(http.StatusOK, gin.H{"reply": analysis.Reply, "source": "heuristic"})
}

func (h *TriageHandler) session(c *gin.Context) *usecase.Pipeline {
	sessionID := strings.TrimSpace(c.GetHeader("X-Session-Id"))
	if sessionID == "" {
		sessionID = "default"
	}
	ownerID := c.GetString("userID")
	if ownerID == "" {
		ownerID = sessionID
	}
	return h.manager.Session(sessionID, ownerID)
}

// State returns the session's current pipeline snapshot
// GET /triage/state
func (h *TriageHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

// Refresh fetches the inbox into the session
// POST /triage/refresh?maxResults=10
func (h *TriageHandler) Refresh(c *gin.Context) {
	maxResults := 10
	if raw := c.Query("maxResults"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxResults = n
		}
	}

	if _, err := h.session(c).Refresh(c.Request.Context(), maxResults); err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

// Open selects a message and starts its analysis
// POST /triage/open/:id
func (h *TriageHandler) Open(c *gin.Context) {
	if _, err := h.session(c).Open(c.Request.Context(), c.Param("id")); err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

// Regenerate re-runs classification for a fresh reply draft
// POST /triage/regenerate
func (h *TriageHandler) Regenerate(c *gin.Context) {
	if _, err := h.session(c).Regenerate(c.Request.Context()); err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

type setReplyRequest struct {
	Reply string `json:"reply"`
}

// SetReply overwrites the editable reply buffer
// PUT /triage/reply
func (h *TriageHandler) SetReply(c *gin.Context) {
	var req setReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.session(c).SetReply(req.Reply); err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

type sendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
}

// Send delivers the buffered reply. On failure the buffer survives so the
// user can retry.
// POST /triage/send
func (h *TriageHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sentID, state, err := h.session(c).Send(c.Request.Context(), req.To, req.Subject)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidTransition) {
			respondPipelineError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "state": state})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sentId": sentID, "state": state})
}

// ConfirmTask creates the suggested task or event and finishes the flow
// POST /triage/task/confirm
func (h *TriageHandler) ConfirmTask(c *gin.Context) {
	if err := h.session(c).ConfirmTask(c.Request.Context()); err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

// DeclineTask finishes the flow without persisting anything
// POST /triage/task/decline
func (h *TriageHandler) DeclineTask(c *gin.Context) {
	if err := h.session(c).DeclineTask(); err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

func respondPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
