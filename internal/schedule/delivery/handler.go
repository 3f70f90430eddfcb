package delivery

import (
	"errors"
	"net/http"

	"dayboard-backend/internal/schedule/domain"
	"dayboard-backend/internal/schedule/usecase"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler handles schedule-related HTTP requests
type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase) *ScheduleHandler {
	return &ScheduleHandler{scheduleUsecase: scheduleUsecase}
}

// GetEvents returns all schedule events for the authenticated user
// GET /schedule
func (h *ScheduleHandler) GetEvents(c *gin.Context) {
	ownerID := c.GetString("userID")

	events, err := h.scheduleUsecase.List(ownerID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	if events == nil {
		events = []*domain.ScheduleEvent{}
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CreateEvent creates a new schedule event
// POST /schedule
func (h *ScheduleHandler) CreateEvent(c *gin.Context) {
	ownerID := c.GetString("userID")

	var req usecase.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.scheduleUsecase.Create(ownerID, req)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

type updateEventBody struct {
	ID string `json:"id"`
	usecase.UpdateEventRequest
}

// UpdateEvent updates an existing schedule event, owner-scoped
// PUT /schedule
func (h *ScheduleHandler) UpdateEvent(c *gin.Context) {
	ownerID := c.GetString("userID")

	var body updateEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: id", "field": "id"})
		return
	}

	event, err := h.scheduleUsecase.Update(ownerID, body.ID, body.UpdateEventRequest)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent deletes a schedule event, owner-scoped
// DELETE /schedule?id=...
func (h *ScheduleHandler) DeleteEvent(c *gin.Context) {
	ownerID := c.GetString("userID")

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: id", "field": "id"})
		return
	}

	if err := h.scheduleUsecase.Delete(ownerID, id); err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondScheduleError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
}
