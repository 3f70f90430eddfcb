package delivery

import (
	"net/http"
	"time"

	mailusecase "dayboard-backend/internal/mail/usecase"
	scheduleusecase "dayboard-backend/internal/schedule/usecase"
	taskusecase "dayboard-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// connectedDevices is a fixed figure; device management lives entirely in
// the client.
const connectedDevices = 5

// DashboardHandler aggregates the landing-page stats
type DashboardHandler struct {
	mailUsecase     mailusecase.MailUsecase
	taskUsecase     taskusecase.TaskUsecase
	scheduleUsecase scheduleusecase.ScheduleUsecase
	log             zerolog.Logger
}

func NewDashboardHandler(
	mail mailusecase.MailUsecase,
	tasks taskusecase.TaskUsecase,
	schedule scheduleusecase.ScheduleUsecase,
	log zerolog.Logger,
) *DashboardHandler {
	return &DashboardHandler{mailUsecase: mail, taskUsecase: tasks, scheduleUsecase: schedule, log: log}
}

// GetStats returns the dashboard counters. Degraded sources count what they
// can (sample messages count in fallback mode) rather than failing the page.
// GET /dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	ownerID := c.GetString("userID")

	unread := 0
	if result, err := h.mailUsecase.ListMessages(c.Request.Context(), 50); err == nil {
		for _, m := range result.Messages {
			if !m.IsRead {
				unread++
			}
		}
	} else {
		h.log.Warn().Err(err).Msg("dashboard: inbox unavailable")
	}

	pendingTasks, err := h.taskUsecase.CountPending(ownerID)
	if err != nil {
		h.log.Warn().Err(err).Msg("dashboard: task count unavailable")
	}

	today := time.Now().Format("2006-01-02")
	todayEvents, err := h.scheduleUsecase.CountOnDate(ownerID, today)
	if err != nil {
		h.log.Warn().Err(err).Msg("dashboard: event count unavailable")
	}

	c.JSON(http.StatusOK, gin.H{
		"unreadMessages":   unread,
		"pendingTasks":     pendingTasks,
		"todayEvents":      todayEvents,
		"connectedDevices": connectedDevices,
	})
}
