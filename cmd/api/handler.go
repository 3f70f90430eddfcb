package api

import (
	dashboardDelivery "dayboard-backend/internal/dashboard/delivery"
	mailDelivery "dayboard-backend/internal/mail/delivery"
	mailUsecasePkg "dayboard-backend/internal/mail/usecase"
	scheduleDelivery "dayboard-backend/internal/schedule/delivery"
	scheduleUsecasePkg "dayboard-backend/internal/schedule/usecase"
	taskDelivery "dayboard-backend/internal/task/delivery"
	taskUsecasePkg "dayboard-backend/internal/task/usecase"
	triageDelivery "dayboard-backend/internal/triage/delivery"
	triageUsecasePkg "dayboard-backend/internal/triage/usecase"
	"dayboard-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	config *config.Config

	mailHandler      *mailDelivery.MailHandler
	triageHandler    *triageDelivery.TriageHandler
	taskHandler      *taskDelivery.TaskHandler
	scheduleHandler  *scheduleDelivery.ScheduleHandler
	dashboardHandler *dashboardDelivery.DashboardHandler
}

func NewHandler(
	cfg *config.Config,
	mailUc mailUsecasePkg.MailUsecase,
	analyzer *triageUsecasePkg.Analyzer,
	manager *triageUsecasePkg.Manager,
	replyGen triageDelivery.ReplyGenerator,
	prober mailDelivery.ProfileProber,
	taskUc taskUsecasePkg.TaskUsecase,
	scheduleUc scheduleUsecasePkg.ScheduleUsecase,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		config:           cfg,
		mailHandler:      mailDelivery.NewMailHandler(mailUc, cfg, prober),
		triageHandler:    triageDelivery.NewTriageHandler(analyzer, manager, replyGen),
		taskHandler:      taskDelivery.NewTaskHandler(taskUc),
		scheduleHandler:  scheduleDelivery.NewScheduleHandler(scheduleUc),
		dashboardHandler: dashboardDelivery.NewDashboardHandler(mailUc, taskUc, scheduleUc, log),
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Session-Id")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.config.JWTSecret, h.mailHandler, h.triageHandler, h.taskHandler, h.scheduleHandler, h.dashboardHandler)

	return r.Run(addr)
}
