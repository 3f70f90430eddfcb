package api

import (
	"net/http"

	authDelivery "dayboard-backend/internal/auth/delivery"
	dashboardDelivery "dayboard-backend/internal/dashboard/delivery"
	mailDelivery "dayboard-backend/internal/mail/delivery"
	scheduleDelivery "dayboard-backend/internal/schedule/delivery"
	taskDelivery "dayboard-backend/internal/task/delivery"
	triageDelivery "dayboard-backend/internal/triage/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret string,
	mailHandler *mailDelivery.MailHandler,
	triageHandler *triageDelivery.TriageHandler,
	taskHandler *taskDelivery.TaskHandler,
	scheduleHandler *scheduleDelivery.ScheduleHandler,
	dashboardHandler *dashboardDelivery.DashboardHandler,
) {
	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Mail routes (credential-backed, not user-scoped)
	mail := r.Group("/mail")
	{
		mail.GET("/messages", mailHandler.GetMessages)
		mail.GET("/messages/:id", mailHandler.GetMessage)
		mail.POST("/messages/:id/reply", mailHandler.SendReply)
		mail.GET("/credentials/check", mailHandler.CheckCredentials)
	}

	// Stateless classification
	r.POST("/classify", triageHandler.Classify)
	r.POST("/reply/generate", triageHandler.GenerateReply)

	// Triage pipeline, session-scoped via X-Session-Id. Auth is optional
	// here, but a presented token binds persisted tasks/events to the user.
	triage := r.Group("/triage")
	triage.Use(authDelivery.OptionalAuthMiddleware(jwtSecret))
	{
		triage.GET("/state", triageHandler.State)
		triage.POST("/refresh", triageHandler.Refresh)
		triage.POST("/open/:id", triageHandler.Open)
		triage.POST("/regenerate", triageHandler.Regenerate)
		triage.PUT("/reply", triageHandler.SetReply)
		triage.POST("/send", triageHandler.Send)
		triage.POST("/task/confirm", triageHandler.ConfirmTask)
		triage.POST("/task/decline", triageHandler.DeclineTask)
	}

	auth := authDelivery.AuthMiddleware(jwtSecret)

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(auth)
	{
		tasks.GET("", taskHandler.GetTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.PUT("", taskHandler.UpdateTask)
		tasks.DELETE("", taskHandler.DeleteTask)
	}

	// Schedule routes (protected)
	schedule := r.Group("/schedule")
	schedule.Use(auth)
	{
		schedule.GET("", scheduleHandler.GetEvents)
		schedule.POST("", scheduleHandler.CreateEvent)
		schedule.PUT("", scheduleHandler.UpdateEvent)
		schedule.DELETE("", scheduleHandler.DeleteEvent)
	}

	// Dashboard routes (protected)
	dashboard := r.Group("/dashboard")
	dashboard.Use(auth)
	{
		dashboard.GET("/stats", dashboardHandler.GetStats)
	}
}
