package main

import (
	"os"
	"time"

	api "dayboard-backend/cmd/api"
	mailDelivery "dayboard-backend/internal/mail/delivery"
	maildomain "dayboard-backend/internal/mail/domain"
	mailUsecase "dayboard-backend/internal/mail/usecase"
	scheduledomain "dayboard-backend/internal/schedule/domain"
	scheduleRepo "dayboard-backend/internal/schedule/repository"
	scheduleUsecase "dayboard-backend/internal/schedule/usecase"
	taskdomain "dayboard-backend/internal/task/domain"
	taskRepo "dayboard-backend/internal/task/repository"
	taskUsecase "dayboard-backend/internal/task/usecase"
	triageDelivery "dayboard-backend/internal/triage/delivery"
	triageUsecase "dayboard-backend/internal/triage/usecase"
	"dayboard-backend/pkg/config"
	"dayboard-backend/pkg/database"
	"dayboard-backend/pkg/gmail"
	"dayboard-backend/pkg/groq"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&taskdomain.Task{}, &scheduledomain.ScheduleEvent{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize repositories (dependency injection)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	eventRepository := scheduleRepo.NewGormEventRepository(db)

	taskUc := taskUsecase.NewTaskUsecase(taskRepository)
	scheduleUc := scheduleUsecase.NewScheduleUsecase(eventRepository)

	// Gmail provider: missing credentials means permanent sample-data mode
	var provider *gmail.Service
	var mailProvider maildomain.Provider
	var prober mailDelivery.ProfileProber
	if cfg.HasGmailCredentials() {
		provider = gmail.NewService(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, log)
		mailProvider = provider
		prober = provider
		log.Info().Msg("gmail provider configured")
	} else {
		log.Warn().Msg("gmail credentials not set, serving sample data")
	}
	mailUc := mailUsecase.NewMailUsecase(mailProvider, log)

	// LLM classifier: missing key means heuristic-only
	var llm triageUsecase.EmailAnalyzer
	var replyGen triageDelivery.ReplyGenerator
	if cfg.GroqAPIKey != "" {
		client := groq.NewClient(groq.ClientConfig{APIKey: cfg.GroqAPIKey, Model: cfg.GroqModel})
		llm = client
		replyGen = client
		log.Info().Str("model", cfg.GroqModel).Msg("llm classifier configured")
	} else {
		log.Warn().Msg("GROQ_API_KEY not set, classification runs heuristic-only")
	}
	analyzer := triageUsecase.NewAnalyzer(llm, cfg.LLMTimeout, log)

	// Session-scoped triage pipelines
	manager := triageUsecase.NewManager(mailUc, analyzer, taskUc, scheduleUc, log)

	handler := api.NewHandler(cfg, mailUc, analyzer, manager, replyGen, prober, taskUc, scheduleUc, log)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
