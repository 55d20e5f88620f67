package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"washbot/config"
	"washbot/cron"
	"washbot/database"
	"washbot/handlers"
	"washbot/middleware"
	"washbot/routes"
	"washbot/services/booking"
	"washbot/services/knowledge"
	"washbot/services/rag"
	"washbot/services/schedule"
	"washbot/services/tasks"
	"washbot/utils"
	"washbot/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shared Gemini client for embeddings; the orchestrator owns its own.
	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize gemini client: %v", err)
	}
	defer genaiClient.Close()

	// Knowledge base over Mongo.
	store, err := knowledge.NewMongoStore(ctx, database.ChunkCollection(), knowledge.NewGeminiEmbedder(genaiClient))
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize knowledge store: %v", err)
	}
	ingestor := knowledge.NewIngestor(logger)

	// Spreadsheet-backed slot store.
	slotRepo, err := schedule.NewSheetsSlotRepo(ctx,
		config.AppConfig.GoogleServiceAccountFile,
		config.AppConfig.SpreadsheetID,
		config.AppConfig.WorksheetName,
		utils.GetCacheClient(), logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize slot repository: %v", err)
	}

	// Tool executor and generation orchestrator.
	executor := booking.NewExecutor(config.AppConfig.AppointmentAPIBaseURL, logger)
	engine, err := rag.NewEngine(ctx, config.AppConfig.GeminiAPIKey, store, executor, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize generation engine: %v", err)
	}
	defer engine.Close()

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &routes.HandlerBundle{
		Appointments: handlers.NewAppointmentHandler(slotRepo),
		Chat:         handlers.NewChatHandler(engine),
		Ingest:       handlers.NewIngestHandler(store, ingestor),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Streaming channel plus the reminder pipeline around it.
	hub := ws.NewHub()
	scheduler := tasks.NewScheduler(logger)
	defer scheduler.Close()
	cron.InitReminderWorker(ctx, hub)

	wsServer := ws.NewServer(hub, engine, scheduler, logger)
	go func() {
		if err := wsServer.Run(ctx, "0.0.0.0:"+config.AppConfig.WSPort); err != nil {
			logger.Sugar().Fatalf("main: streaming channel failed: %v", err)
		}
	}()

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "5200"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
