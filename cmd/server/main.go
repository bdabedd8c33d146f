package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"goodtime-diagnostic/internal/cache"
	"goodtime-diagnostic/internal/config"
	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/llm"
	"goodtime-diagnostic/internal/model"
	"goodtime-diagnostic/internal/repository"
	"goodtime-diagnostic/internal/service"
	"goodtime-diagnostic/internal/transport/rest"
	"goodtime-diagnostic/internal/transport/ws"
	"goodtime-diagnostic/internal/wizard"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	log.Printf("AI Config:")
	if cfg.AI.IsEnabled() {
		log.Printf("  Provider:  %s", cfg.AI.Provider)
		log.Printf("  Model:     %s", cfg.AI.Model())
	} else {
		log.Println("  Provider:  NOT SET (using fallback texts)")
	}

	// MongoDB connection (optional)
	var db *mongo.Database
	if cfg.MongoURI == "" {
		log.Println("Warning: MONGO_URI not set, diagnostics are not archived")
	} else {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Fatal("Failed to ping MongoDB:", err)
		}
		log.Println("Connected to MongoDB")
		db = mongoClient.Database(cfg.MongoDB)
	}

	// Redis connection (optional)
	var rdb *redis.Client
	if cfg.RedisURI == "" {
		log.Println("Warning: REDIS_URI not set, sessions live in memory only")
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr(),
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	bank := diagnostic.DefaultBank()

	// LLM provider
	provider, err := llm.NewProvider(ctx, cfg.AI)
	if err != nil {
		log.Fatal("Failed to initialise LLM provider:", err)
	}

	// Initialize repositories
	var diagnosticRepo repository.DiagnosticRepo
	var statusRepo repository.StatusRepo
	if db != nil {
		diagnosticRepo = repository.NewDiagnosticRepo(db)
		statusRepo = repository.NewStatusRepo(db)
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.SessionTTL)
	analystSvc := service.NewAnalystService(provider, diagnosticRepo, bank)
	analystSvc.SetGeneration(cfg.AI.MaxTokens, cfg.AI.Temperature, time.Duration(cfg.AI.TimeoutMS)*time.Millisecond)
	statusSvc := service.NewStatusService(statusRepo)

	wizardCfg := wizard.Config{
		Variant: model.Variant{
			Qualification: cfg.WizardQualification,
			Validation:    cfg.WizardValidation,
		},
		AdvanceDelay:  cfg.AdvanceDelay,
		NotifyTimeout: cfg.WebhookTimeout,
		BookingURL:    cfg.BookingURL,
	}
	sessionSvc, err := service.NewSessionService(bank, wizardCfg, authSvc, cfg.SessionCacheSize)
	if err != nil {
		log.Fatal("Failed to create session service:", err)
	}

	// Remote analysis service first, then the in-process analyst when a
	// model is configured. Without either, results use the static texts.
	switch {
	case cfg.AnalysisURL != "":
		sessionSvc.SetAnalysisClient(service.NewAnalysisClient(cfg.AnalysisURL, cfg.AnalysisTimeout))
		log.Printf("Analysis: %s%s", cfg.AnalysisURL, service.AnalysisPath)
	case provider != nil:
		sessionSvc.SetAnalysisClient(analystSvc)
		log.Println("Analysis: in-process")
	default:
		log.Println("Analysis: disabled")
	}

	if cfg.WebhookURL != "" {
		sessionSvc.SetNotificationSink(service.NewWebhookSink(cfg.WebhookURL, cfg.WebhookTimeout))
		log.Println("Webhook: configured")
	} else {
		log.Println("Warning: WEBHOOK_URL not set, submissions are not forwarded")
	}

	if rdb != nil {
		sessionSvc.SetSessionCache(cache.NewSessionCache(rdb, cfg.SessionTTL))
		sessionSvc.SetStatsCache(cache.NewStatsCache(rdb))
	}

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		Bank:           bank,
		SessionService: sessionSvc,
		AnalystService: analystSvc,
		StatusService:  statusSvc,
		WSHub:          wsHub,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  GET  /v1/questions, /v1/segments, /v1/qualification-fields, /v1/stats")
		log.Println("  POST /v1/scores")
		log.Println("  POST /v1/diagnostics")
		log.Println("  GET/DELETE /v1/diagnostics/{id}")
		log.Println("  POST /v1/diagnostics/{id}/{start,user-info,qualification,answers,previous,back,validation/back,confirm,restart}")
		log.Println("  WS   /v1/ws/diagnostics/{id}")
		log.Println("  POST /api/diagnostic/analyze")
		log.Println("  GET/POST /api/status")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
