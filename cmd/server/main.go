package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyforge/internal/cache"
	"surveyforge/internal/config"
	"surveyforge/internal/jobs"
	"surveyforge/internal/notion"
	"surveyforge/internal/repository"
	"surveyforge/internal/service"
	"surveyforge/internal/transport/rest"
	"surveyforge/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	log.Printf("AI Config:")
	log.Printf("  Generate: %s", cfg.AI.Models.Generate)
	log.Printf("  Analyze:  %s", cfg.AI.Models.Analyze)
	if cfg.AI.IsEnabled() {
		log.Println("  API Key:  configured")
	} else {
		log.Println("  API Key:  NOT SET (generation and analysis will fail)")
	}
	if cfg.Notion.IsConfigured() {
		log.Println("Notion:     configured")
	} else {
		log.Println("Notion:     NOT CONFIGURED (provisioning and submissions return 503)")
	}

	// MongoDB connection
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

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Repositories
	surveyRepo := repository.NewSurveyRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	// Caches
	metadata := cache.NewMetadataStore(cache.NewRedisKV(rdb))
	schemaCache := cache.NewSchemaCache(rdb, cfg.SchemaCacheTTL)
	counter := cache.NewResponseCounter(rdb)

	// External services
	notionClient := notion.NewClient(cfg.Notion)
	generator := service.NewGeneratorService(cfg.AI)
	queue := jobs.NewQueue(cfg.RedisAddr)
	defer queue.Close()

	// Services (wsHub implements service.Broadcaster)
	authSvc := service.NewAuthService(cfg)
	surveySvc := service.NewSurveyService(surveyRepo, generator)
	provisionSvc := service.NewProvisionService(surveySvc, surveyRepo, notionClient, metadata, cfg)
	responseSvc := service.NewResponseService(notionClient, surveyRepo, responseRepo, schemaCache, metadata, counter, wsHub)
	analysisSvc := service.NewAnalysisService(notionClient, responseSvc, metadata, generator, queue, wsHub)

	// Background analysis worker
	worker := jobs.NewServer(cfg.RedisAddr, cfg.WorkerConcurrency)
	taskMux := asynq.NewServeMux()
	jobs.RegisterHandlers(taskMux, analysisSvc)
	if err := worker.Start(taskMux); err != nil {
		log.Fatal("Failed to start job worker:", err)
	}
	log.Printf("Job worker started (concurrency %d)", cfg.WorkerConcurrency)

	router := rest.NewRouter(&rest.Container{
		Config:           cfg,
		AuthService:      authSvc,
		SurveyService:    surveySvc,
		ProvisionService: provisionSvc,
		ResponseService:  responseSvc,
		AnalysisService:  analysisSvc,
		Metadata:         metadata,
		ResponseCounter:  counter,
		WSHub:            wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("Host auth: username=%s", cfg.HostUsername)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/public/forms/{databaseId}")
		log.Println("  POST /v1/public/forms/{databaseId}/responses")
		log.Println("  POST/GET /v1/surveys")
		log.Println("  POST /v1/surveys/generate")
		log.Println("  POST /v1/surveys/import")
		log.Println("  POST /v1/surveys/{id}/provision")
		log.Println("  GET  /v1/surveys/{id}/apps-script")
		log.Println("  GET  /v1/forms")
		log.Println("  GET  /v1/forms/top")
		log.Println("  GET  /v1/forms/{id}/responses[/{responseId}]")
		log.Println("  POST /v1/forms/{id}/analyze")
		log.Println("  GET  /v1/emails/frequent")
		log.Println("  WS   /v1/ws/forms/{id}")

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
	worker.Shutdown()

	log.Println("Server exited")
}
