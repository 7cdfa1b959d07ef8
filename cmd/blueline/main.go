package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stadiumhouse/blueline/internal/api/rest"
	"github.com/stadiumhouse/blueline/internal/api/websocket"
	"github.com/stadiumhouse/blueline/internal/cache"
	"github.com/stadiumhouse/blueline/internal/completion"
	"github.com/stadiumhouse/blueline/internal/config"
	"github.com/stadiumhouse/blueline/internal/feedback"
	"github.com/stadiumhouse/blueline/internal/ingest/webfetch"
	"github.com/stadiumhouse/blueline/internal/notice"
	"github.com/stadiumhouse/blueline/internal/publisher"
	"github.com/stadiumhouse/blueline/internal/schedule"
	"github.com/stadiumhouse/blueline/internal/scheduler"
	"github.com/stadiumhouse/blueline/internal/service"
	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
	"github.com/stadiumhouse/blueline/internal/webhook"
)

const (
	serviceName    = "blueline"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - Sports Bar Operations Service", serviceName, serviceVersion)

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := store.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("✓ Connected to database")

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// Seed initial data (non-fatal - may already exist)
	if err := db.SeedData(); err != nil {
		log.Printf("⚠️  Seed data warning: %v (continuing anyway)", err)
	} else {
		log.Println("✓ Seed data applied")
	}

	// Initialize Redis cache with retry logic
	var redisCache *cache.RedisCache
	maxRetries := 30
	retryDelay := 2 * time.Second

	log.Println("Connecting to Redis...")
	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
		} else {
			log.Fatalf("Failed to connect to Redis after %d attempts: %v", maxRetries, err)
		}
	}
	defer redisCache.Close()

	log.Println("✓ Connected to Redis")

	// Stream publisher shares the cache connection
	redisPublisher := publisher.NewRedisPublisherFromClient(redisCache.Client())

	// Completion client, shared by the schedule interpreter and the
	// feedback responder
	completer := completion.NewOpenAIClient(completion.Config{
		BaseURL: cfg.InterpreterBaseURL,
		APIKey:  cfg.InterpreterAPIKey,
		Model:   cfg.InterpreterModel,
		Timeout: cfg.InterpreterTimeout,
	})

	// Event service is shared: the REST handlers and the schedule
	// materializer both write through it so cache invalidation and stream
	// publishing happen on every create path
	eventService := service.NewEventService(db, redisCache, redisPublisher)

	interpreter := schedule.NewTextInterpreter(completer, cfg.InterpreterRPS)
	scheduleService := service.NewScheduleService(db, eventService, interpreter)

	// Webhook sender with the configured retry policy
	sender := webhook.NewSender(webhook.RetryPolicy{
		MaxAttempts:  cfg.WebhookMaxAttempts,
		InitialDelay: cfg.WebhookInitialDelay,
		Multiplier:   cfg.WebhookBackoffMult,
	})

	reservationSvc := service.NewReservationService(db, redisPublisher, sender, os.Getenv("RESERVATION_WEBHOOK_URL"))
	feedbackService := feedback.NewService(db, completer, redisPublisher, getEnv("VENUE_NAME", "The Blue Line"))

	// Load admin notices once; dismissal is the only mutation afterwards
	notices, err := notice.Load(context.Background(), repository.NewNoticeRepository(db))
	if err != nil {
		log.Fatalf("Failed to load notices: %v", err)
	}
	log.Printf("✓ Loaded %d active notice(s)", len(notices.Active()))

	// Schedule page fetcher (headless browser). Optional; the parse and
	// materialize endpoints work without it.
	var fetcher rest.ScheduleFetcher
	if getEnv("ENABLE_PAGE_FETCH", "true") == "true" {
		webFetcher, err := webfetch.NewClient()
		if err != nil {
			log.Printf("⚠️  Page fetcher unavailable: %v (continuing without it)", err)
		} else {
			defer webFetcher.Close()
			fetcher = webFetcher
			log.Println("✓ Schedule page fetcher ready")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background jobs
	var jobs *scheduler.Orchestrator
	if cfg.EnableJobs {
		jobs = scheduler.NewOrchestrator(db, &scheduler.Config{
			DraftPublishInterval:      cfg.DraftPublishInterval,
			DraftPublishWindow:        14 * 24 * time.Hour,
			ReservationExpiryInterval: cfg.ReservationExpiryInterval,
			ReservationHoldTime:       cfg.ReservationHoldTime,
		})
		go jobs.Start(ctx)
		log.Println("✓ Background jobs started")
	}

	// Initialize REST API server
	restServer := rest.NewServer(cfg.RESTPort, rest.Deps{
		DB:              db,
		Cache:           redisCache,
		Publisher:       redisPublisher,
		EventService:    eventService,
		ScheduleService: scheduleService,
		ReservationSvc:  reservationSvc,
		FeedbackService: feedbackService,
		Notices:         notices,
		Fetcher:         fetcher,
		VenueLocation:   cfg.VenueLocation(),
	})
	go func() {
		log.Printf("Starting REST API server on port %s", cfg.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API server listening on :%s", cfg.RESTPort)

	// Initialize WebSocket server
	wsServer := websocket.NewServer(redisCache)
	go func() {
		log.Printf("Starting WebSocket server on port %s", cfg.WSPort)
		if err := wsServer.Start(ctx, cfg.WSPort); err != nil {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	log.Printf("✓ WebSocket server listening on :%s", cfg.WSPort)
	log.Printf("✓ Blueline v%s started successfully", serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", cfg.RESTPort)
	log.Printf("  WebSocket: ws://0.0.0.0:%s", cfg.WSPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down Blueline gracefully...")

	cancel()
	if jobs != nil {
		jobs.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Println("Blueline stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
