package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/civicengine/api/internal/auth"
	"github.com/civicengine/api/internal/client"
	"github.com/civicengine/api/internal/config"
	"github.com/civicengine/api/internal/handler"
	"github.com/civicengine/api/internal/middleware"
	"github.com/civicengine/api/internal/policy"
	"github.com/civicengine/api/internal/render"
	"github.com/civicengine/api/internal/service"
	"github.com/civicengine/api/internal/store"
	"github.com/civicengine/api/internal/worker"
	ws "github.com/civicengine/api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize object storage client (optional - continues if not configured)
	var storageClient client.StorageClient
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		s3Client, err := client.NewS3Client(&cfg.Storage)
		if err != nil {
			log.Printf("Warning: storage client not initialized: %v", err)
		} else {
			storageClient = s3Client
		}
	} else {
		log.Println("Info: object storage not configured, artifacts served locally only")
	}

	// Initialize OIDC JWKS verifier (optional - falls back to HMAC JWT)
	var jwksVerifier *auth.JWKSVerifier
	if cfg.OIDC.Issuer != "" {
		var err error
		jwksVerifier, err = auth.NewJWKSVerifier(&cfg.OIDC)
		if err != nil {
			log.Printf("Warning: JWKS verifier not initialized: %v", err)
		} else {
			defer jwksVerifier.Close()
		}
	}

	// Initialize stores and catalog
	catalog := policy.Default()
	jobStore := store.NewJobStore(redisClient, cfg.Render.Retention)
	cohortStore := store.NewCohortStore(redisClient)

	// Initialize services
	scoreService := service.NewScoreService(catalog)
	renderService := service.NewRenderService(jobStore, hub, asynqClient, storageClient, cfg.Render.ArtifactsDir, cfg.Render.Retention)
	cohortService := service.NewCohortService(cohortStore, catalog)

	// Purge artifacts orphaned by a previous process
	renderService.SweepArtifacts()

	// Initialize handlers
	policyHandler := handler.NewPolicyHandler(scoreService, validate)
	renderHandler := handler.NewRenderHandler(renderService, validate)
	cohortHandler := handler.NewCohortHandler(cohortService, validate)

	// Initialize auth handler for ForwardAuth verification
	var tokenVerifier auth.TokenVerifier
	if jwksVerifier != nil {
		tokenVerifier = jwksVerifier
	}
	authHandler := handler.NewAuthHandler(tokenVerifier, cfg.JWT.Secret)

	// Initialize middleware (with fallback support)
	var authMiddleware *middleware.AuthMiddleware
	if jwksVerifier != nil && cfg.JWT.Secret != "" {
		authMiddleware = middleware.NewAuthMiddlewareWithFallback(jwksVerifier, cfg.JWT.Secret)
	} else if jwksVerifier != nil {
		authMiddleware = middleware.NewAuthMiddleware(jwksVerifier)
	} else {
		authMiddleware = middleware.NewLegacyAuthMiddleware(cfg.JWT.Secret)
	}

	var apiAuthMiddleware fiber.Handler
	if cfg.Server.TrustGateway {
		// Behind Traefik: auth is handled by ForwardAuth, read X-User-* headers
		log.Println("Info: Gateway mode enabled — using header-based auth")
		apiAuthMiddleware = middleware.GatewayAuthMiddleware()
	} else {
		apiAuthMiddleware = authMiddleware.Authenticate()
	}
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB, requests are small JSON documents
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body} ${reqHeaders}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Base URL - timestamp
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis":    redisClient.Ping(c.Context()).Err() == nil,
				"storage":  storageClient != nil,
				"auth":     jwksVerifier != nil || cfg.JWT.Secret != "",
				"policies": catalog.Len(),
			},
		})
	})

	// ForwardAuth verification endpoint (internal, called by Traefik)
	app.Get("/auth/verify", authHandler.Verify)

	// API routes
	api := app.Group("/api", apiAuthMiddleware)

	// Catalog and scoring routes
	api.Get("/policies", policyHandler.List)
	api.Get("/archetypes", policyHandler.Archetypes)
	api.Post("/score", rateLimiter.ScoreLimit(cfg.RateLimit.ScorePerMin), policyHandler.Score)

	// Render routes
	renderGroup := api.Group("/render")
	renderGroup.Post("/start", rateLimiter.RenderLimit(cfg.RateLimit.RenderPerHour), renderHandler.Start)
	renderGroup.Get("/status/:jobId", renderHandler.Status)
	renderGroup.Get("/artifact/:jobId", renderHandler.Artifact)

	// Cohort routes
	cohorts := api.Group("/cohorts")
	cohorts.Post("/", rateLimiter.CohortLimit(cfg.RateLimit.CohortsPerHour), authMiddleware.RequireRole(middleware.RoleTeacher), cohortHandler.Create)
	cohorts.Get("/code/:joinCode", cohortHandler.GetByCode)
	cohorts.Get("/:id", cohortHandler.Get)
	cohorts.Post("/:id/join", cohortHandler.Join)
	cohorts.Get("/:id/members", cohortHandler.Members)
	cohorts.Post("/:id/phase", authMiddleware.RequireRole(middleware.RoleTeacher), cohortHandler.SetPhase)
	cohorts.Post("/:id/positions", rateLimiter.PositionLimit(cfg.RateLimit.PositionsPerHour), cohortHandler.SubmitPosition)
	cohorts.Get("/:id/positions", cohortHandler.Positions)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
		jobID := c.Params("jobId")
		// Subscribers get the current state first, then live updates.
		snapshot, err := renderService.Snapshot(context.Background(), jobID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("Job %s: snapshot failed: %v", jobID, err)
			}
			c.Close()
			return
		}
		hub.HandleConnection(c, jobID, snapshot, func() []byte {
			return renderService.TerminalSnapshot(context.Background(), jobID)
		})
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, renderService)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, renderService *service.RenderService) {
	asynqLogLevel := asynq.InfoLevel
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		asynqLogLevel = asynq.DebugLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "warn") {
		asynqLogLevel = asynq.WarnLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "error") {
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Render.Concurrency,
			Queues: map[string]int{
				"render": 10,
			},
			LogLevel: asynqLogLevel,
		},
	)

	runner := &render.Runner{
		Bin:     cfg.Render.WorkerBin,
		Timeout: cfg.Render.Timeout,
	}
	if cfg.Render.BrowserBin != "" {
		runner.Args = []string{"--browser", cfg.Render.BrowserBin}
	}

	renderWorker := worker.NewRenderWorker(renderService, runner)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeRender, renderWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
