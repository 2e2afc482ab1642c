package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/civicengine/api/internal/auth"
	"github.com/civicengine/api/internal/handler"
	"github.com/civicengine/api/internal/middleware"
	"github.com/civicengine/api/internal/policy"
	"github.com/civicengine/api/internal/service"
	"github.com/civicengine/api/internal/store"
	ws "github.com/civicengine/api/internal/websocket"
)

const testJWTSecret = "test-secret-for-e2e"

// testApp holds all components needed for testing
type testApp struct {
	app    *fiber.App
	render *service.RenderService
}

// setupApp creates a Fiber app identical to main.go but without the
// asynq worker server, so queued jobs stay queued. Requires a local
// Redis; tests are skipped when it is not running.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	// Redis (localhost — DB 15 to avoid collision with dev data)
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: "localhost:6379",
		DB:   15,
	})
	t.Cleanup(func() { asynqClient.Close() })

	validate := validator.New()

	hub := ws.NewHub()
	go hub.Run()

	catalog := policy.Default()
	jobStore := store.NewJobStore(redisClient, 10*time.Minute)
	cohortStore := store.NewCohortStore(redisClient)

	// Services — no object storage, artifacts stay local
	scoreService := service.NewScoreService(catalog)
	renderService := service.NewRenderService(jobStore, hub, asynqClient, nil, t.TempDir(), 10*time.Minute)
	cohortService := service.NewCohortService(cohortStore, catalog)

	// Handlers
	policyHandler := handler.NewPolicyHandler(scoreService, validate)
	renderHandler := handler.NewRenderHandler(renderService, validate)
	cohortHandler := handler.NewCohortHandler(cohortService, validate)

	// Auth handler (for /auth/verify)
	authHandler := handler.NewAuthHandler(nil, testJWTSecret)

	// Auth middleware — HMAC only
	authMiddleware := middleware.NewLegacyAuthMiddleware(testJWTSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis":    true,
				"storage":  false,
				"auth":     true,
				"policies": catalog.Len(),
			},
		})
	})
	app.Get("/auth/verify", authHandler.Verify)

	// API routes (authenticated)
	api := app.Group("/api", authMiddleware.Authenticate())

	api.Get("/policies", policyHandler.List)
	api.Get("/archetypes", policyHandler.Archetypes)
	// Very high rate limits so tests don't get blocked
	api.Post("/score", rateLimiter.ScoreLimit(10000), policyHandler.Score)

	render := api.Group("/render")
	render.Post("/start", rateLimiter.RenderLimit(10000), renderHandler.Start)
	render.Get("/status/:jobId", renderHandler.Status)
	render.Get("/artifact/:jobId", renderHandler.Artifact)

	cohorts := api.Group("/cohorts")
	cohorts.Post("/", rateLimiter.CohortLimit(10000), authMiddleware.RequireRole(middleware.RoleTeacher), cohortHandler.Create)
	cohorts.Get("/code/:joinCode", cohortHandler.GetByCode)
	cohorts.Get("/:id", cohortHandler.Get)
	cohorts.Post("/:id/join", cohortHandler.Join)
	cohorts.Get("/:id/members", cohortHandler.Members)
	cohorts.Post("/:id/phase", authMiddleware.RequireRole(middleware.RoleTeacher), cohortHandler.SetPhase)
	cohorts.Post("/:id/positions", rateLimiter.PositionLimit(10000), cohortHandler.SubmitPosition)
	cohorts.Get("/:id/positions", cohortHandler.Positions)

	return &testApp{app: app, render: renderService}
}

// generateToken creates an HMAC JWT token for test requests.
func generateToken(t *testing.T, role string) string {
	t.Helper()
	claims := auth.LegacyClaims{
		UserID: "test-user-123",
		Email:  "test@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "civicengine-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return signed
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs an authenticated request as a student.
func doAuthRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, error) {
	t.Helper()
	token := generateToken(t, "")
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// doTeacherRequest performs an authenticated request with the teacher role.
func doTeacherRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, error) {
	t.Helper()
	token := generateToken(t, middleware.RoleTeacher)
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}
