package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	OIDC      OIDCConfig
	Storage   StorageConfig
	Render    RenderConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	LogLevel     string
	ApiDomain    string
	TrustGateway bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type OIDCConfig struct {
	Issuer   string
	ClientID string
}

type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

// RenderConfig tunes the render pipeline. Timeout and Retention are
// operational constants: any finite values satisfy the design, the
// defaults are 2m and 10m.
type RenderConfig struct {
	WorkerBin    string
	BrowserBin   string
	ArtifactsDir string
	Timeout      time.Duration
	Retention    time.Duration
	Concurrency  int
}

type RateLimitConfig struct {
	ScorePerMin      int
	RenderPerHour    int
	CohortsPerHour   int
	PositionsPerHour int
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")
	readSecret("STORAGE_ACCESS_KEY_ID")
	readSecret("STORAGE_SECRET_ACCESS_KEY")
	readSecret("OIDC_CLIENT_ID")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("server.api_domain", "API_DOMAIN")
	_ = viper.BindEnv("server.trust_gateway", "TRUST_GATEWAY_HEADERS")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("oidc.issuer", "OIDC_ISSUER")
	_ = viper.BindEnv("oidc.client_id", "OIDC_CLIENT_ID")
	_ = viper.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	_ = viper.BindEnv("storage.region", "STORAGE_REGION")
	_ = viper.BindEnv("storage.access_key_id", "STORAGE_ACCESS_KEY_ID")
	_ = viper.BindEnv("storage.secret_access_key", "STORAGE_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("storage.bucket", "STORAGE_BUCKET")
	_ = viper.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	_ = viper.BindEnv("render.worker_bin", "RENDER_WORKER_BIN")
	_ = viper.BindEnv("render.browser_bin", "RENDER_BROWSER_BIN")
	_ = viper.BindEnv("render.artifacts_dir", "RENDER_ARTIFACTS_DIR")
	_ = viper.BindEnv("render.timeout", "RENDER_TIMEOUT")
	_ = viper.BindEnv("render.retention", "RENDER_RETENTION")
	_ = viper.BindEnv("render.concurrency", "RENDER_CONCURRENCY")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("storage.region", "auto")
	viper.SetDefault("render.worker_bin", "./renderworker")
	viper.SetDefault("render.artifacts_dir", os.TempDir())
	viper.SetDefault("render.timeout", "2m")
	viper.SetDefault("render.retention", "10m")
	viper.SetDefault("render.concurrency", 2)
	viper.SetDefault("ratelimit.score_per_min", 60)
	viper.SetDefault("ratelimit.render_per_hour", 10)
	viper.SetDefault("ratelimit.cohorts_per_hour", 20)
	viper.SetDefault("ratelimit.positions_per_hour", 120)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("server.port"),
			Env:          viper.GetString("server.env"),
			LogLevel:     viper.GetString("server.log_level"),
			ApiDomain:    viper.GetString("server.api_domain"),
			TrustGateway: viper.GetBool("server.trust_gateway"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		OIDC: OIDCConfig{
			Issuer:   viper.GetString("oidc.issuer"),
			ClientID: viper.GetString("oidc.client_id"),
		},
		Storage: StorageConfig{
			Endpoint:        viper.GetString("storage.endpoint"),
			Region:          viper.GetString("storage.region"),
			AccessKeyID:     viper.GetString("storage.access_key_id"),
			SecretAccessKey: viper.GetString("storage.secret_access_key"),
			Bucket:          viper.GetString("storage.bucket"),
			PublicURL:       viper.GetString("storage.public_url"),
		},
		Render: RenderConfig{
			WorkerBin:    viper.GetString("render.worker_bin"),
			BrowserBin:   viper.GetString("render.browser_bin"),
			ArtifactsDir: viper.GetString("render.artifacts_dir"),
			Timeout:      viper.GetDuration("render.timeout"),
			Retention:    viper.GetDuration("render.retention"),
			Concurrency:  viper.GetInt("render.concurrency"),
		},
		RateLimit: RateLimitConfig{
			ScorePerMin:      viper.GetInt("ratelimit.score_per_min"),
			RenderPerHour:    viper.GetInt("ratelimit.render_per_hour"),
			CohortsPerHour:   viper.GetInt("ratelimit.cohorts_per_hour"),
			PositionsPerHour: viper.GetInt("ratelimit.positions_per_hour"),
		},
	}

	return cfg, nil
}
