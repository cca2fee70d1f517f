package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

type Config struct {
	Port        string
	DBUrl       string
	SecretKey   string
	FrontendURL string
	Environment string // "development" or "production"

	// Token settings
	TokenTTLMinutes int

	// Password hashing
	BcryptCost int

	// Document storage
	UploadDir string
	// S3-compatible storage (optional; local disk is used when unset)
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string

	// Redis (optional; login rate limiting falls back to in-memory)
	RedisURL      string
	RedisPassword string

	// Rate limiting
	RateLimitWindowSeconds  int
	RateLimitLoginThreshold int
}

// LoadConfig reads configuration from the environment. A missing or weak
// SECRET_KEY is a startup failure, not a per-request error.
func LoadConfig() (*Config, error) {
	// Only effective locally; ignored in production where no .env exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		SecretKey:   getEnv("SECRET_KEY", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		Environment: getEnv("APP_ENV", "development"),

		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 60),
		BcryptCost:      getEnvInt("BCRYPT_COST", 12),

		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:  getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold: getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
	}

	if len(cfg.SecretKey) < minSecretLength {
		return nil, fmt.Errorf("SECRET_KEY is missing or too weak (%d+ characters required)", minSecretLength)
	}
	if cfg.DBUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// IsProduction reports whether internal error detail must be withheld from clients.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// S3Configured reports whether all settings needed for S3 storage are present.
func (c *Config) S3Configured() bool {
	return c.S3AccessKeyID != "" && c.S3SecretAccessKey != "" && c.S3Bucket != "" && c.S3Region != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
