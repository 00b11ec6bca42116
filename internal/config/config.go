package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Auth     AuthConfig
	OpenAI   OpenAIConfig
	Matching MatchingConfig
	Pending  PendingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	DataDir            string
}

type AuthConfig struct {
	JWTSecret     string
	AllowedEmails []string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type MatchingConfig struct {
	MaxCandidates int
}

type PendingConfig struct {
	TTL      time.Duration
	Store    string // "memory" or "redis"
	RedisURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			DataDir:            getEnv("DATA_DIR", "data"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			AllowedEmails: getEnvAsList("ALLOWED_EMAILS"),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", ""),
		},
		Matching: MatchingConfig{
			MaxCandidates: getEnvAsInt("MAX_CANDIDATES", 12),
		},
		Pending: PendingConfig{
			TTL:      getEnvAsDuration("PENDING_TTL", 5*time.Minute),
			Store:    getEnv("PENDING_STORE", "memory"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
	}
}

func (c *Config) IsProd() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma-separated variable, trimming blanks.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
