package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"disposal-backend/internal/notification"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	Env       string
	LogLevel  string
	JWTSecret string

	// Storage
	StoreDriver         string // "firestore", "postgres" or "memory"
	GoogleProjectID     string
	FirebaseCredentials string
	DatabaseURL         string

	// Push delivery
	PushProvider   string // "fcm" or "sns"
	SNSRegion      string
	PushRatePerSec float64

	// Cross-replica dispatch lock (optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Reminder notifications
	NotifyEnabled      bool
	NotifyInterval     time.Duration
	NotifyStartupDelay time.Duration
	NotifyLookahead    time.Duration
	NotifyDebounce     time.Duration
	NotifySiblingLimit int
	NotifyLockTTL      time.Duration

	// Receipt OCR
	AIProvider    string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OllamaBaseURL string
	OllamaModel   string
	MaxUploadMB   int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		JWTSecret: getEnv("JWT_SECRET", ""),

		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", "firestore")),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		DatabaseURL:         getEnv("DATABASE_URL", ""),

		PushProvider:   strings.ToLower(getEnv("PUSH_PROVIDER", "fcm")),
		SNSRegion:      getEnv("SNS_REGION", "us-east-1"),
		PushRatePerSec: getFloat("PUSH_RATE_PER_SEC", 0),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		NotifyEnabled:      getBool("NOTIFY_ENABLED", true),
		NotifyInterval:     getDuration("NOTIFY_INTERVAL", 5*time.Minute),
		NotifyStartupDelay: getDuration("NOTIFY_STARTUP_DELAY", 10*time.Second),
		NotifyLookahead:    getDuration("NOTIFY_LOOKAHEAD", time.Hour),
		NotifyDebounce:     getDuration("NOTIFY_DEBOUNCE", 5*time.Minute),
		NotifySiblingLimit: getInt("NOTIFY_SIBLING_LIMIT", 10),
		NotifyLockTTL:      getDuration("NOTIFY_LOCK_TTL", 10*time.Minute),

		AIProvider:    strings.ToLower(getEnv("AI_PROVIDER", "auto")),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", ""),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llava"),
		MaxUploadMB:   getInt("MAX_UPLOAD_MB", 10),
	}
}

// DispatchSettings returns the reminder dispatcher settings
func (c *Config) DispatchSettings() notification.Settings {
	return notification.Settings{
		Interval:     c.NotifyInterval,
		StartupDelay: c.NotifyStartupDelay,
		Lookahead:    c.NotifyLookahead,
		Debounce:     c.NotifyDebounce,
		SiblingLimit: c.NotifySiblingLimit,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}
