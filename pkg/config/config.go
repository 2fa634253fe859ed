package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	JWTSecret string

	// StoreDriver selects the document store backend: "firestore",
	// "postgres" or "memory".
	StoreDriver        string
	PostgresDSN        string
	FirebaseProjectID  string
	FirebaseCredential string

	GoogleClientID     string
	GoogleClientSecret string

	AIProvider    string
	GeminiAPIKey  string
	GeminiModel   string
	OllamaBaseURL string
	OllamaModel   string

	EncryptionSecret string

	EnrichBatchSize int
	RefreshInterval time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	batchSize := 5
	if raw := os.Getenv("ENRICH_BATCH_SIZE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			batchSize = parsed
		}
	}

	refreshInterval := 10 * time.Minute
	if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			refreshInterval = parsed
		}
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		StoreDriver:        getEnv("STORE_DRIVER", "memory"),
		PostgresDSN:        getEnv("POSTGRES_DSN", ""),
		FirebaseProjectID:  getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredential: getEnv("FIREBASE_CREDENTIAL_FILE", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		AIProvider:         getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:        getEnv("OLLAMA_MODEL", "llama3"),
		EncryptionSecret:   getEnv("ENCRYPTION_SECRET", ""),
		EnrichBatchSize:    batchSize,
		RefreshInterval:    refreshInterval,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
