package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey string
	DatabaseURL  string
	HTTPPort     string
	JWTSecret    string

	LogLevel  string
	LogFormat string
	LogFile   string

	ModelTimeoutSeconds int
	ModelMaxAttempts    int
	ModelRequestsPerMin int

	MaxUploadBytes int64
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:  getEnv("DATABASE_URL", "personachat.db"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		JWTSecret:    getEnv("JWT_SECRET", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   getEnv("LOG_FILE", ""),

		ModelTimeoutSeconds: getEnvAsInt("MODEL_TIMEOUT_SECONDS", 60),
		ModelMaxAttempts:    getEnvAsInt("MODEL_MAX_ATTEMPTS", 3),
		ModelRequestsPerMin: getEnvAsInt("MODEL_REQUESTS_PER_MINUTE", 60),

		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// GEMINI_API_KEY is optional: without it the model gateway serves
	// placeholder responses instead of refusing to start.
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
