// File: internal/config/config.go
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
	ServerPort   string
	DatabasePath string
	UploadDir    string
	UploadMaxMB  int
	// AI provider settings for the reply generator.
	AIAPIKey    string
	AIBaseURL   string
	AIModel     string
	AITimeout   time.Duration
	Environment string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "chat.db"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxMB:  getEnvAsInt("UPLOAD_MAX_MB", 10),
		AIAPIKey:     getEnv("AI_API_KEY", ""),
		AIBaseURL:    getEnv("AI_BASE_URL", ""),
		AIModel:      getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeout:    getEnvAsDuration("AI_TIMEOUT", 45*time.Second),
		Environment:  env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.AIAPIKey == "" {
			missing = append(missing, "AI_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsDuration gets an env var as a duration, with a fallback.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}
