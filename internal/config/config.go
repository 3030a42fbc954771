package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Environment ("development" or "production"); selects the log encoder.
	Env string

	// Local store
	DBPath string

	// Remote backend
	RemoteBaseURL string
	RemoteTimeout time.Duration

	// Whether an offline→online transition triggers a full sync pass.
	SyncOnReconnect bool

	// Listen address for the stub development backend.
	StubAddr string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:             getEnv("MONETA_ENV", "development"),
		DBPath:          getEnv("MONETA_DB_PATH", "moneta.db"),
		RemoteBaseURL:   getEnv("REMOTE_BASE_URL", "http://localhost:8080"),
		SyncOnReconnect: getEnvBool("SYNC_ON_RECONNECT", true),
		StubAddr:        getEnv("STUB_ADDR", ":8080"),
	}

	// Parse remote timeout duration
	timeoutStr := getEnv("REMOTE_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Printf("Warning: invalid REMOTE_TIMEOUT value '%s', falling back to 15s\n", timeoutStr)
		timeout = 15 * time.Second
	}
	config.RemoteTimeout = timeout

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
