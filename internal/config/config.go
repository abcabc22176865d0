package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Redis Configuration
	RedisURL string

	// MongoDB Configuration
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Worker Pool Configuration
	WorkerPoolSize  int
	WorkerQueueSize int

	// Job & Cache Lifetime Configuration
	JobTTL   time.Duration
	CacheTTL time.Duration
	ClaimTTL time.Duration

	// Content Normalization Configuration
	MaxContentBytes int
	MaxEndpoints    int
	MaxComponents   int
	MaxSections     int

	// Synthesis Configuration
	SynthesisProvider         string
	OpenAIAPIKey              string
	OpenAIBaseURL             string
	OpenAIModel               string
	SynthesisMaxTokens        int
	SynthesisTemperature      float64
	SynthesisTransportRetries int
	SynthesisSchemaRetries    int
	SynthesisTimeout          time.Duration

	// Janitor Configuration
	JanitorEnabled  bool
	JanitorSchedule string

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// CORS Configuration
	CORSAllowedOrigins   string
	CORSAllowedMethods   string
	CORSAllowedHeaders   string
	CORSAllowCredentials bool
	CORSMaxAge           int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// MongoDB
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017/faultline?authSource=admin"),
		MongoDatabase: getEnv("MONGO_DATABASE", "faultline"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT_SEC", 10) * time.Second,

		// HTTP Server
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 30) * time.Second,

		// Worker Pool
		WorkerPoolSize:  getIntEnv("WORKER_POOL_SIZE", 8),
		WorkerQueueSize: getIntEnv("WORKER_QUEUE_SIZE", 256),

		// Lifetimes
		JobTTL:   getDurationEnv("JOB_TTL_SEC", 3600) * time.Second,
		CacheTTL: getDurationEnv("CACHE_TTL_SEC", 86400) * time.Second,
		ClaimTTL: getDurationEnv("CLAIM_TTL_SEC", 120) * time.Second,

		// Normalization
		MaxContentBytes: getIntEnv("MAX_CONTENT_BYTES", 500000),
		MaxEndpoints:    getIntEnv("MAX_ENDPOINTS", 100),
		MaxComponents:   getIntEnv("MAX_COMPONENTS", 50),
		MaxSections:     getIntEnv("MAX_SECTIONS", 50),

		// Synthesis
		SynthesisProvider:         getEnv("SYNTHESIS_PROVIDER", "openai"),
		OpenAIAPIKey:              getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:             getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:               getEnv("OPENAI_MODEL", "gpt-4o"),
		SynthesisMaxTokens:        getIntEnv("SYNTHESIS_MAX_TOKENS", 4096),
		SynthesisTemperature:      getFloatEnv("SYNTHESIS_TEMPERATURE", 0.1),
		SynthesisTransportRetries: getIntEnv("SYNTHESIS_TRANSPORT_RETRIES", 3),
		SynthesisSchemaRetries:    getIntEnv("SYNTHESIS_SCHEMA_RETRIES", 3),
		SynthesisTimeout:          getDurationEnv("SYNTHESIS_TIMEOUT_SEC", 120) * time.Second,

		// Janitor
		JanitorEnabled:  getBoolEnv("JANITOR_ENABLED", true),
		JanitorSchedule: getEnv("JANITOR_SCHEDULE", "*/5 * * * *"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// CORS
		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods:   getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS, PATCH"),
		CORSAllowedHeaders:   getEnv("CORS_ALLOWED_HEADERS", "*"),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAge:           getIntEnv("CORS_MAX_AGE", 3600),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
		log.Printf("Warning: Invalid float value for %s, using default %g", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}
