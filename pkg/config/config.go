package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	// Upstream tourism API.
	TourAPIGeneralBaseURL string
	TourAPIPetBaseURL     string
	TourAPIServiceKey     string
	TourAPIMobileOS       string
	TourAPIMobileApp      string
	TourAPITimeout        time.Duration

	// Keyword batch fetcher.
	DefaultRegion      string
	BatchWidth         int
	KeywordRetries     int
	RetryDelay         time.Duration
	ChunkPause         time.Duration
	MaxItemsPerKeyword int

	// Cache layer.
	CacheBackend    string // "memory" or "redis"
	CacheTTL        time.Duration
	CacheMaxRecords int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Optional pipeline run log; disabled when PostgresHost is empty.
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		TourAPIGeneralBaseURL: getEnv("TOURAPI_GENERAL_BASE_URL", "https://apis.data.go.kr/B551011/KorService1"),
		TourAPIPetBaseURL:     getEnv("TOURAPI_PET_BASE_URL", "https://apis.data.go.kr/B551011/KorPetTourService"),
		TourAPIServiceKey:     getEnv("TOURAPI_SERVICE_KEY", ""),
		TourAPIMobileOS:       getEnv("TOURAPI_MOBILE_OS", "ETC"),
		TourAPIMobileApp:      getEnv("TOURAPI_MOBILE_APP", "petplaces"),
		TourAPITimeout:        getEnvAsDuration("TOURAPI_TIMEOUT_SECONDS", 10) * time.Second,

		DefaultRegion:      getEnv("DEFAULT_REGION", "6"),
		BatchWidth:         getEnvAsInt("BATCH_WIDTH", 10),
		KeywordRetries:     getEnvAsInt("KEYWORD_RETRIES", 3),
		RetryDelay:         getEnvAsDuration("RETRY_DELAY_MS", 300) * time.Millisecond,
		ChunkPause:         getEnvAsDuration("CHUNK_PAUSE_MS", 500) * time.Millisecond,
		MaxItemsPerKeyword: getEnvAsInt("MAX_ITEMS_PER_KEYWORD", 3),

		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:        getEnvAsDuration("CACHE_TTL_HOURS", 24) * time.Hour,
		CacheMaxRecords: getEnvAsInt("CACHE_MAX_RECORDS", 150),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "petplaces"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
