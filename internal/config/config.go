package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends understood by the process entry point
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Analyzer  AnalyzerConfig
	Registrar RegistrarConfig
	Search    SearchConfig
	LLM       LLMConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the cache/analytics backend
type StorageConfig struct {
	Backend  string
	CacheTTL time.Duration
	MongoDB  MongoDBConfig
	Redis    RedisConfig
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI                 string
	Database            string
	AnalysesCollection  string
	AnalyticsCollection string
	Timeout             time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AnalyzerConfig holds outbound fetch and deep scan configuration
type AnalyzerConfig struct {
	RequestTimeout    time.Duration
	UserAgent         string
	MaxRedirects      int
	MaxCompetitors    int
	Concurrency       int
	RequestsPerSecond float64
}

// RegistrarConfig holds GoDaddy API credentials
type RegistrarConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// SearchConfig holds Google Custom Search credentials
type SearchConfig struct {
	APIKey  string
	CX      string
	BaseURL string
}

// LLMConfig holds chat completion settings
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// LogConfig holds logger settings
type LogConfig struct {
	Level slog.Level
}

// New creates a new Config with values from environment variables
func New() (*Config, error) {
	readTimeout, err := getInt("READ_TIMEOUT", 5)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := getInt("WRITE_TIMEOUT", 120)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getInt("SHUTDOWN_TIMEOUT", 10)
	if err != nil {
		return nil, err
	}

	cacheTTLHours, err := getInt("CACHE_TTL_HOURS", 7*24)
	if err != nil {
		return nil, err
	}

	mongoTimeout, err := getInt("MONGO_TIMEOUT", 10)
	if err != nil {
		return nil, err
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := getInt("REQUEST_TIMEOUT", 10)
	if err != nil {
		return nil, err
	}

	maxRedirects, err := getInt("MAX_REDIRECTS", 5)
	if err != nil {
		return nil, err
	}

	maxCompetitors, err := getInt("MAX_COMPETITORS", 5)
	if err != nil {
		return nil, err
	}

	concurrency, err := getInt("SCAN_CONCURRENCY", 3)
	if err != nil {
		return nil, err
	}

	rps, err := getFloat("SCAN_REQUESTS_PER_SECOND", 5)
	if err != nil {
		return nil, err
	}

	maxTokens, err := getInt("OPENAI_MAX_TOKENS", 1000)
	if err != nil {
		return nil, err
	}

	temperature, err := getFloat("OPENAI_TEMPERATURE", 0.7)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory))
	switch backend {
	case BackendMemory, BackendMongo, BackendRedis:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q", backend)
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	registrarBase := "https://api.ote-godaddy.com"
	if getEnv("GODADDY_ENV", "") == "PRODUCTION" {
		registrarBase = "https://api.godaddy.com"
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			ReadTimeout:     time.Duration(readTimeout) * time.Second,
			WriteTimeout:    time.Duration(writeTimeout) * time.Second,
			ShutdownTimeout: time.Duration(shutdownTimeout) * time.Second,
		},
		Storage: StorageConfig{
			Backend:  backend,
			CacheTTL: time.Duration(cacheTTLHours) * time.Hour,
			MongoDB: MongoDBConfig{
				URI:                 getEnv("MONGO_URI", "mongodb://localhost:27017"),
				Database:            getEnv("MONGO_DB", "brandscope"),
				AnalysesCollection:  getEnv("MONGO_ANALYSES_COLLECTION", "brand_analyses"),
				AnalyticsCollection: getEnv("MONGO_ANALYTICS_COLLECTION", "usage_analytics"),
				Timeout:             time.Duration(mongoTimeout) * time.Second,
			},
			Redis: RedisConfig{
				Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       redisDB,
			},
		},
		Analyzer: AnalyzerConfig{
			RequestTimeout:    time.Duration(requestTimeout) * time.Second,
			UserAgent:         getEnv("USER_AGENT", "BrandscopeBot/1.0 (+https://brandscope.dev/bot)"),
			MaxRedirects:      maxRedirects,
			MaxCompetitors:    maxCompetitors,
			Concurrency:       concurrency,
			RequestsPerSecond: rps,
		},
		Registrar: RegistrarConfig{
			APIKey:    getEnv("GODADDY_API_KEY", ""),
			APISecret: getEnv("GODADDY_API_SECRET", ""),
			BaseURL:   registrarBase,
		},
		Search: SearchConfig{
			APIKey:  getEnv("GOOGLE_SEARCH_API_KEY", ""),
			CX:      getEnv("GOOGLE_SEARCH_CX", ""),
			BaseURL: getEnv("GOOGLE_SEARCH_URL", "https://www.googleapis.com/customsearch/v1"),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		Log: LogConfig{
			Level: level,
		},
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	f, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(defaultValue, 'f', -1, 64)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}
