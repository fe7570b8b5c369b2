package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Upstream financial data provider
	Provider ProviderConfig

	// Pipeline
	Pipeline PipelineConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ProviderConfig holds the company data API configuration
type ProviderConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RepairJSON bool // 깨진 JSON 응답 복구 시도
}

// PipelineConfig holds stage inputs, outputs and tuning knobs
type PipelineConfig struct {
	DataDir         string
	CompanyIDsFile  string
	RulesFile       string // 비어 있으면 내장 기본값 사용
	FetchWorkers    int
	AnalyzeWorkers  int
	MinValidYears   int
	RefreshSchedule string // cron (seconds field included)
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8000"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Provider: ProviderConfig{
			BaseURL:    getEnv("PROVIDER_BASE_URL", "https://bluemutualfund.in"),
			APIKey:     getEnv("PROVIDER_API_KEY", ""),
			Timeout:    getEnvAsDuration("PROVIDER_TIMEOUT", "30s"),
			RepairJSON: getEnvAsBool("PROVIDER_REPAIR_JSON", false),
		},

		Pipeline: PipelineConfig{
			DataDir:         getEnv("DATA_DIR", "data"),
			CompanyIDsFile:  getEnv("COMPANY_IDS_FILE", "company_id.xlsx"),
			RulesFile:       getEnv("RULES_FILE", ""),
			FetchWorkers:    getEnvAsInt("FETCH_WORKERS", 5),
			AnalyzeWorkers:  getEnvAsInt("ANALYZE_WORKERS", 4),
			MinValidYears:   getEnvAsInt("MIN_VALID_YEARS", 5),
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 0 2 * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks values that every command depends on.
// DATABASE_URL is checked separately by RequireDatabase.
func (c *Config) Validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Pipeline.FetchWorkers < 1 {
		return fmt.Errorf("FETCH_WORKERS must be at least 1")
	}
	if c.Pipeline.AnalyzeWorkers < 1 {
		return fmt.Errorf("ANALYZE_WORKERS must be at least 1")
	}
	if c.Pipeline.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}

	return nil
}

// RequireDatabase reports an error when no DATABASE_URL is configured.
// Only commands that read or write PostgreSQL call it.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
