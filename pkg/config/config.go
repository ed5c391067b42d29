package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of an event study run
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string // development, staging, production, test

	// Study
	StudyConfigPath string // YAML file listing assets and events
	DataDir         string // base directory for relative CSV paths
	LoadConcurrency int    // parallel asset loads

	// Database (only needed for postgres price sources)
	Database DatabaseConfig

	// External APIs
	Naver NaverConfig
	HTTP  HTTPConfig

	// Logging
	LogLevel  string
	LogFormat string
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

// DefaultNaverChartBaseURL is the public Naver Finance chart endpoint
const DefaultNaverChartBaseURL = "https://fchart.stock.naver.com"

// NaverConfig holds Naver Finance configuration
type NaverConfig struct {
	ChartBaseURL string
}

// HTTPConfig holds outbound HTTP settings
type HTTPConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RatePerSec float64
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		StudyConfigPath: getEnv("STUDY_CONFIG", "config/study.yaml"),
		DataDir:         getEnv("DATA_DIR", "data"),
		LoadConcurrency: getEnvAsInt("LOAD_CONCURRENCY", 4),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 4),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Naver: NaverConfig{
			ChartBaseURL: getEnv("NAVER_CHART_BASE_URL", DefaultNaverChartBaseURL),
		},

		HTTP: HTTPConfig{
			Timeout:    getEnvAsDuration("HTTP_TIMEOUT", "30s"),
			MaxRetries: getEnvAsInt("HTTP_MAX_RETRIES", 3),
			RatePerSec: getEnvAsFloat("HTTP_RATE_PER_SEC", 5),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	switch c.Env {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("ENV must be one of: development, staging, production, test")
	}

	if c.StudyConfigPath == "" {
		return fmt.Errorf("STUDY_CONFIG is required")
	}

	if c.LoadConcurrency < 1 {
		return fmt.Errorf("LOAD_CONCURRENCY must be >= 1, got %d", c.LoadConcurrency)
	}

	if c.HTTP.RatePerSec <= 0 {
		return fmt.Errorf("HTTP_RATE_PER_SEC must be > 0")
	}

	return nil
}

// ResolveDataPath joins relative paths onto DataDir
func (c *Config) ResolveDataPath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.DataDir == "" {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
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
