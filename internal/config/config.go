// Package config provides application configuration management with
// validation and environment parsing.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Environment string
	Port        string
	Host        string
	DatabaseURL string
	Storage     StorageConfig
	Cache       CacheConfig
	Safety      SafetyConfig
	Watermark   WatermarkConfig
	Logging     *LoggingConfig
	Server      *ServerConfig
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	Region          string
}

// CacheConfig holds the image-record cache configuration
type CacheConfig struct {
	Enabled    bool
	Address    string
	Password   string
	Database   int
	DefaultTTL time.Duration
}

// SafetyConfig holds the NSFW checker configuration. The enabled flag
// is the default for invocations that do not set their own.
type SafetyConfig struct {
	Enabled   bool
	ModelPath string
	Device    string
	Threshold float64
}

// WatermarkConfig holds the invisible watermark configuration
type WatermarkConfig struct {
	Enabled     bool
	DefaultText string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load creates a new configuration from environment variables with validation
func Load() (*Config, error) {
	useSSL, _ := strconv.ParseBool(getEnv("STORAGE_USE_SSL", "false"))
	cacheEnabled, _ := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	cacheDB, _ := strconv.Atoi(getEnv("CACHE_DATABASE", "0"))
	cacheTTL, _ := time.ParseDuration(getEnv("CACHE_DEFAULT_TTL", "1h"))

	safetyEnabled, _ := strconv.ParseBool(getEnv("NSFW_CHECKER_ENABLED", "false"))
	safetyThreshold, _ := strconv.ParseFloat(getEnv("NSFW_THRESHOLD", "0.5"), 64)
	watermarkEnabled, _ := strconv.ParseBool(getEnv("INVISIBLE_WATERMARK_ENABLED", "false"))

	readTimeout, _ := time.ParseDuration(getEnv("READ_TIMEOUT", "10s"))
	writeTimeout, _ := time.ParseDuration(getEnv("WRITE_TIMEOUT", "30s"))
	idleTimeout, _ := time.ParseDuration(getEnv("SERVER_TIMEOUT", "60s"))

	config := &Config{
		Environment: getEnv("GO_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		Host:        getEnv("HOST", "localhost"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "pipeline-images"),
			UseSSL:          useSSL,
			Region:          getEnv("STORAGE_REGION", "us-east-1"),
		},
		Cache: CacheConfig{
			Enabled:    cacheEnabled,
			Address:    getEnv("CACHE_ADDRESS", "localhost:6379"),
			Password:   getEnv("CACHE_PASSWORD", ""),
			Database:   cacheDB,
			DefaultTTL: cacheTTL,
		},
		Safety: SafetyConfig{
			Enabled:   safetyEnabled,
			ModelPath: getEnv("NSFW_MODEL_PATH", "models/safety-checker.onnx"),
			Device:    getEnv("NSFW_DEVICE", "auto"),
			Threshold: safetyThreshold,
		},
		Watermark: WatermarkConfig{
			Enabled:     watermarkEnabled,
			DefaultText: getEnv("INVISIBLE_WATERMARK_TEXT", "image-pipeline"),
		},
		Logging: &LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Server: &ServerConfig{
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
	}

	// Validate configuration before returning
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// MustLoad loads configuration and panics on error
// Useful for startup scenarios where invalid config should crash the application
func MustLoad() *Config {
	config, err := Load()
	if err != nil {
		panic(err)
	}
	return config
}
