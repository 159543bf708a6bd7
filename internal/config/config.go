package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service Ports
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Storage
	StorageDriver string `env:"STORAGE_DRIVER" default:"sql"`
	DatabaseURL   string `env:"DATABASE_URL" default:"./data/movierater.db"`

	// Redis Cache
	RedisURL      string `env:"REDIS_URL" default:"redis://localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisPrefix   string `env:"REDIS_PREFIX" default:"movierater"`
	CacheTTL      int    `env:"CACHE_TTL" default:"3600"`

	// External APIs
	TMDBAPIURL string `env:"TMDB_API_URL" default:"https://api.themoviedb.org/3"`
	TMDBAPIKey string `env:"TMDB_API_KEY"`

	// Page fetching
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT" default:"15s"`
	FetchRateLimit float64       `env:"FETCH_RATE_LIMIT" default:"2"`
	FetchUserAgent string        `env:"FETCH_USER_AGENT"`
	DetectWorkers  int           `env:"DETECT_WORKERS" default:"4"`

	// Feature flags
	FeatureGenreDetection  bool `env:"FEATURE_GENRE_DETECTION" default:"true"`
	FeatureCustomFields    bool `env:"FEATURE_CUSTOM_FIELDS" default:"true"`
	FeatureCategoryToggles bool `env:"FEATURE_CATEGORY_TOGGLES" default:"true"`

	// Development
	LogLevel    string   `env:"LOG_LEVEL" default:"debug"`
	LogFormat   string   `env:"LOG_FORMAT" default:"text"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:3000,chrome-extension://*"`

	// TLS
	TLSEnabled  bool   `env:"TLS_ENABLED" default:"false"`
	TLSCertPath string `env:"TLS_CERT_PATH" default:"./cert/localhost+2.pem"`
	TLSKeyPath  string `env:"TLS_KEY_PATH" default:"./cert/localhost+2-key.pem"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// A missing .env is fine; system env vars still apply.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: could not read .env file: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// Ports
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Storage
	if err := loadEnvString(&config.StorageDriver, "STORAGE_DRIVER", "sql"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.DatabaseURL, "DATABASE_URL", "./data/movierater.db"); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://localhost:6379"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPrefix, "REDIS_PREFIX", "movierater"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.CacheTTL, "CACHE_TTL", 3600); err != nil {
		return nil, err
	}

	// External APIs
	if err := loadEnvString(&config.TMDBAPIURL, "TMDB_API_URL", "https://api.themoviedb.org/3"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.TMDBAPIKey, "TMDB_API_KEY", ""); err != nil {
		return nil, err
	}

	// Page fetching
	if err := loadEnvDuration(&config.FetchTimeout, "FETCH_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.FetchRateLimit, "FETCH_RATE_LIMIT", 2); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.FetchUserAgent, "FETCH_USER_AGENT", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DetectWorkers, "DETECT_WORKERS", 4); err != nil {
		return nil, err
	}

	// Feature flags
	if err := loadEnvBool(&config.FeatureGenreDetection, "FEATURE_GENRE_DETECTION", true); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.FeatureCustomFields, "FEATURE_CUSTOM_FIELDS", true); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.FeatureCategoryToggles, "FEATURE_CATEGORY_TOGGLES", true); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"http://localhost:3000", "chrome-extension://*"}); err != nil {
		return nil, err
	}

	// TLS
	if err := loadEnvBool(&config.TLSEnabled, "TLS_ENABLED", false); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.TLSCertPath, "TLS_CERT_PATH", "./cert/localhost+2.pem"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.TLSKeyPath, "TLS_KEY_PATH", "./cert/localhost+2-key.pem"); err != nil {
		return nil, err
	}
	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		// Trim whitespace from each element
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validDrivers := []string{"sql", "redis", "memory"}
	if !contains(validDrivers, c.StorageDriver) {
		errors = append(errors, fmt.Sprintf("STORAGE_DRIVER must be one of: %s", strings.Join(validDrivers, ", ")))
	}
	if c.StorageDriver == "sql" && c.DatabaseURL == "" {
		errors = append(errors, "DATABASE_URL is required for the sql storage driver")
	}

	if c.CacheTTL < 0 {
		errors = append(errors, "CACHE_TTL must not be negative")
	}
	if c.FetchRateLimit <= 0 {
		errors = append(errors, "FETCH_RATE_LIMIT must be positive")
	}
	if c.DetectWorkers < 1 {
		errors = append(errors, "DETECT_WORKERS must be at least 1")
	}

	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	// Validate log format
	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsPostgres reports whether DatabaseURL points at postgres rather than a
// sqlite file.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// CacheDuration returns CACHE_TTL as a duration.
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
