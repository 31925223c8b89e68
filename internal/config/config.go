// internal/config/config.go
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
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Redis       RedisConfig
	AWS         AWSConfig
	Search      SearchConfig
	Inventory   InventoryConfig
	Assistant   AssistantConfig
	Log         LogConfig
	I18n        I18nConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite". sqlite treats Database as a file path.
	Driver       string
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string

	// ReadURL points the search read pool at a replica. Empty means the primary.
	ReadURL string
}

// AuthConfig describes the external auth provider whose access tokens we verify.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	Audience  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type SearchConfig struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
	MaxQueryLength  int
	Timeout         time.Duration
	FallbackLat     float64
	FallbackLng     float64
	CacheTTL        time.Duration
	LogQueueSize    int
	LogWorkers      int
}

type InventoryConfig struct {
	SweepEnabled      bool
	SweepInterval     time.Duration
	ExpiryAlertDays   int
	MaxImageSizeBytes int64
}

type AssistantConfig struct {
	GeminiAPIKey string
	Model        string
	BaseURL      string
	Timeout      time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type I18nConfig struct {
	DefaultLocale string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "postgres"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "medlocator"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
			ReadURL:      getEnv("DB_READ_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "your-secret-key-change-in-production"),
			Issuer:    getEnv("AUTH_JWT_ISSUER", ""),
			Audience:  getEnv("AUTH_JWT_AUDIENCE", "authenticated"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "medlocator-store-images"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Search: SearchConfig{
			DefaultRadiusKm: getEnvAsFloat("SEARCH_DEFAULT_RADIUS_KM", 10),
			MaxRadiusKm:     getEnvAsFloat("SEARCH_MAX_RADIUS_KM", 100),
			MaxQueryLength:  getEnvAsInt("SEARCH_MAX_QUERY_LENGTH", 100),
			Timeout:         getEnvAsDuration("SEARCH_TIMEOUT", 5*time.Second),
			// Geographic centre of India
			FallbackLat:  getEnvAsFloat("SEARCH_FALLBACK_LAT", 20.5937),
			FallbackLng:  getEnvAsFloat("SEARCH_FALLBACK_LNG", 78.9629),
			CacheTTL:     getEnvAsDuration("SEARCH_CACHE_TTL", 30*time.Second),
			LogQueueSize: getEnvAsInt("SEARCH_LOG_QUEUE_SIZE", 256),
			LogWorkers:   getEnvAsInt("SEARCH_LOG_WORKERS", 2),
		},
		Inventory: InventoryConfig{
			SweepEnabled:      getEnvAsBool("INVENTORY_SWEEP_ENABLED", true),
			SweepInterval:     getEnvAsDuration("INVENTORY_SWEEP_INTERVAL", time.Hour),
			ExpiryAlertDays:   getEnvAsInt("INVENTORY_EXPIRY_ALERT_DAYS", 30),
			MaxImageSizeBytes: int64(getEnvAsInt("INVENTORY_MAX_IMAGE_MB", 5)) << 20,
		},
		Assistant: AssistantConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			BaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:      getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", ""),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("auth JWT secret must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Search.DefaultRadiusKm <= 0 || c.Search.MaxRadiusKm <= 0 {
		return fmt.Errorf("search radius settings must be positive")
	}

	if c.Search.DefaultRadiusKm > c.Search.MaxRadiusKm {
		return fmt.Errorf("default search radius %.1f km exceeds maximum %.1f km", c.Search.DefaultRadiusKm, c.Search.MaxRadiusKm)
	}

	if c.Search.FallbackLat < -90 || c.Search.FallbackLat > 90 || c.Search.FallbackLng < -180 || c.Search.FallbackLng > 180 {
		return fmt.Errorf("search fallback origin (%f, %f) is not a valid coordinate", c.Search.FallbackLat, c.Search.FallbackLng)
	}

	if c.Search.Timeout <= 0 {
		return fmt.Errorf("search timeout must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("750ms", "2m") or plain seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
