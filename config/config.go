package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cart     CartConfig
	CORS     CORSConfig
	S3       S3Config
	Report   ReportConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CartConfig struct {
	// KeyPrefix namespaces persisted cart snapshots in the KV store.
	KeyPrefix string
	// DefaultMaxStock bounds quantity updates when the catalog carries
	// no stock ceiling for a product.
	DefaultMaxStock int
	// NotificationHistory is the per-client bound on retained notifications.
	NotificationHistory int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type ReportConfig struct {
	// Enabled turns the nightly bulk-order report export on.
	Enabled bool
	// Schedule is a cron expression; default is 02:00 daily.
	Schedule string
	// Prefix is the S3 key prefix for uploaded workbooks.
	Prefix string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "bnbmart"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Cart: CartConfig{
			KeyPrefix:           getEnv("CART_KEY_PREFIX", "cart"),
			DefaultMaxStock:     parseInt(getEnv("CART_DEFAULT_MAX_STOCK", "999"), 999),
			NotificationHistory: parseInt(getEnv("CART_NOTIFICATION_HISTORY", "50"), 50),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "bnbmart-reports"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Report: ReportConfig{
			Enabled:  getEnv("REPORT_ENABLED", "false") == "true",
			Schedule: getEnv("REPORT_SCHEDULE", "0 2 * * *"),
			Prefix:   getEnv("REPORT_S3_PREFIX", "reports/bulk-orders"),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %q, using default %d", s, defaultValue)
		return defaultValue
	}
	return v
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
