package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string

	// IPs allowed to set X-Forwarded-For, usually the edge proxy
	TrustedProxies []string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	DBMaxConns    int
	DBMaxIdleTime time.Duration
	DBMaxLifetime time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Base URL of the DonateRaid core backend, e.g. https://api.donateraid.ru
	BackendBaseURL string
	BackendTimeout time.Duration

	SupportPollInterval      time.Duration
	NotificationPollInterval time.Duration

	CatalogCacheSize int
	CatalogCacheTTL  time.Duration
	CartCacheTTL     time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		ServiceName: getEnv("SERVICE_NAME", "storefront-api"),
		Version:     getEnv("VERSION", "dev"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "storefront"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		BackendBaseURL: getEnv("BACKEND_BASE_URL", ""),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			cfg.TrustedProxies = append(cfg.TrustedProxies, strings.TrimSpace(p))
		}
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxIdleTime, err = getEnvDuration("DB_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxLifetime, err = getEnvDuration("DB_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = redisDB

	cacheSize, err := getEnvInt("CATALOG_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	cfg.CatalogCacheSize = cacheSize

	cfg.BackendTimeout, err = getEnvDuration("BACKEND_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.SupportPollInterval, err = getEnvDuration("SUPPORT_POLL_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.NotificationPollInterval, err = getEnvDuration("NOTIFICATION_POLL_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.CatalogCacheTTL, err = getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.CartCacheTTL, err = getEnvDuration("CART_CACHE_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	// The whole service fronts the core backend; refuse to start without it
	if cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL environment variable must be set")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
