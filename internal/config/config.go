package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Payment   PaymentConfig
	Events    EventsConfig
	Storage   StorageConfig
	Jobs      JobsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port          string
	Env           string
	BaseURL       string
	AllowedOrigin string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	RunMigrations bool
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
	CookieSecure         bool
}

// PaymentConfig holds the hosted invoice provider settings
type PaymentConfig struct {
	BaseURL       string
	APIKey        string
	IPNSecret     string
	CallbackURL   string
	SuccessURL    string
	CancelURL     string
	PriceCurrency string
	Timeout       time.Duration
}

// EventsConfig holds Kafka settings. No brokers means events are only logged.
type EventsConfig struct {
	Brokers []string
	Topic   string
}

// StorageConfig holds upload settings
type StorageConfig struct {
	UploadDir      string
	PublicPrefix   string
	MaxUploadBytes int64
}

// JobsConfig holds background job intervals
type JobsConfig struct {
	MaturityInterval   time.Duration
	SettlementInterval time.Duration
}

// RateLimitConfig holds per-IP request budgets
type RateLimitConfig struct {
	ContactPerMinute int
	AuthPerMinute    int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			Env:           getEnv("SERVER_ENV", "development"),
			BaseURL:       getEnv("SITE_URL", "http://localhost:3000"),
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnvAsInt("DB_PORT", 5432),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "fxvault"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			RunMigrations: getEnvAsBool("DB_RUN_MIGRATIONS", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			CookieSecure:         getEnvAsBool("COOKIE_SECURE", false),
		},
		Payment: PaymentConfig{
			BaseURL:       getEnv("NOWPAYMENTS_API_URL", "https://api.nowpayments.io"),
			APIKey:        getEnv("NOWPAYMENTS_API_KEY", ""),
			IPNSecret:     getEnv("NOWPAYMENTS_IPN_SECRET", ""),
			CallbackURL:   getEnv("NOWPAYMENTS_IPN_CALLBACK_URL", "http://localhost:8080/api/v1/payments/ipn"),
			SuccessURL:    getEnv("PAYMENT_SUCCESS_URL", "http://localhost:3000/dashboard/deposit?status=success"),
			CancelURL:     getEnv("PAYMENT_CANCEL_URL", "http://localhost:3000/dashboard/deposit?status=cancel"),
			PriceCurrency: getEnv("PAYMENT_PRICE_CURRENCY", "usd"),
			Timeout:       getEnvAsDuration("PAYMENT_TIMEOUT", 15*time.Second),
		},
		Events: EventsConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "fxvault.events"),
		},
		Storage: StorageConfig{
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			PublicPrefix:   getEnv("UPLOAD_PUBLIC_PREFIX", "/api/v1/uploads"),
			MaxUploadBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5<<20)),
		},
		Jobs: JobsConfig{
			MaturityInterval:   getEnvAsDuration("JOB_MATURITY_INTERVAL", time.Minute),
			SettlementInterval: getEnvAsDuration("JOB_SETTLEMENT_INTERVAL", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			ContactPerMinute: getEnvAsInt("RATE_LIMIT_CONTACT_PER_MINUTE", 5),
			AuthPerMinute:    getEnvAsInt("RATE_LIMIT_AUTH_PER_MINUTE", 20),
		},
	}
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
