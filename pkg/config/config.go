package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	RedisAddr               string
	NatsURL                 string
	JWTSecret               string
	TokenTTL                time.Duration
	MetricsPort             string
	RateLimitRPM            int
	UnreadCacheTTL          time.Duration

	OutboxInterval    time.Duration
	OutboxGrace       time.Duration
	OutboxBatchSize   int
	OutboxMaxAttempts int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "ideahub"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		NatsURL:                 getEnv("NATS_URL", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		TokenTTL:                getEnvDuration("TOKEN_TTL", 72*time.Hour),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		RateLimitRPM:            getEnvInt("RATE_LIMIT_RPM", 120),
		UnreadCacheTTL:          getEnvDuration("UNREAD_CACHE_TTL", 30*time.Second),
		OutboxInterval:          getEnvDuration("OUTBOX_INTERVAL", 5*time.Second),
		OutboxGrace:             getEnvDuration("OUTBOX_GRACE", 30*time.Second),
		OutboxBatchSize:         getEnvInt("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxAttempts:       getEnvInt("OUTBOX_MAX_ATTEMPTS", 5),
	}
}

// Validate reports every missing or out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.PostgresConnStr == "" {
		errs = append(errs, errors.New("POSTGRES_CONN_STR environment variable not set"))
	}
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI environment variable not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable not set"))
	}
	if c.RateLimitRPM <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPM must be positive, got %d", c.RateLimitRPM))
	}
	if c.OutboxInterval <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_INTERVAL must be positive, got %s", c.OutboxInterval))
	}
	if c.OutboxMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_MAX_ATTEMPTS must be positive, got %d", c.OutboxMaxAttempts))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
