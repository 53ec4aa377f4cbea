package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string        // Issuer claim of session tokens (default: nutridash)
	SessionTTL     time.Duration // Session token lifetime (default: 15m)
	SigningKeyFile string        // Ed25519 signing key, created on first start (default: signing.key)
	MasterKey      string        // Optional: seals the signing key file at rest
	DatabaseFile   string        // Path to SQLite database file (default: nutridash.db)
	PepperFile     string        // Path to the password pepper file (default: pepper)
	RedisAddr      string        // Optional: use Redis for cross-instance locks
	RedisPassword  string

	SMTP         SMTPConfig
	MailTimeout  time.Duration // Upper bound for sending one code email (default: 15s)
	MailTimezone string        // Zone used for the expiry shown in emails (default: UTC)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// SMTPConfig is left empty to log codes instead of mailing them.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LoadConfig reads the environment. In dev a .env file in the working
// directory is loaded first; variables already set win.
func LoadConfig() Config {
	if getEnvOrDefault("ENV", "dev") == "dev" {
		_ = godotenv.Load()
	}

	return Config{
		Issuer:         getEnvOrDefault("NUTRIDASH_ISSUER", "nutridash"),
		SessionTTL:     getEnvDurationOrDefault("NUTRIDASH_SESSION_TTL", 15*time.Minute),
		SigningKeyFile: getEnvOrDefault("NUTRIDASH_SIGNING_KEY_FILE", "signing.key"),
		MasterKey:      os.Getenv("NUTRIDASH_MASTER_KEY"),
		DatabaseFile:   getEnvOrDefault("NUTRIDASH_DATABASE_FILE", "nutridash.db"),
		PepperFile:     getEnvOrDefault("NUTRIDASH_PEPPER_FILE", "pepper"),
		RedisAddr:      os.Getenv("NUTRIDASH_REDIS_ADDR"),
		RedisPassword:  os.Getenv("NUTRIDASH_REDIS_PASSWORD"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnvOrDefault("SMTP_FROM", "no-reply@nutridash.local"),
		},
		MailTimeout:          getEnvDurationOrDefault("MAIL_TIMEOUT", 15*time.Second),
		MailTimezone:         getEnvOrDefault("MAIL_TIMEZONE", "UTC"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
