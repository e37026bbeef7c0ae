package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"

	defaultTimezone = "Africa/Lagos"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	DatabaseURL  string
	SeedDemoData bool

	SessionBackend     string
	SessionTTL         time.Duration
	SessionLockTimeout time.Duration
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool

	ClinicName     string
	ClinicTimezone string

	GroqAPIKey         string
	GroqModel          string
	GroqBaseURL        string
	GeminiAPIKey       string
	GeminiModel        string
	BedrockModelID     string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	GenerationProbe    bool
	FeedbackGeneration bool
	GenerationTimeout  time.Duration

	AdminJWTSecret     string
	CORSAllowedOrigins []string
	ChatRateLimitRPS   float64
	ChatRateLimitBurst int

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	StaffAlertEmail   string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SeedDemoData: getEnvAsBool("SEED_DEMO_DATA", false),

		SessionBackend:     strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		SessionLockTimeout: getEnvAsDuration("SESSION_LOCK_TIMEOUT", 5*time.Second),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),

		ClinicName:     getEnv("CLINIC_NAME", "ClinicDesk AI"),
		ClinicTimezone: getEnv("CLINIC_TIMEZONE", defaultTimezone),

		GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
		GroqModel:          getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqBaseURL:        getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		BedrockModelID:     getEnv("BEDROCK_MODEL_ID", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		GenerationProbe:    getEnvAsBool("GENERATION_PROBE", false),
		FeedbackGeneration: getEnvAsBool("FEEDBACK_GENERATION", false),
		GenerationTimeout:  getEnvAsDuration("GENERATION_TIMEOUT", 10*time.Second),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		ChatRateLimitRPS:   getEnvAsFloat("CHAT_RATE_LIMIT_RPS", 2),
		ChatRateLimitBurst: getEnvAsInt("CHAT_RATE_LIMIT_BURST", 10),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "ClinicDesk AI"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		StaffAlertEmail:   getEnv("STAFF_ALERT_EMAIL", ""),
	}
}

// Location resolves ClinicTimezone, falling back to UTC when the zone
// database does not know it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// UseRedisSessions reports whether sessions live in Redis.
func (c *Config) UseRedisSessions() bool {
	return c.SessionBackend == SessionBackendRedis
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
