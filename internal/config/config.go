package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port             string
	Env              string
	LogLevel         string
	PublicWebhookURL string
	RequestTimeout   time.Duration

	SparkToken     string
	SparkBaseURL   string
	SparkBotDomain string

	NluAccessToken string
	NluLang        string
	NluBaseURL     string

	AllowedEmails []string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PublicWebhookURL: getEnv("PUBLIC_WEBHOOK_URL", ""),
		RequestTimeout:   getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		SparkToken:       getEnv("SPARK_TOKEN", ""),
		SparkBaseURL:     getEnv("SPARK_BASE_URL", "https://api.ciscospark.com/v1"),
		SparkBotDomain:   getEnv("SPARK_BOT_DOMAIN", "sparkbot.io"),
		NluAccessToken:   getEnv("NLU_ACCESS_TOKEN", ""),
		NluLang:          getEnv("NLU_LANG", "en"),
		NluBaseURL:       getEnv("NLU_BASE_URL", "https://api.api.ai/v1"),
		AllowedEmails:    getEnvAsList("ALLOWED_EMAILS"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisTLS:         getEnvAsBool("REDIS_TLS", false),
	}
}

// Development reports whether the process runs with the development flag,
// which enables verbose payload logging and plain-text log output.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping
// empty entries and surrounding whitespace.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
