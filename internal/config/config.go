package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service settings read from the environment
type Config struct {
	Port string

	// Empty disables the backing store
	RedisURI string
	MongoURI string
	MongoDB  string

	JWTSecret string

	// Analysis service called when a diagnostic finishes. Empty disables it.
	AnalysisURL     string
	AnalysisTimeout time.Duration

	// CRM webhook. Empty disables it.
	WebhookURL     string
	WebhookTimeout time.Duration

	AdvanceDelay        time.Duration
	WizardQualification bool
	WizardValidation    bool

	// Call booking link shown on the results step
	BookingURL string

	SessionCacheSize int
	SessionTTL       time.Duration

	CORSAllowedOrigins []string

	AI *AIConfig
}

// Load reads an optional .env file then the environment
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		RedisURI:            os.Getenv("REDIS_URI"),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDB:             getEnv("MONGO_DB", "goodtime"),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		AnalysisURL:         strings.TrimRight(os.Getenv("ANALYSIS_URL"), "/"),
		AnalysisTimeout:     getMillis("ANALYSIS_TIMEOUT_MS", 30000),
		WebhookURL:          os.Getenv("WEBHOOK_URL"),
		WebhookTimeout:      getMillis("WEBHOOK_TIMEOUT_MS", 10000),
		AdvanceDelay:        getMillis("ADVANCE_DELAY_MS", 400),
		WizardQualification: getBool("WIZARD_QUALIFICATION", true),
		WizardValidation:    getBool("WIZARD_VALIDATION", true),
		BookingURL:          os.Getenv("BOOKING_URL"),
		SessionCacheSize:    getInt("SESSION_CACHE_SIZE", 1024),
		SessionTTL:          time.Duration(getInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		CORSAllowedOrigins:  getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AI:                  DefaultAIConfig(),
	}
}

// RedisAddr strips the redis:// scheme the deployment files use
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURI, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, val, defaultVal)
		return defaultVal
	}
	return n
}

func getMillis(key string, defaultMS int) time.Duration {
	return time.Duration(getInt(key, defaultMS)) * time.Millisecond
}

func getBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("Warning: %s=%q is not a boolean, using %t", key, val, defaultVal)
		return defaultVal
	}
	return b
}

func getList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
