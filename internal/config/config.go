package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every runtime setting read from the environment.
type Config struct {
	Port string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimezone string
	SQLitePath string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration

	AppURL          string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	SMTPFrom        string
	MailTimeout     time.Duration
	MailMaxAttempts int

	UploadDir      string
	AllowedOrigins []string
	RedisAddr      string
	KafkaBrokers   []string
	KafkaTopic     string

	LogFile            string
	LogLevel           string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on env vars")
	}

	return Config{
		Port: getEnv("PORT", "8080"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "givemap"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBTimezone: getEnv("DB_TIMEZONE", "UTC"),
		SQLitePath: getEnv("SQLITE_PATH", "givemap.db"),

		JWTSecret:   getEnv("JWT_SECRET", "supersecret"),
		JWTIssuer:   getEnv("JWT_ISSUER", "givemap"),
		JWTAudience: getEnv("JWT_AUDIENCE", "givemap-web"),
		TokenTTL:    getDuration("JWT_TTL", 7*24*time.Hour),

		AppURL:          strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getInt("SMTP_PORT", 587),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:        getEnv("SMTP_FROM", "no-reply@givemap.local"),
		MailTimeout:     getDuration("MAIL_TIMEOUT", 10*time.Second),
		MailMaxAttempts: getInt("MAIL_MAX_ATTEMPTS", 5),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		KafkaBrokers:   getList("KAFKA_BROKERS", nil),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "givemap.events"),

		LogFile:            getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 15*time.Second),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 20),
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid integer %q, using default %d", v, defaultValue)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid duration %q, using default %s", v, defaultValue)
		return defaultValue
	}
	return d
}

// getList splits a comma separated variable, dropping empty items.
func getList(key string, defaultValue []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
