package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	UploadDir string

	PaymentBaseURL string
	QRServiceURL   string

	Bootstrap BootstrapConfig
	RateLimit RateLimitConfig
}

// BootstrapConfig controls first-run seeding.
type BootstrapConfig struct {
	EnsureAdminUser     bool
	AdminEmail          string
	AdminPassword       string
	SeedDefaultPricing  bool
}

// RateLimitConfig configures the Redis-backed limiter for public endpoints.
type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LookupRate  float64
	LookupBurst int
	LikeRate    float64
	LikeBurst   int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "waterworks"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "waterworks"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME_SECONDS", 1800),

		UploadDir: getenv("UPLOAD_DIR", "./uploads"),

		PaymentBaseURL: getenv("PAYMENT_BASE_URL", "https://payment.introaqua.vn/pay"),
		QRServiceURL:   getenv("QR_SERVICE_URL", "https://api.qrserver.com/v1/create-qr-code/"),

		Bootstrap: BootstrapConfig{
			EnsureAdminUser:    getenvBool("BOOTSTRAP_ADMIN", true),
			AdminEmail:         strings.TrimSpace(getenv("BOOTSTRAP_ADMIN_EMAIL", "admin@introaqua.local")),
			AdminPassword:      getenv("BOOTSTRAP_ADMIN_PASSWORD", ""),
			SeedDefaultPricing: getenvBool("BOOTSTRAP_PRICING_TIERS", true),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			LookupRate:    getenvFloat("RATE_LIMIT_LOOKUP_RATE", 1),
			LookupBurst:   getenvInt("RATE_LIMIT_LOOKUP_BURST", 10),
			LikeRate:      getenvFloat("RATE_LIMIT_LIKE_RATE", 2),
			LikeBurst:     getenvInt("RATE_LIMIT_LIKE_BURST", 20),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
