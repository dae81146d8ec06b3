package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPPort    string

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
	DBConnMaxIdleTime int

	AuthJWTSecret      string
	AuthTokenTTLMin    int
	SignupCreditGrant  decimal.Decimal
	ResumeRenderCost   decimal.Decimal
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	FrontendBaseURL    string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	RazorpayBaseURL       string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "craftedcv"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPPort:    getenv("HTTP_PORT", "8080"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "craftedcv"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		AuthJWTSecret:      strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AuthTokenTTLMin:    getenvInt("AUTH_TOKEN_TTL_MINUTES", 10080),
		SignupCreditGrant:  getenvDecimal("SIGNUP_CREDIT_GRANT", decimal.NewFromInt(150)),
		ResumeRenderCost:   getenvDecimal("RESUME_RENDER_COST", decimal.NewFromInt(5)),
		GoogleClientID:     strings.TrimSpace(getenv("GOOGLE_CLIENT_ID", "")),
		GoogleClientSecret: strings.TrimSpace(getenv("GOOGLE_CLIENT_SECRET", "")),
		GoogleRedirectURI:  strings.TrimSpace(getenv("GOOGLE_REDIRECT_URI", "")),
		FrontendBaseURL:    getenv("FRONTEND_BASE_URL", "http://localhost:5173"),

		RazorpayKeyID:         strings.TrimSpace(getenv("RAZORPAY_KEY_ID", "")),
		RazorpayKeySecret:     strings.TrimSpace(getenv("RAZORPAY_KEY_SECRET", "")),
		RazorpayWebhookSecret: strings.TrimSpace(getenv("RAZORPAY_WEBHOOK_SECRET", "")),
		RazorpayBaseURL:       getenv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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

func getenvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return def
	}
	return parsed
}
