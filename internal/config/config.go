package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port        string
	DBConn      string
	LogLevel    string
	Environment string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	FXURL        string
	BaseCurrency string
	MarketURL    string

	GeminiAPIKey string
	GeminiModel  string

	RateLimitEnabled    bool
	MaxReportsPerDay    int
	DefaultAnnualReturn float64
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBConn:      getEnv("DB_CONN", "host=localhost port=5432 user=prognosis password=prognosis dbname=prognosis sslmode=disable"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		Environment: getEnv("ENVIRONMENT", "local"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", ""),
		JWTAudience: getEnv("JWT_AUDIENCE", "authenticated"),

		FXURL:        getEnv("FX_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"),
		BaseCurrency: getEnv("BASE_CURRENCY", "EUR"),
		MarketURL:    getEnv("MARKET_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		RateLimitEnabled:    getEnvBool("PROGNOSIS_RATE_LIMIT_ENABLED", false),
		MaxReportsPerDay:    getEnvInt("PROGNOSIS_MAX_PER_DAY", 5),
		DefaultAnnualReturn: getEnvFloat("PROGNOSIS_ANNUAL_RETURN", 0.07),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTIssuer == "" {
		return nil, fmt.Errorf("JWT_ISSUER is required")
	}
	if cfg.MaxReportsPerDay <= 0 {
		return nil, fmt.Errorf("PROGNOSIS_MAX_PER_DAY must be positive")
	}
	if cfg.DefaultAnnualReturn <= -1 {
		return nil, fmt.Errorf("PROGNOSIS_ANNUAL_RETURN must be greater than -1")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}
