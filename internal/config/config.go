package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	ServerHost string

	// Database
	DatabaseURL string

	// JWT (tokens are issued by the external auth provider; we only validate)
	JWTSecretKey              string
	JWTAccessTokenExpireMin   int
	JWTRefreshTokenExpireDays int

	// Mapbox geocoding
	MapboxAccessToken string
	MapboxBaseURL     string

	// Property data provider
	PropertyDataAPIKey  string
	PropertyDataBaseURL string

	// Credits
	SmartSearchCreditCost int64

	// Email (SMTP)
	EmailHost            string
	EmailPort            int
	EmailHostUser        string
	EmailHostPassword    string
	EmailUseTLS          bool
	DefaultFromEmail     string
	RefinanceNotifyEmail string

	// SigNoz
	SigNozEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		ServerHost: getEnv("SERVER_HOST", "localhost:3000"),

		// Database - DATABASE_URL wins, otherwise built from individual vars
		DatabaseURL: getDatabaseURL(),

		// JWT
		JWTSecretKey:              getEnv("JWT_SECRET_KEY", ""),
		JWTAccessTokenExpireMin:   getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 15),
		JWTRefreshTokenExpireDays: getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7),

		// Mapbox
		MapboxAccessToken: getEnv("MAPBOX_ACCESS_TOKEN", ""),
		MapboxBaseURL:     getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com"),

		// Property data provider (PROPERTY_DATA_API_KEY wins, RENTCAST_API_KEY
		// fallback for older deployments)
		PropertyDataAPIKey:  getEnvWithFallback("PROPERTY_DATA_API_KEY", "RENTCAST_API_KEY", ""),
		PropertyDataBaseURL: getEnv("PROPERTY_DATA_BASE_URL", "https://api.rentcast.io/v1"),

		// Credits
		SmartSearchCreditCost: int64(getEnvAsInt("SMART_SEARCH_CREDIT_COST", 1)),

		// Email
		EmailHost:            getEnv("EMAIL_HOST", ""),
		EmailPort:            getEnvAsInt("EMAIL_PORT", 587),
		EmailHostUser:        getEnv("EMAIL_HOST_USER", ""),
		EmailHostPassword:    getEnv("EMAIL_HOST_PASSWORD", ""),
		EmailUseTLS:          getEnv("EMAIL_USE_TLS", "true") == "true",
		DefaultFromEmail:     getEnv("DEFAULT_FROM_EMAIL", ""),
		RefinanceNotifyEmail: getEnv("REFINANCE_NOTIFY_EMAIL", ""),

		// SigNoz
		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvWithFallback tries primary key first, then fallback key
func getEnvWithFallback(primary, fallback, defaultValue string) string {
	if value, exists := os.LookupEnv(primary); exists && value != "" {
		return value
	}
	if value, exists := os.LookupEnv(fallback); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	// Individual env vars match the k8s secret key names
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "alsetmaps")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
