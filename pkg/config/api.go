package config

import "time"

// APIConfig holds runtime configuration for the API service.
type APIConfig struct {
	Environment           string
	Addr                  string
	LogLevel              string
	DatabaseURL           string
	MigrationsDir         string
	BasicAuthUser         string
	BasicAuthPasswordHash string
	BasicAuthPassword     string
	ListRowCap            int
	ShutdownTimeout       time.Duration
	RateLimitRedisAddr    string
	RateLimitRedisPass    string
	RateLimitRedisDB      int
}

// LoadAPIConfig constructs an APIConfig from environment variables.
func LoadAPIConfig() APIConfig {
	return APIConfig{
		Environment:           GetString("APP_ENV", "development"),
		Addr:                  GetString("API_ADDR", ":8000"),
		LogLevel:              GetString("LOG_LEVEL", "info"),
		DatabaseURL:           GetString("DATABASE_URL", "postgres://rocket:rocket@db:5432/rocket?sslmode=disable"),
		MigrationsDir:         GetString("DB_MIGRATIONS_DIR", "./db/migrations"),
		BasicAuthUser:         GetString("BASIC_AUTH_USER", "admin"),
		BasicAuthPasswordHash: GetString("BASIC_AUTH_PASSWORD_HASH", ""),
		BasicAuthPassword:     GetString("BASIC_AUTH_PASSWORD", ""),
		ListRowCap:            GetInt("LIST_ROW_CAP", 1000),
		ShutdownTimeout:       GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		RateLimitRedisAddr:    GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass:    GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:      GetInt("RATE_LIMIT_REDIS_DB", 0),
	}
}
