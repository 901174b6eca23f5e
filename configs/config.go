package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port                string
	Environment         string
	AnalysisServiceURL  string
	AnalysisTimeoutSec  int
	PostgresHost        string
	PostgresPort        string
	PostgresUser        string
	PostgresPassword    string
	PostgresDB          string
	PostgresSSLMode     string
	JWTSecret           string
	ScenarioOptimistic  float64
	ScenarioPessimistic float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		AnalysisServiceURL: getEnv("ANALYSIS_SERVICE_URL", "http://localhost:7860"),
		AnalysisTimeoutSec: getEnvInt("ANALYSIS_TIMEOUT_SEC", 60),
		PostgresHost:       getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:       getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:       getEnv("POSTGRES_USER", "agripredict"),
		PostgresPassword:   getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:         getEnv("POSTGRES_DB", "agripredict"),
		PostgresSSLMode:    getEnv("POSTGRES_SSLMODE", "disable"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		// シナリオ係数は設定値。optimistic >= 1 >= pessimistic を想定。
		ScenarioOptimistic:  getEnvFloat("SCENARIO_OPTIMISTIC_FACTOR", 1.1),
		ScenarioPessimistic: getEnvFloat("SCENARIO_PESSIMISTIC_FACTOR", 0.9),
	}
}

// PostgresDSN builds the lib/pq connection string
func (c *Config) PostgresDSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
