package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// テスト用の環境変数を設定
	testCases := map[string]string{
		"PORT":                 "9090",
		"ENVIRONMENT":          "test",
		"ANALYSIS_SERVICE_URL": "http://analysis.test:7860",
		"ANALYSIS_TIMEOUT_SEC": "30",
		"POSTGRES_HOST":        "db.test",
		"POSTGRES_DB":          "test_db",
		"JWT_SECRET":           "test-secret",
	}

	// 環境変数を設定
	for key, value := range testCases {
		os.Setenv(key, value)
	}

	// テスト後にクリーンアップ
	defer func() {
		for key := range testCases {
			os.Unsetenv(key)
		}
	}()

	// 設定を読み込み
	cfg := LoadConfig()

	// 検証
	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", cfg.Port)
	}

	if cfg.Environment != "test" {
		t.Errorf("Expected Environment to be 'test', got '%s'", cfg.Environment)
	}

	if cfg.AnalysisServiceURL != "http://analysis.test:7860" {
		t.Errorf("Expected AnalysisServiceURL to be 'http://analysis.test:7860', got '%s'", cfg.AnalysisServiceURL)
	}

	if cfg.AnalysisTimeoutSec != 30 {
		t.Errorf("Expected AnalysisTimeoutSec to be 30, got %d", cfg.AnalysisTimeoutSec)
	}

	if cfg.PostgresHost != "db.test" {
		t.Errorf("Expected PostgresHost to be 'db.test', got '%s'", cfg.PostgresHost)
	}

	if cfg.JWTSecret != "test-secret" {
		t.Errorf("Expected JWTSecret to be 'test-secret', got '%s'", cfg.JWTSecret)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// 環境変数をクリア
	vars := []string{
		"PORT", "ENVIRONMENT", "ANALYSIS_SERVICE_URL", "ANALYSIS_TIMEOUT_SEC",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB",
		"SCENARIO_OPTIMISTIC_FACTOR", "SCENARIO_PESSIMISTIC_FACTOR",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("Expected default Port to be '8080', got '%s'", cfg.Port)
	}

	if cfg.AnalysisServiceURL != "http://localhost:7860" {
		t.Errorf("Expected default AnalysisServiceURL, got '%s'", cfg.AnalysisServiceURL)
	}

	if cfg.ScenarioOptimistic != 1.1 {
		t.Errorf("Expected default ScenarioOptimistic to be 1.1, got %f", cfg.ScenarioOptimistic)
	}

	if cfg.ScenarioPessimistic != 0.9 {
		t.Errorf("Expected default ScenarioPessimistic to be 0.9, got %f", cfg.ScenarioPessimistic)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "localhost",
		PostgresPort:     "5432",
		PostgresUser:     "user",
		PostgresPassword: "pass",
		PostgresDB:       "db",
		PostgresSSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=user password=pass dbname=db sslmode=disable"
	if dsn := cfg.PostgresDSN(); dsn != expected {
		t.Errorf("PostgresDSN() = %s, expected %s", dsn, expected)
	}
}
