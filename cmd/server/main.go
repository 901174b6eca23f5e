package main

import (
	"log"
	"net/http"
	"time"

	config "agripredict-api/configs"
	"agripredict-api/pkg/analysis"
	"agripredict-api/pkg/auth"
	"agripredict-api/pkg/handlers"
	"agripredict-api/pkg/services"
	"agripredict-api/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	// Ginルーターの初期化
	r := gin.Default()

	// ストアの初期化
	store, err := storage.NewPostgresStore(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize PostgresStore: %v", err)
	}
	defer store.Close()

	// サービスの初期化
	monitoringService := services.NewMonitoringService()
	historyService := services.NewHistoryService(store)
	baselineService := services.NewBaselineForecastService(
		services.NewDefaultNoiseSource(),
		cfg.ScenarioOptimistic,
		cfg.ScenarioPessimistic,
	)
	analysisClient := analysis.NewClient(cfg.AnalysisServiceURL, time.Duration(cfg.AnalysisTimeoutSec)*time.Second)
	comparisonService := services.NewComparisonService(historyService, analysisClient)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	// ハンドラーの初期化
	forecastHandler := handlers.NewForecastHandler(historyService, baselineService)
	comparisonHandler := handlers.NewComparisonHandler(comparisonService, verifier)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// ミドルウェアの登録
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	// ヘルスチェック
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "AgriPredict Forecast API",
		})
	})

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	{
		forecast := v1.Group("/forecast")
		{
			forecast.GET("/models", forecastHandler.ListModels)
			forecast.GET("/settings", forecastHandler.GetForecastSettings)
			forecast.GET("/metrics/classify", forecastHandler.ClassifyMetric)
			forecast.POST("/baseline", forecastHandler.GenerateBaselineForecast)
			forecast.POST("/revenue", forecastHandler.ProjectRevenue)
			forecast.POST("/compare", comparisonHandler.CompareModels)
			forecast.POST("/compare/export", comparisonHandler.ExportComparison)
		}

		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/dashboard", monitoringHandler.GetDashboardData)
		}
	}

	// サーバーの起動
	log.Printf("AgriPredict Forecast API starting on port %s (environment: %s)", cfg.Port, cfg.Environment)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
