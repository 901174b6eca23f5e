package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"agripredict-api/pkg/models"
	"agripredict-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ForecastHandler ベースライン予測ハンドラー
type ForecastHandler struct {
	historyService  *services.HistoryService
	baselineService *services.BaselineForecastService
}

// NewForecastHandler 新しい予測ハンドラーを作成
func NewForecastHandler(historyService *services.HistoryService, baselineService *services.BaselineForecastService) *ForecastHandler {
	return &ForecastHandler{
		historyService:  historyService,
		baselineService: baselineService,
	}
}

// BaselineForecastRequest ベースライン予測リクエスト
type BaselineForecastRequest struct {
	ProductID    string   `json:"product_id" binding:"required"`
	Days         int      `json:"days"`
	Scenario     string   `json:"scenario,omitempty"`
	SellingPrice *float64 `json:"selling_price,omitempty"`
}

// GenerateBaselineForecast はローカル計算のベースライン予測を実行します。
func (fh *ForecastHandler) GenerateBaselineForecast(c *gin.Context) {
	var request BaselineForecastRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "リクエストの解析に失敗しました: " + err.Error(),
		})
		return
	}

	// デフォルト値の設定
	if request.Days == 0 {
		request.Days = 7
	}
	if request.Scenario == "" {
		request.Scenario = services.ScenarioRealistic
	}

	// 履歴ウィンドウを取得（ベースラインは認証不要 = ユーザースコープなし）
	window, err := fh.historyService.FetchWindow(c.Request.Context(), request.ProductID, "", services.BaselineHistoryLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	forecast, err := fh.baselineService.Forecast(window, request.Days, request.Scenario)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := services.Summarize(window, forecast, request.Scenario)
	if err != nil {
		respondError(c, err)
		return
	}

	response := models.BaselineForecastResponse{
		ProductID:         request.ProductID,
		ForecastData:      forecast,
		Summary:           *summary,
		RevenueProjection: services.ProjectRevenue(forecast, request.SellingPrice),
		Confidence:        services.CalculateOverallConfidence(forecast),
		Scenario:          request.Scenario,
		GeneratedAt:       time.Now().Format("2006-01-02 15:04:05"),
	}

	respondOK(c, response)
}

// RevenueProjectionRequest 売上予測リクエスト
type RevenueProjectionRequest struct {
	ForecastData []models.ForecastDataPoint `json:"forecast_data" binding:"required"`
	SellingPrice *float64                   `json:"selling_price,omitempty"`
}

// ProjectRevenue は予測系列と販売単価から売上予測を導出します。
// 単価が未指定の場合、売上予測は空になります（0埋めはしません）。
func (fh *ForecastHandler) ProjectRevenue(c *gin.Context) {
	var request RevenueProjectionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "リクエストの解析に失敗しました: " + err.Error(),
		})
		return
	}

	projections := services.ProjectRevenue(request.ForecastData, request.SellingPrice)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    projections,
		"count":   len(projections),
	})
}

// ClassifyMetric は指標の生値を品質バケットに分類します。
func (fh *ForecastHandler) ClassifyMetric(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		respondError(c, fmt.Errorf("%w: name is required", models.ErrInvalidRequest))
		return
	}

	var value *float64
	if valueStr := c.Query("value"); valueStr != "" {
		v, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			respondError(c, fmt.Errorf("%w: value must be a number, got %q", models.ErrInvalidRequest, valueStr))
			return
		}
		value = &v
	}

	respondOK(c, gin.H{
		"metric":  name,
		"quality": services.ClassifyMetric(name, value),
	})
}

// ListModels は選択可能な予測モデルの一覧を返します。
func (fh *ForecastHandler) ListModels(c *gin.Context) {
	respondOK(c, gin.H{
		"models": services.AvailableModels(),
	})
}

// GetForecastSettings は予測設定（ホライズン・履歴の制約やシナリオ）を返します。
func (fh *ForecastHandler) GetForecastSettings(c *gin.Context) {
	settings := gin.H{
		"baseline_range": gin.H{
			"min_days": services.MinForecastDays,
			"max_days": services.MaxBaselineForecastDays,
		},
		"comparison_range": gin.H{
			"min_days": services.MinForecastDays,
			"max_days": services.MaxComparisonForecastDays,
		},
		"history_limits": gin.H{
			"baseline":       services.BaselineHistoryLimit,
			"comparison":     services.ComparisonHistoryLimit,
			"comparison_min": services.MinComparisonHistory,
		},
		"scenarios": []string{
			services.ScenarioOptimistic,
			services.ScenarioRealistic,
			services.ScenarioPessimistic,
		},
		"metric_qualities": []models.MetricQuality{
			models.QualityGood,
			models.QualityMedium,
			models.QualityPoor,
			models.QualityUnknown,
		},
	}

	respondOK(c, settings)
}
