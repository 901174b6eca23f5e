package models

import "time"

// DemandRecord represents a single historical demand record.
// The persistence store owns these; the engine only reads windows of them.
type DemandRecord struct {
	Date      time.Time `json:"date"`
	ProductID string    `json:"product_id"`
	Quantity  float64   `json:"quantity"` // 販売数量（0以上）
	Price     float64   `json:"price"`    // 単価（0以上）
}

// ForecastDataPoint represents a single forecasted point.
type ForecastDataPoint struct {
	Date            string   `json:"date"` // "2006-01-02" 形式
	PredictedValue  float64  `json:"predicted_value"`
	ConfidenceLower *float64 `json:"confidence_lower,omitempty"`
	ConfidenceUpper *float64 `json:"confidence_upper,omitempty"`
	ModelUsed       string   `json:"model_used,omitempty"`
}

// ModelMetrics モデルごとの精度指標。計算できなかった指標はnilになる。
type ModelMetrics struct {
	MAE      *float64 `json:"mae"`
	RMSE     *float64 `json:"rmse"`
	MAPE     *float64 `json:"mape"`
	Bias     *float64 `json:"bias"`
	MASE     *float64 `json:"mase"`
	RSquared *float64 `json:"r_squared"`
}

// ModelComparisonResult 1モデル分の比較結果
type ModelComparisonResult struct {
	ModelID           string              `json:"model_id"`
	ModelName         string              `json:"model_name"`
	ForecastData      []ForecastDataPoint `json:"forecast_data"`
	Metrics           ModelMetrics        `json:"metrics"`
	Weight            float64             `json:"weight"` // アンサンブル内の重み [0,1]
	ComputationTimeMs *float64            `json:"computation_time_ms"`
}

// ComparisonMetadata モデル比較のメタデータ
type ComparisonMetadata struct {
	ProductID       string `json:"product_id"`
	DataPoints      int    `json:"data_points"`
	ForecastHorizon int    `json:"forecast_horizon"`
	ModelsCompared  int    `json:"models_compared"`
	GeneratedAt     string `json:"generated_at"`
}

// ComparisonResponse represents the validated result of a model comparison.
type ComparisonResponse struct {
	Models    []ModelComparisonResult `json:"models"`
	BestModel string                  `json:"best_model"` // ranking[0] と一致すること
	Ranking   []string                `json:"ranking"`    // 全モデルIDの順列（良い順）
	Summary   string                  `json:"summary"`
	Metadata  ComparisonMetadata      `json:"metadata"`
}

// RevenueProjectionPoint 売上予測の1ポイント
type RevenueProjectionPoint struct {
	Date              string  `json:"date"`
	ProjectedQuantity float64 `json:"projected_quantity"`
	SellingPrice      float64 `json:"selling_price"`
	ProjectedRevenue  float64 `json:"projected_revenue"`
}

// ForecastSummary 予測サマリー（トレンド分析の主要数値と説明文）
type ForecastSummary struct {
	AvgHistorical  float64 `json:"avg_historical"`
	AvgForecast    float64 `json:"avg_forecast"`
	TrendDirection string  `json:"trend_direction"` // "increasing" / "decreasing"
	ChangePercent  float64 `json:"change_percent"`
	Narrative      string  `json:"narrative"` // Markdown形式の説明文
}

// BaselineForecastResponse represents the response of a baseline forecast.
type BaselineForecastResponse struct {
	ProductID         string                   `json:"product_id"`
	ForecastData      []ForecastDataPoint      `json:"forecast_data"`
	Summary           ForecastSummary          `json:"summary"`
	RevenueProjection []RevenueProjectionPoint `json:"revenue_projection,omitempty"`
	Confidence        *float64                 `json:"confidence,omitempty"`
	Scenario          string                   `json:"scenario"`
	GeneratedAt       string                   `json:"generated_at"`
}

// ModelInfo 選択可能な予測モデルの情報
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"` // "statistical" / "ml" / "ensemble"
}

// MetricQuality 指標値の品質バケット
type MetricQuality string

const (
	QualityGood    MetricQuality = "good"
	QualityMedium  MetricQuality = "medium"
	QualityPoor    MetricQuality = "poor"
	QualityUnknown MetricQuality = "unknown"
)
