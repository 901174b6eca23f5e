package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"agripredict-api/pkg/analysis"
	"agripredict-api/pkg/models"
)

// モデル比較の制約
const (
	MaxComparisonForecastDays = 90
	MinComparisonHistory      = 7
	weightSumTolerance        = 1e-6
)

// AnalysisAPI は外部分析サービスへの呼び出しインターフェースです。
type AnalysisAPI interface {
	Compare(ctx context.Context, req *analysis.CompareRequest) (*analysis.CompareResponse, error)
}

// ComparisonService 複数予測モデルの比較を外部分析サービスに委譲し、
// 応答の正規化と整合性検証を行うサービス。
type ComparisonService struct {
	history *HistoryService
	client  AnalysisAPI
}

// NewComparisonService 新しいモデル比較サービスを作成
func NewComparisonService(history *HistoryService, client AnalysisAPI) *ComparisonService {
	return &ComparisonService{
		history: history,
		client:  client,
	}
}

// CompareModels は履歴ウィンドウを分析サービスへ送り、検証済みの比較結果を返します。
// バリデーションエラーはネットワーク呼び出しの前に検出され、往復を無駄にしません。
func (cs *ComparisonService) CompareModels(ctx context.Context, productID, userID string, days int, includeEnsemble bool) (*models.ComparisonResponse, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id is required", models.ErrInvalidRequest)
	}
	if days < MinForecastDays || days > MaxComparisonForecastDays {
		return nil, fmt.Errorf("%w: days must be between %d and %d for comparison, got %d", models.ErrInvalidRequest, MinForecastDays, MaxComparisonForecastDays, days)
	}

	window, err := cs.history.FetchWindow(ctx, productID, userID, ComparisonHistoryLimit)
	if err != nil {
		return nil, err
	}
	if len(window) < MinComparisonHistory {
		return nil, fmt.Errorf("%w: need at least %d records, got %d", models.ErrInsufficientHistoryForComparison, MinComparisonHistory, len(window))
	}

	req := buildCompareRequest(productID, window, days, includeEnsemble)

	log.Printf("[比較] 製品 %s のモデル比較を開始（履歴 %d件、予測 %d日）", productID, len(window), days)
	raw, err := cs.client.Compare(ctx, req)
	if err != nil {
		return nil, err
	}

	response, err := normalizeCompareResponse(raw)
	if err != nil {
		return nil, err
	}

	if err := validateRanking(response.Models, response.Ranking, response.BestModel); err != nil {
		return nil, err
	}
	if err := validateWeights(response.Models, includeEnsemble); err != nil {
		return nil, err
	}

	log.Printf("[比較] 製品 %s のモデル比較が完了（ベストモデル: %s）", productID, response.BestModel)
	return response, nil
}

// buildCompareRequest は履歴ウィンドウ（日付降順）を昇順のワイヤ形式に変換します。
func buildCompareRequest(productID string, window []models.DemandRecord, days int, includeEnsemble bool) *analysis.CompareRequest {
	ascending := reverseChronological(window)
	historical := make([]analysis.DemandData, len(ascending))
	for i, r := range ascending {
		historical[i] = analysis.DemandData{
			Date:     r.Date.Format("2006-01-02"),
			Quantity: r.Quantity,
			Price:    r.Price,
		}
	}

	return &analysis.CompareRequest{
		ProductID:       productID,
		HistoricalData:  historical,
		Days:            days,
		IncludeEnsemble: includeEnsemble,
	}
}

// normalizeCompareResponse は分析サービスのsnake_case応答をドメイン形式へ写像します。
// 数値はそのまま保持し、丸めは行いません。欠損した任意指標はnilのままにします。
func normalizeCompareResponse(raw *analysis.CompareResponse) (*models.ComparisonResponse, error) {
	normalized := make([]models.ModelComparisonResult, 0, len(raw.Models))
	for i, m := range raw.Models {
		if m.ModelID == "" {
			return nil, fmt.Errorf("%w: model entry %d has no model_id", models.ErrMalformedUpstreamResponse, i)
		}
		if m.ForecastData == nil {
			return nil, fmt.Errorf("%w: model %s has no forecast_data", models.ErrMalformedUpstreamResponse, m.ModelID)
		}

		points := make([]models.ForecastDataPoint, len(m.ForecastData))
		for j, p := range m.ForecastData {
			points[j] = models.ForecastDataPoint{
				Date:            p.Date,
				PredictedValue:  p.PredictedValue,
				ConfidenceLower: p.ConfidenceLower,
				ConfidenceUpper: p.ConfidenceUpper,
				ModelUsed:       p.ModelUsed,
			}
		}

		normalized = append(normalized, models.ModelComparisonResult{
			ModelID:      m.ModelID,
			ModelName:    m.ModelName,
			ForecastData: points,
			Metrics: models.ModelMetrics{
				MAE:      m.Metrics.MAE,
				RMSE:     m.Metrics.RMSE,
				MAPE:     m.Metrics.MAPE,
				Bias:     m.Metrics.Bias,
				MASE:     m.Metrics.MASE,
				RSquared: m.Metrics.RSquared,
			},
			Weight:            m.Weight,
			ComputationTimeMs: m.ComputationTimeMs,
		})
	}

	return &models.ComparisonResponse{
		Models:    normalized,
		BestModel: raw.BestModel,
		Ranking:   raw.Ranking,
		Summary:   raw.Summary,
		Metadata: models.ComparisonMetadata{
			ProductID:       raw.Metadata.ProductID,
			DataPoints:      raw.Metadata.DataPoints,
			ForecastHorizon: raw.Metadata.ForecastHorizon,
			ModelsCompared:  raw.Metadata.ModelsCompared,
			GeneratedAt:     raw.Metadata.GeneratedAt,
		},
	}, nil
}

// validateRanking は分析サービスが返したランキングの整合性を検証します。
// ランキングの再計算・並べ替えはしません。順序の真実は比較可能な適合統計を持つ
// 分析サービス側にあり、ここでは契約違反の検出のみを行います。
func validateRanking(results []models.ModelComparisonResult, ranking []string, bestModel string) error {
	if len(ranking) != len(results) {
		return fmt.Errorf("%w: ranking has %d entries for %d models", models.ErrRankingInconsistency, len(ranking), len(results))
	}

	ids := make(map[string]bool, len(results))
	for _, r := range results {
		ids[r.ModelID] = true
	}

	seen := make(map[string]bool, len(ranking))
	for _, id := range ranking {
		if !ids[id] {
			return fmt.Errorf("%w: ranked model %q is not in the result set", models.ErrRankingInconsistency, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: model %q appears twice in ranking", models.ErrRankingInconsistency, id)
		}
		seen[id] = true
	}

	if len(ranking) == 0 || bestModel != ranking[0] {
		return fmt.Errorf("%w: best_model %q does not match ranking head", models.ErrRankingInconsistency, bestModel)
	}

	return nil
}

// validateWeights はアンサンブル重みの不変条件を検証します。
// 各重みは[0,1]に収まり、アンサンブルを含む比較では合計が1になること。
func validateWeights(results []models.ModelComparisonResult, includeEnsemble bool) error {
	var sum float64
	hasEnsemble := false
	for _, r := range results {
		if r.Weight < 0 || r.Weight > 1 {
			return fmt.Errorf("%w: model %s has weight %f outside [0,1]", models.ErrMalformedUpstreamResponse, r.ModelID, r.Weight)
		}
		if r.ModelID == "ensemble" {
			hasEnsemble = true
		}
		sum += r.Weight
	}

	if includeEnsemble && hasEnsemble && math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: ensemble weights sum to %f, expected 1.0", models.ErrMalformedUpstreamResponse, sum)
	}

	return nil
}

// AvailableModels は選択可能な予測モデルの一覧を返します。
func AvailableModels() []models.ModelInfo {
	return []models.ModelInfo{
		{ID: "ensemble", Name: "Ensemble (Recommended)", Description: "Combines multiple models for best accuracy", Type: "ensemble"},
		{ID: "sma", Name: "Simple Moving Average", Description: "Basic trend analysis", Type: "statistical"},
		{ID: "wma", Name: "Weighted Moving Average", Description: "Recent data weighted more", Type: "statistical"},
		{ID: "es", Name: "Exponential Smoothing", Description: "Seasonal trend analysis", Type: "statistical"},
		{ID: "arima", Name: "ARIMA", Description: "Statistical time series model", Type: "statistical"},
		{ID: "catboost", Name: "CatBoost", Description: "Machine learning model", Type: "ml"},
	}
}
