package services

import (
	"fmt"
	"math"

	"agripredict-api/pkg/models"
)

// Summarize は履歴ウィンドウと予測系列からトレンドサマリーを生成します。
// 履歴平均が0の場合は変化率が定義できないため ErrInvalidHistory を返します。
func Summarize(window []models.DemandRecord, forecast []models.ForecastDataPoint, scenario string) (*models.ForecastSummary, error) {
	if len(window) == 0 || len(forecast) == 0 {
		return nil, fmt.Errorf("%w: history and forecast are both required for a summary", models.ErrInsufficientHistory)
	}

	var histSum float64
	for _, r := range window {
		histSum += r.Price
	}
	avgHistorical := histSum / float64(len(window))
	if avgHistorical == 0 {
		return nil, fmt.Errorf("%w: historical average is zero", models.ErrInvalidHistory)
	}

	var fcstSum float64
	for _, p := range forecast {
		fcstSum += p.PredictedValue
	}
	avgForecast := fcstSum / float64(len(forecast))

	direction := "decreasing"
	if avgForecast > avgHistorical {
		direction = "increasing"
	}
	changePercent := math.Abs(avgForecast-avgHistorical) / avgHistorical * 100

	if scenario == "" {
		scenario = ScenarioRealistic
	}

	return &models.ForecastSummary{
		AvgHistorical:  avgHistorical,
		AvgForecast:    avgForecast,
		TrendDirection: direction,
		ChangePercent:  changePercent,
		Narrative:      buildNarrative(avgHistorical, avgForecast, direction, changePercent, len(forecast), scenario),
	}, nil
}

// buildNarrative はMarkdown形式のサマリー文を組み立てます。
func buildNarrative(avgHistorical, avgForecast float64, direction string, changePercent float64, horizon int, scenario string) string {
	recommendation := "Monitor market conditions closely as prices may decline."
	if direction == "increasing" {
		recommendation = "Consider increasing inventory to meet potential higher demand."
	}

	return fmt.Sprintf(`## Overview
Based on historical demand data, the forecast shows a **%s** trend over the next %d days using %s scenario.

## Key Metrics
- **Average Historical Price**: $%.2f
- **Average Forecasted Price**: $%.2f
- **Expected Change**: %.1f%% %s
- **Forecast Horizon**: %d days

## Recommendations
%s`,
		direction, horizon, scenario,
		avgHistorical, avgForecast,
		changePercent, direction, horizon,
		recommendation,
	)
}

// CalculateOverallConfidence は信頼区間の幅から0-100の信頼度スコアを算出します。
// 区間を持つポイントが1つも無い場合はnilを返します。
func CalculateOverallConfidence(forecast []models.ForecastDataPoint) *float64 {
	var scores []float64
	for _, p := range forecast {
		if p.ConfidenceLower == nil || p.ConfidenceUpper == nil || p.PredictedValue == 0 {
			continue
		}
		intervalWidth := (*p.ConfidenceUpper - *p.ConfidenceLower) / p.PredictedValue
		score := 100 - intervalWidth*50
		if score < 0 {
			score = 0
		} else if score > 100 {
			score = 100
		}
		scores = append(scores, score)
	}
	if len(scores) == 0 {
		return nil
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	confidence := math.Round(sum/float64(len(scores))*10) / 10
	return &confidence
}
