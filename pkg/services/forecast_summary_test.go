package services

import (
	"errors"
	"math"
	"strings"
	"testing"

	"agripredict-api/pkg/models"
)

func TestSummarizeIncreasingTrend(t *testing.T) {
	window := makeWindow(10, 8.0, 0) // 全レコード8.0
	forecast := []models.ForecastDataPoint{
		{Date: "2026-09-01", PredictedValue: 10.0},
		{Date: "2026-09-02", PredictedValue: 10.0},
	}

	summary, err := Summarize(window, forecast, ScenarioRealistic)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if summary.TrendDirection != "increasing" {
		t.Errorf("TrendDirection = %s, expected increasing", summary.TrendDirection)
	}
	if summary.AvgHistorical != 8.0 {
		t.Errorf("AvgHistorical = %f, expected 8.0", summary.AvgHistorical)
	}
	if summary.AvgForecast != 10.0 {
		t.Errorf("AvgForecast = %f, expected 10.0", summary.AvgForecast)
	}
	if math.Abs(summary.ChangePercent-25.0) > 1e-9 {
		t.Errorf("ChangePercent = %f, expected 25.0", summary.ChangePercent)
	}
}

func TestSummarizeDecreasingTrend(t *testing.T) {
	window := makeWindow(10, 10.0, 0)
	forecast := []models.ForecastDataPoint{
		{Date: "2026-09-01", PredictedValue: 8.0},
	}

	summary, err := Summarize(window, forecast, ScenarioRealistic)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if summary.TrendDirection != "decreasing" {
		t.Errorf("TrendDirection = %s, expected decreasing", summary.TrendDirection)
	}
	if math.Abs(summary.ChangePercent-20.0) > 1e-9 {
		t.Errorf("ChangePercent = %f, expected 20.0", summary.ChangePercent)
	}
}

func TestSummarizeNarrativeContainsKeyNumbers(t *testing.T) {
	window := makeWindow(10, 8.0, 0)
	forecast := []models.ForecastDataPoint{
		{Date: "2026-09-01", PredictedValue: 10.0},
		{Date: "2026-09-02", PredictedValue: 10.0},
		{Date: "2026-09-03", PredictedValue: 10.0},
	}

	summary, err := Summarize(window, forecast, ScenarioOptimistic)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	// 平均・変化率・ホライズン・推奨文がすべて本文に含まれること
	for _, fragment := range []string{
		"$8.00",
		"$10.00",
		"25.0%",
		"next 3 days",
		"optimistic scenario",
		"Consider increasing inventory",
	} {
		if !strings.Contains(summary.Narrative, fragment) {
			t.Errorf("narrative does not contain %q:\n%s", fragment, summary.Narrative)
		}
	}
}

func TestSummarizeZeroHistoricalAverageFails(t *testing.T) {
	window := makeWindow(5, 0, 0)
	forecast := []models.ForecastDataPoint{{Date: "2026-09-01", PredictedValue: 1.0}}

	_, err := Summarize(window, forecast, ScenarioRealistic)
	if !errors.Is(err, models.ErrInvalidHistory) {
		t.Errorf("expected ErrInvalidHistory, got %v", err)
	}
}

func TestSummarizeEmptyInputsFail(t *testing.T) {
	forecast := []models.ForecastDataPoint{{Date: "2026-09-01", PredictedValue: 1.0}}

	if _, err := Summarize(nil, forecast, ScenarioRealistic); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Errorf("empty window: expected ErrInsufficientHistory, got %v", err)
	}
	if _, err := Summarize(makeWindow(5, 8.0, 0), nil, ScenarioRealistic); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Errorf("empty forecast: expected ErrInsufficientHistory, got %v", err)
	}
}

func TestCalculateOverallConfidence(t *testing.T) {
	lower := 9.0
	upper := 11.0
	forecast := []models.ForecastDataPoint{
		{Date: "2026-09-01", PredictedValue: 10.0, ConfidenceLower: &lower, ConfidenceUpper: &upper},
	}

	confidence := CalculateOverallConfidence(forecast)
	if confidence == nil {
		t.Fatal("CalculateOverallConfidence returned nil")
	}

	// 区間幅 2/10 = 0.2 → 100 - 0.2*50 = 90
	if math.Abs(*confidence-90.0) > 1e-9 {
		t.Errorf("confidence = %f, expected 90.0", *confidence)
	}
}

func TestCalculateOverallConfidenceWithoutBounds(t *testing.T) {
	forecast := []models.ForecastDataPoint{
		{Date: "2026-09-01", PredictedValue: 10.0},
	}

	if confidence := CalculateOverallConfidence(forecast); confidence != nil {
		t.Errorf("expected nil confidence, got %f", *confidence)
	}
}
