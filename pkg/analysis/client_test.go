package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agripredict-api/pkg/models"
)

func testRequest() *CompareRequest {
	return &CompareRequest{
		ProductID: "P001",
		HistoricalData: []DemandData{
			{Date: "2026-08-30", Quantity: 100, Price: 8.0},
			{Date: "2026-08-31", Quantity: 110, Price: 8.1},
		},
		Days:            30,
		IncludeEnsemble: true,
	}
}

func TestCompareSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// リクエストの形を検証
		if r.URL.Path != "/compare" {
			t.Errorf("path = %s, expected /compare", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, expected POST", r.Method)
		}

		var req CompareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.ProductID != "P001" || len(req.HistoricalData) != 2 || !req.IncludeEnsemble {
			t.Errorf("unexpected request payload: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"models": [{
				"model_id": "arima",
				"model_name": "ARIMA",
				"forecast_data": [{"date": "2026-09-01", "predicted_value": 8.123456}],
				"metrics": {"mae": 44.7, "rmse": null, "mape": null, "bias": null, "mase": null, "r_squared": 0.82},
				"weight": 1.0,
				"computation_time_ms": 12.5
			}],
			"best_model": "arima",
			"ranking": ["arima"],
			"summary": "## Model Comparison Results",
			"metadata": {"product_id": "P001", "data_points": 2, "forecast_horizon": 30, "models_compared": 1, "generated_at": "2026-08-31T12:00:00Z"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	resp, err := client.Compare(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}

	if len(resp.Models) != 1 {
		t.Fatalf("got %d models, expected 1", len(resp.Models))
	}

	model := resp.Models[0]
	// 数値精度はそのまま保持される（丸めない）
	if model.ForecastData[0].PredictedValue != 8.123456 {
		t.Errorf("predicted value = %f, expected 8.123456", model.ForecastData[0].PredictedValue)
	}
	if model.Metrics.RMSE != nil {
		t.Errorf("null metric should decode to nil, got %f", *model.Metrics.RMSE)
	}
	if model.Metrics.MAE == nil || *model.Metrics.MAE != 44.7 {
		t.Errorf("mae not preserved: %+v", model.Metrics.MAE)
	}
}

func TestCompareNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "Model comparison failed: boom"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Compare(context.Background(), testRequest())
	if !errors.Is(err, models.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestCompareConnectionFailure(t *testing.T) {
	// 既に閉じたサーバーへの接続は失敗する
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Compare(context.Background(), testRequest())
	if !errors.Is(err, models.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestCompareUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models": "not an array"`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Compare(context.Background(), testRequest())
	if !errors.Is(err, models.ErrMalformedUpstreamResponse) {
		t.Errorf("expected ErrMalformedUpstreamResponse, got %v", err)
	}
}
