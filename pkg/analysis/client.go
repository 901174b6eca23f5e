package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"agripredict-api/pkg/models"
)

// Client は外部分析サービス（ARIMA等のモデル適合を行うFastAPIサービス）への
// リクエストを管理します。モデル適合そのものはこのサービスでは行いません。
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient は新しい分析サービスクライアントを作成します。
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- ワイヤ形式の定義（snake_case、上游サービスの形のまま） ---

// DemandData 分析サービスへ送る履歴1件
type DemandData struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// CompareRequest /compare リクエストボディ
type CompareRequest struct {
	ProductID       string       `json:"product_id"`
	HistoricalData  []DemandData `json:"historical_data"`
	Days            int          `json:"days"`
	IncludeEnsemble bool         `json:"include_ensemble"`
}

// ForecastPoint モデルが生成した予測1点
type ForecastPoint struct {
	Date            string   `json:"date"`
	PredictedValue  float64  `json:"predicted_value"`
	ConfidenceLower *float64 `json:"confidence_lower"`
	ConfidenceUpper *float64 `json:"confidence_upper"`
	ModelUsed       string   `json:"model_used"`
}

// ModelMetrics モデルの精度指標（欠損はnull）
type ModelMetrics struct {
	MAE      *float64 `json:"mae"`
	RMSE     *float64 `json:"rmse"`
	MAPE     *float64 `json:"mape"`
	Bias     *float64 `json:"bias"`
	MASE     *float64 `json:"mase"`
	RSquared *float64 `json:"r_squared"`
}

// ModelResult 1モデル分の比較結果
type ModelResult struct {
	ModelID           string          `json:"model_id"`
	ModelName         string          `json:"model_name"`
	ForecastData      []ForecastPoint `json:"forecast_data"`
	Metrics           ModelMetrics    `json:"metrics"`
	Weight            float64         `json:"weight"`
	ComputationTimeMs *float64        `json:"computation_time_ms"`
}

// CompareMetadata 比較のメタデータ
type CompareMetadata struct {
	ProductID       string `json:"product_id"`
	DataPoints      int    `json:"data_points"`
	ForecastHorizon int    `json:"forecast_horizon"`
	ModelsCompared  int    `json:"models_compared"`
	GeneratedAt     string `json:"generated_at"`
}

// CompareResponse /compare レスポンスボディ
type CompareResponse struct {
	Models    []ModelResult   `json:"models"`
	BestModel string          `json:"best_model"`
	Ranking   []string        `json:"ranking"`
	Summary   string          `json:"summary"`
	Metadata  CompareMetadata `json:"metadata"`
}

// errorResponse 分析サービスのエラーボディ
type errorResponse struct {
	Detail string `json:"detail"`
}

// Compare は分析サービスの POST /compare を呼び出します。
// 到達失敗・非成功ステータスは ErrServiceUnavailable として返し、リトライはしません。
func (c *Client) Compare(ctx context.Context, req *CompareRequest) (*CompareResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("比較リクエストのエンコードに失敗: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/compare", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("比較リクエストの構築に失敗: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: レスポンスの読み取りに失敗: %v", models.ErrServiceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Detail != "" {
			return nil, fmt.Errorf("%w: status %d: %s", models.ErrServiceUnavailable, resp.StatusCode, errResp.Detail)
		}
		return nil, fmt.Errorf("%w: status %d", models.ErrServiceUnavailable, resp.StatusCode)
	}

	var compareResp CompareResponse
	if err := json.Unmarshal(respBody, &compareResp); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedUpstreamResponse, err)
	}

	return &compareResp, nil
}
