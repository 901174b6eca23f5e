package services

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"agripredict-api/pkg/models"
)

// ベースライン予測の制約
const (
	MinForecastDays         = 1
	MaxBaselineForecastDays = 365
	trailingWindowSize      = 10 // トレンド計算に使う直近レコード数
)

// 予測シナリオ
const (
	ScenarioOptimistic  = "optimistic"
	ScenarioRealistic   = "realistic"
	ScenarioPessimistic = "pessimistic"
)

// NoiseSource は [0,1) の乱数列を供給します。
// テストではシード固定のソースを注入して再現性を確保します。
type NoiseSource interface {
	Next() float64
}

type randNoiseSource struct {
	r *rand.Rand
}

func (s *randNoiseSource) Next() float64 {
	return s.r.Float64()
}

// NewNoiseSource は指定シードの乱数ソースを作成します。
func NewNoiseSource(seed int64) NoiseSource {
	return &randNoiseSource{r: rand.New(rand.NewSource(seed))}
}

// NewDefaultNoiseSource は現在時刻をシードにした乱数ソースを作成します。
func NewDefaultNoiseSource() NoiseSource {
	return NewNoiseSource(time.Now().UnixNano())
}

// BaselineForecastService ローカルで完結するベースライン需要予測サービス。
// 外部分析サービスが利用できない場合でも常に動作します。
type BaselineForecastService struct {
	noise             NoiseSource
	optimisticFactor  float64
	pessimisticFactor float64
}

// NewBaselineForecastService 新しいベースライン予測サービスを作成
func NewBaselineForecastService(noise NoiseSource, optimisticFactor, pessimisticFactor float64) *BaselineForecastService {
	if noise == nil {
		noise = NewDefaultNoiseSource()
	}
	return &BaselineForecastService{
		noise:             noise,
		optimisticFactor:  optimisticFactor,
		pessimisticFactor: pessimisticFactor,
	}
}

// Forecast は履歴ウィンドウ（日付降順）から days 日分の予測を生成します。
//
// 直近 min(10, n) 件の平均価格と線形トレンドに [0.9, 1.1] の乗法ノイズを
// 掛けた外挿で、predicted_value はトレンド計算対象のスカラー（価格系列）です。
// 日付は最新実績の翌日から1日刻みで連続します。
func (bfs *BaselineForecastService) Forecast(window []models.DemandRecord, days int, scenario string) ([]models.ForecastDataPoint, error) {
	if days < MinForecastDays || days > MaxBaselineForecastDays {
		return nil, fmt.Errorf("%w: days must be between %d and %d, got %d", models.ErrInvalidRequest, MinForecastDays, MaxBaselineForecastDays, days)
	}
	if len(window) == 0 {
		return nil, fmt.Errorf("%w: no demand records for forecasting", models.ErrInsufficientHistory)
	}

	scenarioFactor, err := bfs.scenarioFactor(scenario)
	if err != nil {
		return nil, err
	}

	// 直近レコードから平均価格とトレンドを求める
	recentLen := trailingWindowSize
	if len(window) < recentLen {
		recentLen = len(window)
	}
	recent := window[:recentLen]

	var sum float64
	for _, r := range recent {
		sum += r.Price
	}
	avgPrice := sum / float64(recentLen)
	if avgPrice == 0 {
		return nil, fmt.Errorf("%w: average price of recent records is zero", models.ErrInvalidHistory)
	}

	// recent[0] が最新。1件のみの場合トレンドは0。
	trend := 0.0
	if recentLen > 1 {
		trend = (recent[0].Price - recent[recentLen-1].Price) / float64(recentLen)
	}

	latestDate := window[0].Date
	forecasts := make([]models.ForecastDataPoint, 0, days)
	for i := 1; i <= days; i++ {
		trendMultiplier := 1 + (trend/avgPrice)*(float64(i)/float64(days))
		noise := 0.9 + bfs.noise.Next()*0.2
		predicted := round2(avgPrice * trendMultiplier * scenarioFactor * noise)
		if predicted < 0 {
			predicted = 0
		}

		forecasts = append(forecasts, models.ForecastDataPoint{
			Date:           latestDate.AddDate(0, 0, i).Format("2006-01-02"),
			PredictedValue: predicted,
		})
	}

	return forecasts, nil
}

// scenarioFactor はシナリオ名を乗法係数に変換します。
func (bfs *BaselineForecastService) scenarioFactor(scenario string) (float64, error) {
	switch scenario {
	case "", ScenarioRealistic:
		return 1.0, nil
	case ScenarioOptimistic:
		return bfs.optimisticFactor, nil
	case ScenarioPessimistic:
		return bfs.pessimisticFactor, nil
	default:
		return 0, fmt.Errorf("%w: unknown scenario %q", models.ErrInvalidRequest, scenario)
	}
}

// round2 小数第2位へ丸める
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
