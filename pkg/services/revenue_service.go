package services

import (
	"agripredict-api/pkg/models"
)

// ProjectRevenue は予測系列と販売単価から売上予測を導出します。
// 単価が未指定（nilまたは0以下）の場合は売上予測自体を省略し、nilを返します。
// 0埋めはしません。純粋関数で、同じ入力に対して常に同じ結果を返します。
func ProjectRevenue(forecast []models.ForecastDataPoint, sellingPrice *float64) []models.RevenueProjectionPoint {
	if sellingPrice == nil || *sellingPrice <= 0 {
		return nil
	}

	price := round2(*sellingPrice)
	projections := make([]models.RevenueProjectionPoint, 0, len(forecast))
	for _, p := range forecast {
		quantity := round2(p.PredictedValue)
		projections = append(projections, models.RevenueProjectionPoint{
			Date:              p.Date,
			ProjectedQuantity: quantity,
			SellingPrice:      price,
			ProjectedRevenue:  round2(p.PredictedValue * *sellingPrice),
		})
	}

	return projections
}
