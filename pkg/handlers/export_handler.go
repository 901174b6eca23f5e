package handlers

import (
	"fmt"
	"log"
	"net/http"

	"agripredict-api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportComparison はモデル比較を実行し、結果をExcelレポートとして返します。
// 比較と同じ認証・バリデーションを経由します。
func (ch *ComparisonHandler) ExportComparison(c *gin.Context) {
	uid, ok := ch.authenticate(c)
	if !ok {
		return
	}

	request, ok := bindCompareRequest(c)
	if !ok {
		return
	}

	includeEnsemble := true
	if request.IncludeEnsemble != nil {
		includeEnsemble = *request.IncludeEnsemble
	}

	result, err := ch.comparisonService.CompareModels(c.Request.Context(), request.ProductID, uid, request.Days, includeEnsemble)
	if err != nil {
		respondError(c, err)
		return
	}

	f, err := buildComparisonWorkbook(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "レポートの生成に失敗しました: " + err.Error(),
		})
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("comparison_%s.xlsx", result.Metadata.ProductID)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("レポートの書き出しに失敗: %v", err)
	}
}

// buildComparisonWorkbook は比較結果から2シート構成のワークブックを組み立てます。
// "Models" はランキング順の指標一覧、"Forecasts" はモデル別の予測系列です。
func buildComparisonWorkbook(result *models.ComparisonResponse) (*excelize.File, error) {
	f := excelize.NewFile()

	const modelSheet = "Models"
	if err := f.SetSheetName("Sheet1", modelSheet); err != nil {
		return nil, err
	}

	headers := []string{"Rank", "Model ID", "Model Name", "MAE", "RMSE", "MAPE (%)", "Bias", "MASE", "R²", "Weight", "Computation (ms)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(modelSheet, cell, h)
	}

	byID := make(map[string]models.ModelComparisonResult, len(result.Models))
	for _, m := range result.Models {
		byID[m.ModelID] = m
	}

	for rank, modelID := range result.Ranking {
		m := byID[modelID]
		row := rank + 2
		values := []interface{}{
			rank + 1,
			m.ModelID,
			m.ModelName,
			metricCell(m.Metrics.MAE),
			metricCell(m.Metrics.RMSE),
			metricCell(m.Metrics.MAPE),
			metricCell(m.Metrics.Bias),
			metricCell(m.Metrics.MASE),
			metricCell(m.Metrics.RSquared),
			m.Weight,
			metricCell(m.ComputationTimeMs),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(modelSheet, cell, v)
		}
	}

	// モデル別の予測系列シート。日付を1列目、以降モデルごとに1列。
	const forecastSheet = "Forecasts"
	if _, err := f.NewSheet(forecastSheet); err != nil {
		return nil, err
	}

	f.SetCellValue(forecastSheet, "A1", "Date")
	for col, modelID := range result.Ranking {
		cell, _ := excelize.CoordinatesToCellName(col+2, 1)
		f.SetCellValue(forecastSheet, cell, byID[modelID].ModelName)
	}

	for col, modelID := range result.Ranking {
		for rowIdx, point := range byID[modelID].ForecastData {
			if col == 0 {
				dateCell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
				f.SetCellValue(forecastSheet, dateCell, point.Date)
			}
			cell, _ := excelize.CoordinatesToCellName(col+2, rowIdx+2)
			f.SetCellValue(forecastSheet, cell, point.PredictedValue)
		}
	}

	return f, nil
}

// metricCell はnil指標を "N/A" 表示に変換します。
func metricCell(v *float64) interface{} {
	if v == nil {
		return "N/A"
	}
	return *v
}
