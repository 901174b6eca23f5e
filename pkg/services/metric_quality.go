package services

import (
	"math"

	"agripredict-api/pkg/models"
)

// metricThreshold 指標ごとの品質しきい値。
// lowerIsBetter の場合 good < medium < poor、逆の場合は good > medium。
type metricThreshold struct {
	good          float64
	medium        float64
	lowerIsBetter bool
	useAbs        bool
}

// 指標ごとの固定しきい値。どの表示層でも同じ分類になるようここで一元管理する。
var metricThresholds = map[string]metricThreshold{
	"mae":       {good: 50, medium: 150, lowerIsBetter: true},
	"rmse":      {good: 50, medium: 150, lowerIsBetter: true},
	"mape":      {good: 10, medium: 25, lowerIsBetter: true},
	"mase":      {good: 0.5, medium: 1, lowerIsBetter: true},
	"bias":      {good: 10, medium: 50, lowerIsBetter: true, useAbs: true},
	"r_squared": {good: 0.8, medium: 0.5, lowerIsBetter: false},
}

// ClassifyMetric は指標の生値を {good, medium, poor, unknown} に分類します。
// 値がnil、または未知の指標名の場合は unknown を返します。副作用はありません。
func ClassifyMetric(name string, value *float64) models.MetricQuality {
	if value == nil {
		return models.QualityUnknown
	}

	threshold, ok := metricThresholds[normalizeMetricName(name)]
	if !ok {
		return models.QualityUnknown
	}

	v := *value
	if threshold.useAbs {
		v = math.Abs(v)
	}

	if threshold.lowerIsBetter {
		switch {
		case v < threshold.good:
			return models.QualityGood
		case v < threshold.medium:
			return models.QualityMedium
		default:
			return models.QualityPoor
		}
	}

	switch {
	case v > threshold.good:
		return models.QualityGood
	case v > threshold.medium:
		return models.QualityMedium
	default:
		return models.QualityPoor
	}
}

// normalizeMetricName はcamelCase表記の指標名もsnake_caseに揃えます。
func normalizeMetricName(name string) string {
	if name == "rSquared" {
		return "r_squared"
	}
	return name
}
