package handlers

import (
	"strconv"

	"agripredict-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// MonitoringHandler モニタリングハンドラー
type MonitoringHandler struct {
	monitoringService *services.MonitoringService
}

// NewMonitoringHandler 新しいモニタリングハンドラーを作成
func NewMonitoringHandler(monitoringService *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: monitoringService,
	}
}

// GetDashboardData はダッシュボード用の集計データを返します。
func (mh *MonitoringHandler) GetDashboardData(c *gin.Context) {
	periodHours := 24
	if periodStr := c.Query("period_hours"); periodStr != "" {
		if p, err := strconv.Atoi(periodStr); err == nil && p > 0 && p <= 168 {
			periodHours = p
		}
	}

	respondOK(c, mh.monitoringService.GetDashboardData(periodHours))
}
