package handlers

import (
	"errors"
	"net/http"

	"agripredict-api/pkg/models"

	"github.com/gin-gonic/gin"
)

// errorStatus はエラー種別をHTTPステータスコードへ写像します。
// バリデーション系は400、認証系は401、上流障害は502になります。
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidRequest),
		errors.Is(err, models.ErrInsufficientHistory),
		errors.Is(err, models.ErrInsufficientHistoryForComparison),
		errors.Is(err, models.ErrInvalidHistory):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrServiceUnavailable),
		errors.Is(err, models.ErrMalformedUpstreamResponse),
		errors.Is(err, models.ErrRankingInconsistency):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError エラーレスポンスを返す
func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// respondOK 成功レスポンスを返す
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
