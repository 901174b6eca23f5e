package handlers

import (
	"net/http"

	"agripredict-api/pkg/auth"
	"agripredict-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ComparisonHandler モデル比較ハンドラー
type ComparisonHandler struct {
	comparisonService *services.ComparisonService
	verifier          auth.TokenVerifier
}

// NewComparisonHandler 新しいモデル比較ハンドラーを作成
func NewComparisonHandler(comparisonService *services.ComparisonService, verifier auth.TokenVerifier) *ComparisonHandler {
	return &ComparisonHandler{
		comparisonService: comparisonService,
		verifier:          verifier,
	}
}

// CompareModelsRequest モデル比較リクエスト
type CompareModelsRequest struct {
	ProductID       string `json:"product_id" binding:"required"`
	Days            int    `json:"days"`
	IncludeEnsemble *bool  `json:"include_ensemble,omitempty"`
}

// authenticate はBearerトークンを検証し、ユーザーIDを返します。
// 履歴取得より前に必ず呼ばれます。
func (ch *ComparisonHandler) authenticate(c *gin.Context) (string, bool) {
	token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		respondError(c, err)
		return "", false
	}

	identity, err := ch.verifier.Verify(token)
	if err != nil {
		respondError(c, err)
		return "", false
	}

	return identity.UID, true
}

// bindCompareRequest はリクエストをバインドし、デフォルト値を補います。
func bindCompareRequest(c *gin.Context) (*CompareModelsRequest, bool) {
	var request CompareModelsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "リクエストの解析に失敗しました: " + err.Error(),
		})
		return nil, false
	}

	if request.Days == 0 {
		request.Days = 30
	}

	return &request, true
}

// CompareModels は外部分析サービスでのモデル比較を実行します。
func (ch *ComparisonHandler) CompareModels(c *gin.Context) {
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

	respondOK(c, result)
}
