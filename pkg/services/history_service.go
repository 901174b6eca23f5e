package services

import (
	"context"
	"fmt"

	"agripredict-api/pkg/models"
)

// 履歴ウィンドウの取得上限。ベースラインは直近30件、モデル比較は100件まで。
const (
	BaselineHistoryLimit   = 30
	ComparisonHistoryLimit = 100
)

// DemandStore は需要実績レコードの読み取りインターフェースです。
type DemandStore interface {
	GetDemandRecords(ctx context.Context, productID, userID string, limit int) ([]models.DemandRecord, error)
}

// HistoryService 需要実績の履歴ウィンドウを取得するサービス
type HistoryService struct {
	store DemandStore
}

// NewHistoryService 新しい履歴サービスを作成
func NewHistoryService(store DemandStore) *HistoryService {
	return &HistoryService{
		store: store,
	}
}

// FetchWindow は指定製品の履歴ウィンドウを日付降順で取得します。
// userIDが空でない場合はユーザースコープで絞り込みます。
func (hs *HistoryService) FetchWindow(ctx context.Context, productID, userID string, limit int) ([]models.DemandRecord, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id is required", models.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = BaselineHistoryLimit
	}

	records, err := hs.store.GetDemandRecords(ctx, productID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("履歴データの取得に失敗: %w", err)
	}

	return records, nil
}

// reverseChronological は日付降順のウィンドウを昇順に並べ替えたコピーを返します。
// 予測計算やワイヤ形式への変換は昇順を前提とします。
func reverseChronological(window []models.DemandRecord) []models.DemandRecord {
	ascending := make([]models.DemandRecord, len(window))
	for i, r := range window {
		ascending[len(window)-1-i] = r
	}
	return ascending
}
