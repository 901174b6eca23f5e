package models

import "errors"

// 予測エンジンのエラー種別。呼び出し側は errors.Is で判別する。
var (
	// ErrInvalidRequest リクエスト自体が不正（予測日数が範囲外、製品ID未指定など）
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInsufficientHistory ベースライン予測に必要な履歴が存在しない
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInsufficientHistoryForComparison モデル比較には7件以上の履歴が必要
	ErrInsufficientHistoryForComparison = errors.New("insufficient history for comparison")

	// ErrInvalidHistory 履歴データが退化している（平均が0など）
	ErrInvalidHistory = errors.New("invalid history")

	// ErrUnauthorized 認証トークンが提示されていない
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken 認証トークンの検証に失敗した
	ErrInvalidToken = errors.New("invalid token")

	// ErrMalformedUpstreamResponse 分析サービスの応答に必須フィールドが欠けている
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")

	// ErrRankingInconsistency 分析サービスのランキングが整合していない
	ErrRankingInconsistency = errors.New("ranking inconsistency")

	// ErrServiceUnavailable 分析サービスへの到達・応答に失敗した
	ErrServiceUnavailable = errors.New("analysis service unavailable")
)
