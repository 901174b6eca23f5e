package storage

import (
	"context"
	"database/sql"
	"fmt"

	"agripredict-api/pkg/models"

	_ "github.com/lib/pq"
)

// PostgresStore は需要実績レコードの永続化ストアへの読み取りアダプターです。
// ストレージエンジン自体はこのサービスの管理外で、クエリのみを担当します。
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore はPostgreSQLへ接続して新しいストアを作成します。
// DSNは "host=... port=... user=... password=... dbname=... sslmode=..." 形式。
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close はデータベース接続を閉じます。
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// GetDemandRecords は指定製品の需要実績を日付降順で最大limit件取得します。
// userIDが空でない場合はユーザースコープで絞り込みます。
func (ps *PostgresStore) GetDemandRecords(ctx context.Context, productID, userID string, limit int) ([]models.DemandRecord, error) {
	query := `SELECT date, product_id, quantity, price FROM demand_records WHERE product_id = $1 ORDER BY date DESC LIMIT $2`
	args := []interface{}{productID, limit}
	if userID != "" {
		query = `SELECT date, product_id, quantity, price FROM demand_records WHERE product_id = $1 AND user_id = $2 ORDER BY date DESC LIMIT $3`
		args = []interface{}{productID, userID, limit}
	}

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query demand records: %w", err)
	}
	defer rows.Close()

	var records []models.DemandRecord
	for rows.Next() {
		var r models.DemandRecord
		if err := rows.Scan(
			&r.Date,
			&r.ProductID,
			&r.Quantity,
			&r.Price,
		); err != nil {
			return nil, fmt.Errorf("failed to scan demand record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}
