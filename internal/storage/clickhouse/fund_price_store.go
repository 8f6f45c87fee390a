package clickhouse

import (
	"context"
	"fmt"
	"time"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/observability"
	"portfolio-sim-lab/internal/storage"
)

// FundPriceStore implements storage.FundPriceStore using ClickHouse.
type FundPriceStore struct {
	conn *Conn
}

// NewFundPriceStore creates a new FundPriceStore.
func NewFundPriceStore(conn *Conn) *FundPriceStore {
	return &FundPriceStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FundPriceStore = (*FundPriceStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (fund_id, timestamp_ms). MergeTree does not enforce uniqueness, so
// duplicates are rejected by explicit checks before the batch is sent.
func (s *FundPriceStore) InsertBulk(ctx context.Context, points []*domain.FundPricePoint) error {
	if len(points) == 0 {
		return nil
	}

	type key struct {
		fundID      string
		timestampMs int64
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.FundID == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.FundID, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, p := range points {
		exists, err := s.exists(ctx, p.FundID, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO fund_prices (
			fund_id, timestamp_ms, nav, dividend
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.FundID, uint64(p.TimestampMs), p.NAV, p.Dividend); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	start := time.Now()
	err = batch.Send()
	observability.RecordDBQuery("clickhouse", "insert_fund_prices", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByFundID retrieves all points for a fund, ordered by timestamp ASC.
func (s *FundPriceStore) GetByFundID(ctx context.Context, fundID string) ([]*domain.FundPricePoint, error) {
	query := `
		SELECT fund_id, timestamp_ms, nav, dividend
		FROM fund_prices
		WHERE fund_id = ?
		ORDER BY timestamp_ms ASC
	`

	start := time.Now()
	rows, err := s.conn.Query(ctx, query, fundID)
	observability.RecordDBQuery("clickhouse", "get_fund_prices", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query by fund id: %w", err)
	}
	defer rows.Close()

	return scanFundPrices(rows)
}

// GetByTimeRange retrieves points for a fund within [start, end] (inclusive).
func (s *FundPriceStore) GetByTimeRange(ctx context.Context, fundID string, start, end int64) ([]*domain.FundPricePoint, error) {
	query := `
		SELECT fund_id, timestamp_ms, nav, dividend
		FROM fund_prices
		WHERE fund_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	began := time.Now()
	rows, err := s.conn.Query(ctx, query, fundID, uint64(start), uint64(end))
	observability.RecordDBQuery("clickhouse", "get_fund_prices_range", time.Since(began).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanFundPrices(rows)
}

// exists checks if a point with the given key exists.
func (s *FundPriceStore) exists(ctx context.Context, fundID string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM fund_prices
		WHERE fund_id = ? AND timestamp_ms = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, fundID, uint64(timestampMs)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanFundPrices scans multiple rows.
func scanFundPrices(rows chRows) ([]*domain.FundPricePoint, error) {
	var points []*domain.FundPricePoint

	for rows.Next() {
		var p domain.FundPricePoint
		var timestampMs uint64

		if err := rows.Scan(&p.FundID, &timestampMs, &p.NAV, &p.Dividend); err != nil {
			return nil, fmt.Errorf("scan fund price row: %w", err)
		}
		p.TimestampMs = int64(timestampMs)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fund price rows: %w", err)
	}
	return points, nil
}
