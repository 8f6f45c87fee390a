package storage

import (
	"context"

	"portfolio-sim-lab/internal/domain"
)

// PortfolioSnapshotStore provides access to portfolio_snapshots storage.
type PortfolioSnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
	Insert(ctx context.Context, s *domain.PortfolioSnapshot) error

	// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, snapshotID string) (*domain.PortfolioSnapshot, error)

	// ListByOwner retrieves all snapshots for an owner, ordered by created_at ASC.
	ListByOwner(ctx context.Context, owner string) ([]*domain.PortfolioSnapshot, error)
}

// FundPriceStore provides access to fund_prices storage.
type FundPriceStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (fund_id, timestamp_ms).
	InsertBulk(ctx context.Context, points []*domain.FundPricePoint) error

	// GetByFundID retrieves all points for a fund, ordered by timestamp ASC.
	GetByFundID(ctx context.Context, fundID string) ([]*domain.FundPricePoint, error)

	// GetByTimeRange retrieves points for a fund within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, fundID string, start, end int64) ([]*domain.FundPricePoint, error)
}
