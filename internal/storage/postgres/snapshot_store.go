package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/observability"
	"portfolio-sim-lab/internal/storage"
)

// SnapshotStore implements storage.PortfolioSnapshotStore using PostgreSQL.
// Holdings are persisted as a JSONB document; snapshots are immutable once
// written.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PortfolioSnapshotStore = (*SnapshotStore)(nil)

// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.PortfolioSnapshot) error {
	if snap == nil || snap.SnapshotID == "" {
		return storage.ErrInvalidInput
	}

	holdings, err := json.Marshal(snap.Holdings)
	if err != nil {
		return fmt.Errorf("marshal holdings: %w", err)
	}

	query := `
		INSERT INTO portfolio_snapshots (
			snapshot_id, owner, created_at, holdings
		) VALUES ($1, $2, $3, $4)
	`

	start := time.Now()
	_, err = s.pool.Exec(ctx, query,
		snap.SnapshotID,
		snap.Owner,
		snap.CreatedAt,
		holdings,
	)
	observability.RecordDBQuery("postgres", "insert_snapshot", time.Since(start).Seconds(), err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(ctx context.Context, snapshotID string) (*domain.PortfolioSnapshot, error) {
	query := `
		SELECT snapshot_id, owner, created_at, holdings
		FROM portfolio_snapshots
		WHERE snapshot_id = $1
	`

	start := time.Now()
	row := s.pool.QueryRow(ctx, query, snapshotID)
	snap, err := scanSnapshot(row)
	observability.RecordDBQuery("postgres", "get_snapshot", time.Since(start).Seconds(), err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot by id: %w", err)
	}
	return snap, nil
}

// ListByOwner retrieves all snapshots for an owner, ordered by created_at ASC.
func (s *SnapshotStore) ListByOwner(ctx context.Context, owner string) ([]*domain.PortfolioSnapshot, error) {
	query := `
		SELECT snapshot_id, owner, created_at, holdings
		FROM portfolio_snapshots
		WHERE owner = $1
		ORDER BY created_at ASC, snapshot_id ASC
	`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, owner)
	observability.RecordDBQuery("postgres", "list_snapshots", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("list snapshots by owner: %w", err)
	}
	defer rows.Close()

	var snaps []*domain.PortfolioSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snaps, nil
}

// scanSnapshot scans a single row into a PortfolioSnapshot.
func scanSnapshot(row pgx.Row) (*domain.PortfolioSnapshot, error) {
	var snap domain.PortfolioSnapshot
	var holdings []byte

	err := row.Scan(
		&snap.SnapshotID,
		&snap.Owner,
		&snap.CreatedAt,
		&holdings,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(holdings, &snap.Holdings); err != nil {
		return nil, fmt.Errorf("unmarshal holdings: %w", err)
	}
	return &snap, nil
}
