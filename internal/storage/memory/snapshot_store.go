// Package memory provides in-memory store implementations for tests and
// single-process runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.PortfolioSnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PortfolioSnapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.PortfolioSnapshot),
	}
}

// Compile-time interface check.
var _ storage.PortfolioSnapshotStore = (*SnapshotStore)(nil)

// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.PortfolioSnapshot) error {
	if snap == nil || snap.SnapshotID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[snap.SnapshotID] = copySnapshot(snap)
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(_ context.Context, snapshotID string) (*domain.PortfolioSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[snapshotID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copySnapshot(snap), nil
}

// ListByOwner retrieves all snapshots for an owner, ordered by created_at ASC.
func (s *SnapshotStore) ListByOwner(_ context.Context, owner string) ([]*domain.PortfolioSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.PortfolioSnapshot
	for _, snap := range s.data {
		if snap.Owner == owner {
			out = append(out, copySnapshot(snap))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].SnapshotID < out[j].SnapshotID
	})
	return out, nil
}

// copySnapshot deep-copies a snapshot so callers cannot mutate stored state.
func copySnapshot(snap *domain.PortfolioSnapshot) *domain.PortfolioSnapshot {
	out := *snap
	out.Holdings = make([]domain.Holding, len(snap.Holdings))
	copy(out.Holdings, snap.Holdings)
	return &out
}
