package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/storage"
)

// FundPriceStore is an in-memory implementation of storage.FundPriceStore.
type FundPriceStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FundPricePoint // keyed by (fund_id, timestamp_ms)
}

// NewFundPriceStore creates a new in-memory fund price store.
func NewFundPriceStore() *FundPriceStore {
	return &FundPriceStore{
		data: make(map[string]*domain.FundPricePoint),
	}
}

// Compile-time interface check.
var _ storage.FundPriceStore = (*FundPriceStore)(nil)

// priceKey generates a unique key for a price point.
func priceKey(fundID string, timestampMs int64) string {
	return fmt.Sprintf("%s|%d", fundID, timestampMs)
}

// InsertBulk adds multiple points. Fails entire batch on duplicate.
func (s *FundPriceStore) InsertBulk(_ context.Context, points []*domain.FundPricePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: reject existing and intra-batch duplicates before writing.
	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.FundID == "" {
			return storage.ErrInvalidInput
		}
		key := priceKey(p.FundID, p.TimestampMs)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		cp := *p
		s.data[priceKey(p.FundID, p.TimestampMs)] = &cp
	}
	return nil
}

// GetByFundID retrieves all points for a fund, ordered by timestamp ASC.
func (s *FundPriceStore) GetByFundID(_ context.Context, fundID string) ([]*domain.FundPricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.FundPricePoint
	for _, p := range s.data {
		if p.FundID == fundID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimestampMs < out[j].TimestampMs })
	return out, nil
}

// GetByTimeRange retrieves points for a fund within [start, end] (inclusive).
func (s *FundPriceStore) GetByTimeRange(_ context.Context, fundID string, start, end int64) ([]*domain.FundPricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.FundPricePoint
	for _, p := range s.data {
		if p.FundID == fundID && p.TimestampMs >= start && p.TimestampMs <= end {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimestampMs < out[j].TimestampMs })
	return out, nil
}
