package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/storage"
)

func testSnapshot(id, owner string, createdAt int64) *domain.PortfolioSnapshot {
	return &domain.PortfolioSnapshot{
		SnapshotID: id,
		Owner:      owner,
		CreatedAt:  createdAt,
		Holdings: []domain.Holding{
			{Ticker: "slim_sp500", AssetClass: domain.AssetForeignStock, Value: 600_000},
			{Ticker: "slim_domestic_bond", AssetClass: domain.AssetDomesticBond, Value: 400_000},
		},
	}
}

func TestSnapshotStore_InsertAndGet(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	snap := testSnapshot("snap-1", "alice", 1000)
	require.NoError(t, store.Insert(ctx, snap))

	got, err := store.GetByID(ctx, "snap-1")
	require.NoError(t, err)
	require.Equal(t, snap.Owner, got.Owner)
	require.Len(t, got.Holdings, 2)
	require.Equal(t, 600_000.0, got.Holdings[0].Value)
}

func TestSnapshotStore_DuplicateInsert(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testSnapshot("snap-1", "alice", 1000)))
	err := store.Insert(ctx, testSnapshot("snap-1", "bob", 2000))
	require.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestSnapshotStore_GetMissing(t *testing.T) {
	store := NewSnapshotStore()
	_, err := store.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSnapshotStore_InvalidInput(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	require.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Insert(ctx, &domain.PortfolioSnapshot{}), storage.ErrInvalidInput)
}

func TestSnapshotStore_ListByOwnerOrdered(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testSnapshot("snap-b", "alice", 2000)))
	require.NoError(t, store.Insert(ctx, testSnapshot("snap-a", "alice", 1000)))
	require.NoError(t, store.Insert(ctx, testSnapshot("snap-c", "bob", 500)))

	snaps, err := store.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	require.Equal(t, "snap-a", snaps[0].SnapshotID)
	require.Equal(t, "snap-b", snaps[1].SnapshotID)
}

func TestSnapshotStore_ReturnsCopies(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testSnapshot("snap-1", "alice", 1000)))

	got, err := store.GetByID(ctx, "snap-1")
	require.NoError(t, err)
	got.Holdings[0].Value = 0

	again, err := store.GetByID(ctx, "snap-1")
	require.NoError(t, err)
	require.Equal(t, 600_000.0, again.Holdings[0].Value)
}
