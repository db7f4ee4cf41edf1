package repo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SummitSummer/Botishe/internal/database"
	"github.com/SummitSummer/Botishe/internal/domain"
)

func tempSnapshot(t *testing.T) (database.Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	return database.New(path), path
}

func pendingOrder(localID string, chatID int64, createdAt time.Time) *domain.Order {
	return &domain.Order{
		LocalID:   localID,
		ChatID:    chatID,
		Amount:    169,
		Currency:  "RUB",
		Status:    domain.OrderPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestAliasResolvesToSameRecord(t *testing.T) {
	snap, _ := tempSnapshot(t)
	orders := NewOrderRepo(snap)

	orders.Put("L1", pendingOrder("L1", 42, time.Now()))
	orders.PutAlias("R1", "L1")

	byLocal, ok := orders.Get("L1")
	require.True(t, ok)
	byRemote, ok := orders.Get("R1")
	require.True(t, ok)

	assert.Equal(t, byLocal.LocalID, byRemote.LocalID)
	assert.Equal(t, byLocal.ChatID, byRemote.ChatID)
	assert.Equal(t, byLocal.Status, byRemote.Status)
}

func TestGetReturnsCopy(t *testing.T) {
	snap, _ := tempSnapshot(t)
	orders := NewOrderRepo(snap)

	orders.Put("L1", pendingOrder("L1", 42, time.Now()))

	first, _ := orders.Get("L1")
	first.Status = domain.OrderPaid

	second, _ := orders.Get("L1")
	assert.Equal(t, domain.OrderPending, second.Status, "mutating a returned order must not touch the store")
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap, path := tempSnapshot(t)
	orders := NewOrderRepo(snap)

	orders.Put("L1", pendingOrder("L1", 42, time.Now()))
	orders.PutAlias("R1", "L1")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"payments"`)

	// A fresh store over the same file sees the record under both keys.
	reloaded := NewOrderRepo(database.New(path))

	byLocal, ok := reloaded.Get("L1")
	require.True(t, ok)
	assert.Equal(t, int64(42), byLocal.ChatID)

	byRemote, ok := reloaded.Get("R1")
	require.True(t, ok)
	assert.Equal(t, "L1", byRemote.LocalID)
}

func TestMissingSnapshotStartsEmpty(t *testing.T) {
	snap, _ := tempSnapshot(t)
	orders := NewOrderRepo(snap)

	all := orders.Scan(func(*domain.Order) bool { return true })
	assert.Empty(t, all)
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	orders := NewOrderRepo(database.New(path))

	all := orders.Scan(func(*domain.Order) bool { return true })
	assert.Empty(t, all)
}

func TestSnapshotWriteFailureKeepsMemoryState(t *testing.T) {
	// Snapshot path inside a directory that does not exist: every write
	// fails, the in-memory store must keep working.
	path := filepath.Join(t.TempDir(), "missing", "data.json")
	orders := NewOrderRepo(database.New(path))

	orders.Put("L1", pendingOrder("L1", 42, time.Now()))

	stored, ok := orders.Get("L1")
	require.True(t, ok)
	assert.Equal(t, int64(42), stored.ChatID)
}

func TestScanOldestFirst(t *testing.T) {
	snap, _ := tempSnapshot(t)
	orders := NewOrderRepo(snap)

	base := time.Now()
	orders.Put("L1", pendingOrder("L1", 1, base))
	orders.Put("L2", pendingOrder("L2", 2, base.Add(time.Second)))
	orders.Put("L3", pendingOrder("L3", 3, base.Add(2*time.Second)))

	pending := orders.Scan(func(o *domain.Order) bool {
		return o.Status == domain.OrderPending
	})
	require.Len(t, pending, 3)
	assert.Equal(t, "L1", pending[0].LocalID)
	assert.Equal(t, "L3", pending[2].LocalID)
}

func TestScanPredicateFilters(t *testing.T) {
	snap, _ := tempSnapshot(t)
	orders := NewOrderRepo(snap)

	paid := pendingOrder("L1", 1, time.Now())
	paid.Status = domain.OrderPaid
	orders.Put("L1", paid)
	orders.Put("L2", pendingOrder("L2", 2, time.Now()))

	pending := orders.Scan(func(o *domain.Order) bool {
		return o.Status == domain.OrderPending
	})
	require.Len(t, pending, 1)
	assert.Equal(t, "L2", pending[0].LocalID)
}
