package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_ReserveNewKey(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	practiceID := uuid.New()
	receiptID := uuid.New()

	fresh, previous, err := store.Reserve(context.Background(), practiceID, "confirm-1", receiptID)

	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, uuid.Nil, previous)
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_ReserveDuplicateReturnsOriginalReceipt(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	practiceID := uuid.New()
	firstReceipt := uuid.New()

	_, _, err := store.Reserve(context.Background(), practiceID, "confirm-1", firstReceipt)
	require.NoError(t, err)

	fresh, previous, err := store.Reserve(context.Background(), practiceID, "confirm-1", uuid.New())

	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, firstReceipt, previous)
}

func TestInMemoryIdempotencyStore_KeysAreScopedToPractice(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	_, _, err := store.Reserve(context.Background(), uuid.New(), "confirm-1", uuid.New())
	require.NoError(t, err)

	fresh, _, err := store.Reserve(context.Background(), uuid.New(), "confirm-1", uuid.New())

	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestInMemoryIdempotencyStore_ReleaseAllowsRetry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	practiceID := uuid.New()

	_, _, err := store.Reserve(context.Background(), practiceID, "confirm-1", uuid.New())
	require.NoError(t, err)

	require.NoError(t, store.Release(context.Background(), practiceID, "confirm-1"))

	fresh, _, err := store.Reserve(context.Background(), practiceID, "confirm-1", uuid.New())
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestInMemoryIdempotencyStore_ExpiredEntriesCanBeReserved(t *testing.T) {
	store := NewInMemoryIdempotencyStore(10 * time.Millisecond)
	defer store.Close()

	practiceID := uuid.New()

	_, _, err := store.Reserve(context.Background(), practiceID, "confirm-1", uuid.New())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	fresh, _, err := store.Reserve(context.Background(), practiceID, "confirm-1", uuid.New())
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
