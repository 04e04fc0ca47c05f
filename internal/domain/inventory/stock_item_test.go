package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStockItem(t *testing.T) *StockItem {
	item, err := NewStockItem(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return item
}

func TestNewStockItem(t *testing.T) {
	item := createTestStockItem(t)

	assert.Equal(t, int64(0), item.OnHand)
	assert.Equal(t, int64(0), item.ReorderPoint)
}

func TestNewStockItem_Validation(t *testing.T) {
	_, err := NewStockItem(uuid.New(), uuid.Nil, uuid.New())
	assert.Error(t, err)

	_, err = NewStockItem(uuid.New(), uuid.New(), uuid.Nil)
	assert.Error(t, err)
}

func TestStockItem_IncreaseStock(t *testing.T) {
	item := createTestStockItem(t)

	require.NoError(t, item.IncreaseStock(10))
	assert.Equal(t, int64(10), item.OnHand)

	require.NoError(t, item.IncreaseStock(4))
	assert.Equal(t, int64(14), item.OnHand)
}

func TestStockItem_IncreaseStock_RejectsNonPositive(t *testing.T) {
	item := createTestStockItem(t)

	assert.Error(t, item.IncreaseStock(0))
	assert.Error(t, item.IncreaseStock(-5))
	assert.Equal(t, int64(0), item.OnHand)
}

func TestStockItem_IncreaseStock_EmitsEvents(t *testing.T) {
	item := createTestStockItem(t)

	require.NoError(t, item.IncreaseStock(10))
	events := item.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStockIncreased, events[0].EventType())
}

func TestStockItem_IncreaseStock_LowStockAlert(t *testing.T) {
	item := createTestStockItem(t)
	require.NoError(t, item.SetReorderPoint(20))

	// Still at or below the threshold after the increment
	require.NoError(t, item.IncreaseStock(15))
	events := item.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeStockBelowReorderPoint, events[1].EventType())

	// Crossing the threshold silences the alert
	item.ClearDomainEvents()
	require.NoError(t, item.IncreaseStock(30))
	events = item.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStockIncreased, events[0].EventType())
}

func TestStockItem_SetReorderPoint(t *testing.T) {
	item := createTestStockItem(t)

	require.NoError(t, item.SetReorderPoint(25))
	assert.Equal(t, int64(25), item.ReorderPoint)

	assert.Error(t, item.SetReorderPoint(-1))
	assert.Equal(t, int64(25), item.ReorderPoint)
}

func TestStockItem_IsAtOrBelowReorderPoint(t *testing.T) {
	tests := []struct {
		name     string
		onHand   int64
		reorder  int64
		expected bool
	}{
		{"zero threshold disables alerting", 0, 0, false},
		{"below threshold", 5, 10, true},
		{"at threshold", 10, 10, true},
		{"above threshold", 11, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := createTestStockItem(t)
			item.OnHand = tt.onHand
			item.ReorderPoint = tt.reorder
			assert.Equal(t, tt.expected, item.IsAtOrBelowReorderPoint())
		})
	}
}
