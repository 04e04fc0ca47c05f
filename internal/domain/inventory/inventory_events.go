package inventory

import (
	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockItem = "StockItem"

// Event type constants
const (
	EventTypeStockIncreased         = "StockIncreased"
	EventTypeStockBelowReorderPoint = "StockBelowReorderPoint"
)

// StockIncreasedEvent is raised when on-hand stock is increased
type StockIncreasedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID `json:"stock_item_id"`
	ItemID      uuid.UUID `json:"item_id"`
	LocationID  uuid.UUID `json:"location_id"`
	Quantity    int64     `json:"quantity"`
	OnHand      int64     `json:"on_hand"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(item *StockItem, quantity int64) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, AggregateTypeStockItem, item.ID, item.PracticeID),
		StockItemID:     item.ID,
		ItemID:          item.ItemID,
		LocationID:      item.LocationID,
		Quantity:        quantity,
		OnHand:          item.OnHand,
	}
}

// EventType returns the event type name
func (e *StockIncreasedEvent) EventType() string {
	return EventTypeStockIncreased
}

// StockBelowReorderPointEvent is raised when the stock level is at or below
// the reorder threshold after a stock movement
type StockBelowReorderPointEvent struct {
	shared.BaseDomainEvent
	StockItemID  uuid.UUID `json:"stock_item_id"`
	ItemID       uuid.UUID `json:"item_id"`
	LocationID   uuid.UUID `json:"location_id"`
	OnHand       int64     `json:"on_hand"`
	ReorderPoint int64     `json:"reorder_point"`
}

// NewStockBelowReorderPointEvent creates a new StockBelowReorderPointEvent
func NewStockBelowReorderPointEvent(item *StockItem) *StockBelowReorderPointEvent {
	return &StockBelowReorderPointEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorderPoint, AggregateTypeStockItem, item.ID, item.PracticeID),
		StockItemID:     item.ID,
		ItemID:          item.ItemID,
		LocationID:      item.LocationID,
		OnHand:          item.OnHand,
		ReorderPoint:    item.ReorderPoint,
	}
}

// EventType returns the event type name
func (e *StockBelowReorderPointEvent) EventType() string {
	return EventTypeStockBelowReorderPoint
}
