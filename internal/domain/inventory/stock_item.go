package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/shared"
)

// StockItem represents the on-hand stock of one item at one location.
// It is the aggregate root for stock level operations; the composite
// identifier is ItemID + LocationID within a practice.
//
// The only code path that increases on-hand stock is goods-receipt
// confirmation; this aggregate exposes no other mutation of the quantity.
type StockItem struct {
	shared.PracticeAggregateRoot
	ItemID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_location,priority:2"`
	LocationID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_location,priority:3"`
	OnHand       int64     `gorm:"not null;default:0"`
	ReorderPoint int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item for an item-location combination
func NewStockItem(practiceID, itemID, locationID uuid.UUID) (*StockItem, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	return &StockItem{
		PracticeAggregateRoot: shared.NewPracticeAggregateRoot(practiceID),
		ItemID:                itemID,
		LocationID:            locationID,
	}, nil
}

// IncreaseStock adds a received quantity to the on-hand stock.
// Emits a StockBelowReorderPoint event when the post-increment level is
// still at or below the reorder threshold.
func (s *StockItem) IncreaseStock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock increment must be positive")
	}

	s.OnHand += quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockIncreasedEvent(s, quantity))

	if s.IsAtOrBelowReorderPoint() {
		s.AddDomainEvent(NewStockBelowReorderPointEvent(s))
	}

	return nil
}

// SetReorderPoint sets the low-stock alert threshold
func (s *StockItem) SetReorderPoint(threshold int64) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", fmt.Sprintf("Reorder point cannot be negative, got %d", threshold))
	}

	s.ReorderPoint = threshold
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// IsAtOrBelowReorderPoint returns true when the stock level warrants a
// low-stock alert. A zero threshold disables alerting for the item.
func (s *StockItem) IsAtOrBelowReorderPoint() bool {
	return s.ReorderPoint > 0 && s.OnHand <= s.ReorderPoint
}
