package models

import (
	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/inventory"
)

// StockItemModel is the persistence model for the StockItem aggregate root.
type StockItemModel struct {
	PracticeAggregateModel
	ItemID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_location,priority:2"`
	LocationID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_location,priority:3"`
	OnHand       int64     `gorm:"not null;default:0"`
	ReorderPoint int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem entity.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	return &inventory.StockItem{
		PracticeAggregateRoot: m.ToDomainPracticeAggregateRoot(),
		ItemID:                m.ItemID,
		LocationID:            m.LocationID,
		OnHand:                m.OnHand,
		ReorderPoint:          m.ReorderPoint,
	}
}

// FromDomain populates the persistence model from a domain StockItem entity.
func (m *StockItemModel) FromDomain(s *inventory.StockItem) {
	m.FromDomainPracticeAggregateRoot(s.PracticeAggregateRoot)
	m.ItemID = s.ItemID
	m.LocationID = s.LocationID
	m.OnHand = s.OnHand
	m.ReorderPoint = s.ReorderPoint
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem entity.
func StockItemModelFromDomain(s *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(s)
	return m
}
