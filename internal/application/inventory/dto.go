package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/inventory"
)

// SetReorderPointRequest represents a request to set an item's low-stock threshold
type SetReorderPointRequest struct {
	Threshold int64 `json:"threshold" binding:"min=0"`
}

// StockItemListFilter represents filter options for stock item lists
type StockItemListFilter struct {
	ItemID     *uuid.UUID `form:"item_id"`
	LocationID *uuid.UUID `form:"location_id"`
	LowOnly    bool       `form:"low_only"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID           uuid.UUID `json:"id"`
	PracticeID   uuid.UUID `json:"practice_id"`
	ItemID       uuid.UUID `json:"item_id"`
	LocationID   uuid.UUID `json:"location_id"`
	OnHand       int64     `json:"on_hand"`
	ReorderPoint int64     `json:"reorder_point"`
	IsLow        bool      `json:"is_low"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToStockItemResponse converts a stock item aggregate to a response DTO
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:           item.ID,
		PracticeID:   item.PracticeID,
		ItemID:       item.ItemID,
		LocationID:   item.LocationID,
		OnHand:       item.OnHand,
		ReorderPoint: item.ReorderPoint,
		IsLow:        item.IsAtOrBelowReorderPoint(),
		Version:      item.GetVersion(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
