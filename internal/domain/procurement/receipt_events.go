package procurement

import (
	"time"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/shared"
)

// GoodsReceiptConfirmedEvent is raised when a receipt is confirmed and its
// quantities become stock movements
type GoodsReceiptConfirmedEvent struct {
	shared.BaseDomainEvent
	ReceiptID  uuid.UUID       `json:"receipt_id"`
	OrderID    *uuid.UUID      `json:"order_id,omitempty"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
	LocationID uuid.UUID       `json:"location_id"`
	Lines      []ConfirmedLine `json:"lines"`
	ReceivedAt *time.Time      `json:"received_at,omitempty"`
}

// NewGoodsReceiptConfirmedEvent creates a new GoodsReceiptConfirmedEvent
func NewGoodsReceiptConfirmedEvent(receipt *GoodsReceipt, lines []ConfirmedLine) *GoodsReceiptConfirmedEvent {
	return &GoodsReceiptConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptConfirmed, AggregateTypeGoodsReceipt, receipt.ID, receipt.PracticeID),
		ReceiptID:       receipt.ID,
		OrderID:         receipt.OrderID,
		SupplierID:      receipt.SupplierID,
		LocationID:      receipt.LocationID,
		Lines:           lines,
		ReceivedAt:      receipt.ReceivedAt,
	}
}

// EventType returns the event type name
func (e *GoodsReceiptConfirmedEvent) EventType() string {
	return EventTypeGoodsReceiptConfirmed
}
