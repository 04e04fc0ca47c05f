package procurement

import (
	"time"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOrder        = "Order"
	AggregateTypeGoodsReceipt = "GoodsReceipt"
)

// Event type constants
const (
	EventTypeOrderCreated          = "OrderCreated"
	EventTypeOrderSent             = "OrderSent"
	EventTypeOrderReceived         = "OrderReceived"
	EventTypeOrderCancelled        = "OrderCancelled"
	EventTypeGoodsReceiptConfirmed = "GoodsReceiptConfirmed"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	ReferenceCode string    `json:"reference_code"`
	SupplierID    uuid.UUID `json:"supplier_id"`
	SupplierName  string    `json:"supplier_name"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID, order.PracticeID),
		OrderID:         order.ID,
		ReferenceCode:   order.ReferenceCode,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderLineInfo represents line information for events
type OrderLineInfo struct {
	LineID   uuid.UUID `json:"line_id"`
	ItemID   uuid.UUID `json:"item_id"`
	ItemName string    `json:"item_name"`
	Unit     string    `json:"unit"`
	Quantity int64     `json:"quantity"`
}

// OrderSentEvent is raised when an order is dispatched to the supplier
type OrderSentEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	ReferenceCode string          `json:"reference_code"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	Lines         []OrderLineInfo `json:"lines"`
	SentAt        time.Time       `json:"sent_at"`
}

// NewOrderSentEvent creates a new OrderSentEvent
func NewOrderSentEvent(order *Order) *OrderSentEvent {
	lines := make([]OrderLineInfo, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineInfo{
			LineID:   line.ID,
			ItemID:   line.ItemID,
			ItemName: line.ItemName,
			Unit:     line.Unit,
			Quantity: line.Quantity,
		}
	}

	sentAt := time.Now()
	if order.SentAt != nil {
		sentAt = *order.SentAt
	}

	return &OrderSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSent, AggregateTypeOrder, order.ID, order.PracticeID),
		OrderID:         order.ID,
		ReferenceCode:   order.ReferenceCode,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		Lines:           lines,
		SentAt:          sentAt,
	}
}

// EventType returns the event type name
func (e *OrderSentEvent) EventType() string {
	return EventTypeOrderSent
}

// OrderReceivedEvent is raised when an order reaches fully-received status
type OrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID  `json:"order_id"`
	ReferenceCode string     `json:"reference_code"`
	SupplierID    uuid.UUID  `json:"supplier_id"`
	ReceivedAt    *time.Time `json:"received_at,omitempty"`
}

// NewOrderReceivedEvent creates a new OrderReceivedEvent
func NewOrderReceivedEvent(order *Order) *OrderReceivedEvent {
	return &OrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReceived, AggregateTypeOrder, order.ID, order.PracticeID),
		OrderID:         order.ID,
		ReferenceCode:   order.ReferenceCode,
		SupplierID:      order.SupplierID,
		ReceivedAt:      order.ReceivedAt,
	}
}

// EventType returns the event type name
func (e *OrderReceivedEvent) EventType() string {
	return EventTypeOrderReceived
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	ReferenceCode string    `json:"reference_code"`
	SupplierID    uuid.UUID `json:"supplier_id"`
	Reason        string    `json:"reason"`
	WasSent       bool      `json:"was_sent"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID, order.PracticeID),
		OrderID:         order.ID,
		ReferenceCode:   order.ReferenceCode,
		SupplierID:      order.SupplierID,
		Reason:          order.CancelReason,
		WasSent:         order.SentAt != nil,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
