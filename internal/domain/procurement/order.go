package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praxis/backend/internal/domain/shared"
)

// OrderStatus represents the status of a purchase order
type OrderStatus string

const (
	OrderStatusDraft             OrderStatus = "DRAFT"
	OrderStatusSent              OrderStatus = "SENT"
	OrderStatusPartiallyReceived OrderStatus = "PARTIALLY_RECEIVED"
	OrderStatusReceived          OrderStatus = "RECEIVED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSent, OrderStatusPartiallyReceived,
		OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusSent || target == OrderStatusCancelled
	case OrderStatusSent:
		return target == OrderStatusPartiallyReceived || target == OrderStatusReceived || target == OrderStatusCancelled
	case OrderStatusPartiallyReceived:
		return target == OrderStatusPartiallyReceived || target == OrderStatusReceived
	case OrderStatusReceived, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if goods receipts may be recorded against this status
func (s OrderStatus) CanReceive() bool {
	return s == OrderStatusSent || s == OrderStatusPartiallyReceived
}

// OrderLine represents a single item within a purchase order.
// At most one line exists per (order, item) pair.
type OrderLine struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	ItemID    uuid.UUID        `gorm:"type:uuid;not null"`
	ItemName  string           `gorm:"type:varchar(200);not null"`
	Unit      string           `gorm:"type:varchar(20);not null"`
	Quantity  int64            `gorm:"not null"`
	UnitPrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Notes     string           `gorm:"type:varchar(256)"`
	CreatedAt time.Time        `gorm:"not null"`
	UpdatedAt time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderLine creates a new order line
func NewOrderLine(orderID, itemID uuid.UUID, itemName, unit string, quantity int64, unitPrice *decimal.Decimal) (*OrderLine, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if itemName == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderLine{
		ID:        uuid.New(),
		OrderID:   orderID,
		ItemID:    itemID,
		ItemName:  itemName,
		Unit:      unit,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Amount returns the line total, or zero when no unit price is set
func (l *OrderLine) Amount() decimal.Decimal {
	if l.UnitPrice == nil {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Order represents a purchase order aggregate root.
// It manages the lifecycle of one purchase request to a supplier, from
// drafting through dispatch and goods receipt to full fulfillment.
type Order struct {
	shared.PracticeAggregateRoot
	ReferenceCode string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_practice_reference,priority:2"`
	SupplierID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	SupplierName  string      `gorm:"type:varchar(200);not null"`
	Lines         []OrderLine `gorm:"foreignKey:OrderID;references:ID"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Notes         string      `gorm:"type:text"`
	SentAt        *time.Time  `gorm:"index"`
	ExpectedAt    *time.Time
	ReceivedAt    *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new purchase order in DRAFT status
func NewOrder(practiceID uuid.UUID, referenceCode string, supplierID uuid.UUID, supplierName string) (*Order, error) {
	if referenceCode == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference code cannot be empty")
	}
	if len(referenceCode) > 50 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference code cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	order := &Order{
		PracticeAggregateRoot: shared.NewPracticeAggregateRoot(practiceID),
		ReferenceCode:         referenceCode,
		SupplierID:            supplierID,
		SupplierName:          supplierName,
		Lines:                 make([]OrderLine, 0),
		Status:                OrderStatusDraft,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line to the order.
// Only allowed in DRAFT status. A duplicate item is rejected; callers must
// use UpdateItem for an item that is already on the order.
func (o *Order) AddItem(itemID uuid.UUID, itemName, unit string, quantity int64, unitPrice *decimal.Decimal) (*OrderLine, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}

	for _, line := range o.Lines {
		if line.ItemID == itemID {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Item already exists on order, update the existing line instead")
		}
	}

	line, err := NewOrderLine(o.ID, itemID, itemName, unit, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return &o.Lines[len(o.Lines)-1], nil
}

// UpdateItem updates the quantity, unit price and notes of an existing line.
// Only allowed in DRAFT status.
func (o *Order) UpdateItem(itemID uuid.UUID, quantity int64, unitPrice *decimal.Decimal, notes *string) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on a non-draft order")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ItemID == itemID {
			o.Lines[idx].Quantity = quantity
			if unitPrice != nil {
				o.Lines[idx].UnitPrice = unitPrice
			}
			if notes != nil {
				o.Lines[idx].Notes = *notes
			}
			o.Lines[idx].UpdatedAt = time.Now()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order line not found")
}

// RemoveItem removes a line from the order.
// Only allowed in DRAFT status.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, line := range o.Lines {
		if line.ItemID == itemID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order line not found")
}

// SetNotes sets the order notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// SetExpectedAt sets the expected delivery date
func (o *Order) SetExpectedAt(expected *time.Time) {
	o.ExpectedAt = expected
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Send dispatches the order to the supplier, transitioning DRAFT to SENT.
// Requires at least one line. Line edits are locked afterwards.
func (o *Order) Send() error {
	if !o.Status.CanTransitionTo(OrderStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send an order without lines")
	}

	now := time.Now()
	o.Status = OrderStatusSent
	o.SentAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderSentEvent(o))

	return nil
}

// RecomputeStatusFromReceipts derives the fulfillment status from the
// per-item receipt progress reported by the quantity ledger.
// A terminal RECEIVED or CANCELLED order is never regressed.
func (o *Order) RecomputeStatusFromReceipts(progress map[uuid.UUID]ItemProgress) {
	if o.Status == OrderStatusReceived || o.Status == OrderStatusCancelled || o.Status == OrderStatusDraft {
		return
	}

	allReceived := len(o.Lines) > 0
	anyReceived := false
	for _, line := range o.Lines {
		p, ok := progress[line.ItemID]
		if !ok {
			allReceived = false
			continue
		}
		if p.AlreadyReceived > 0 {
			anyReceived = true
		}
		if p.Remaining > 0 {
			allReceived = false
		}
	}

	switch {
	case allReceived:
		now := time.Now()
		o.Status = OrderStatusReceived
		if o.ReceivedAt == nil {
			o.ReceivedAt = &now
		}
		o.UpdatedAt = now
		o.IncrementVersion()
		o.AddDomainEvent(NewOrderReceivedEvent(o))
	case anyReceived:
		if o.Status != OrderStatusPartiallyReceived {
			o.Status = OrderStatusPartiallyReceived
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
		}
	}
}

// Cancel cancels the order.
// Allowed only in DRAFT or SENT status, before any goods have been received.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// TotalOrderedQuantity returns the total ordered quantity across all lines
func (o *Order) TotalOrderedQuantity() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// TotalAmount returns the order total across all priced lines
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Amount())
	}
	return total
}

// LineCount returns the number of lines on the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}

// IsDraft returns true if the order is in draft status
func (o *Order) IsDraft() bool {
	return o.Status == OrderStatusDraft
}

// IsTerminal returns true if the order is fully received or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusReceived || o.Status == OrderStatusCancelled
}

// CanModify returns true if the order lines can still be edited
func (o *Order) CanModify() bool {
	return o.IsDraft()
}

// GetLine returns a line by its ID
func (o *Order) GetLine(lineID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// GetLineByItem returns a line by item ID
func (o *Order) GetLineByItem(itemID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ItemID == itemID {
			return &o.Lines[idx]
		}
	}
	return nil
}
