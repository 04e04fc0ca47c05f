package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praxis/backend/internal/domain/procurement"
)

// ==================== Order DTOs ====================

// CreateOrderRequest represents a request to create a procurement order
type CreateOrderRequest struct {
	SupplierID   uuid.UUID              `json:"supplier_id" binding:"required"`
	SupplierName string                 `json:"supplier_name" binding:"required,min=1,max=200"`
	ExpectedAt   *time.Time             `json:"expected_at"`
	Notes        string                 `json:"notes"`
	Items        []CreateOrderItemInput `json:"items"`
}

// CreateOrderItemInput represents an item in the create order request
type CreateOrderItemInput struct {
	ItemID    uuid.UUID        `json:"item_id" binding:"required"`
	ItemName  string           `json:"item_name" binding:"required,min=1,max=200"`
	Unit      string           `json:"unit" binding:"required,min=1,max=20"`
	Quantity  int64            `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     string           `json:"notes"`
}

// UpdateOrderRequest represents a request to update a draft order's header fields
type UpdateOrderRequest struct {
	ExpectedAt *time.Time `json:"expected_at"`
	Notes      *string    `json:"notes"`
}

// AddOrderItemRequest represents a request to add a line to a draft order
type AddOrderItemRequest struct {
	ItemID    uuid.UUID        `json:"item_id" binding:"required"`
	ItemName  string           `json:"item_name" binding:"required,min=1,max=200"`
	Unit      string           `json:"unit" binding:"required,min=1,max=20"`
	Quantity  int64            `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     string           `json:"notes"`
}

// UpdateOrderItemRequest represents a request to update a draft order line
type UpdateOrderItemRequest struct {
	Quantity  int64            `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     *string          `json:"notes"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Search     string                   `form:"search"`
	SupplierID *uuid.UUID               `form:"supplier_id"`
	Status     *procurement.OrderStatus `form:"status"`
	StartDate  *time.Time               `form:"start_date"`
	EndDate    *time.Time               `form:"end_date"`
	Page       int                      `form:"page" binding:"omitempty,min=1"`
	PageSize   int                      `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string                   `form:"order_by"`
	OrderDir   string                   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID        uuid.UUID        `json:"id"`
	ItemID    uuid.UUID        `json:"item_id"`
	ItemName  string           `json:"item_name"`
	Unit      string           `json:"unit"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Amount    decimal.Decimal  `json:"amount"`
	Notes     string           `json:"notes,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	PracticeID    uuid.UUID           `json:"practice_id"`
	ReferenceCode string              `json:"reference_code"`
	SupplierID    uuid.UUID           `json:"supplier_id"`
	SupplierName  string              `json:"supplier_name"`
	Lines         []OrderLineResponse `json:"lines"`
	LineCount     int                 `json:"line_count"`
	TotalQuantity int64               `json:"total_quantity"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Status        string              `json:"status"`
	Notes         string              `json:"notes,omitempty"`
	SentAt        *time.Time          `json:"sent_at,omitempty"`
	ExpectedAt    *time.Time          `json:"expected_at,omitempty"`
	ReceivedAt    *time.Time          `json:"received_at,omitempty"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	Version       int                 `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses (without lines)
type OrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReferenceCode string          `json:"reference_code"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	LineCount     int             `json:"line_count"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	ExpectedAt    *time.Time      `json:"expected_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderStatusSummary represents order counts by status
type OrderStatusSummary struct {
	Draft             int64 `json:"draft"`
	Sent              int64 `json:"sent"`
	PartiallyReceived int64 `json:"partially_received"`
	Received          int64 `json:"received"`
	Cancelled         int64 `json:"cancelled"`
	Total             int64 `json:"total"`
}

// ItemProgressResponse represents per-item receipt progress for an order
type ItemProgressResponse struct {
	ItemID          uuid.UUID `json:"item_id"`
	ItemName        string    `json:"item_name"`
	Unit            string    `json:"unit"`
	Ordered         int64     `json:"ordered"`
	AlreadyReceived int64     `json:"already_received"`
	Remaining       int64     `json:"remaining"`
}

// ToOrderResponse converts an order aggregate to a response DTO
func ToOrderResponse(order *procurement.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = OrderLineResponse{
			ID:        line.ID,
			ItemID:    line.ItemID,
			ItemName:  line.ItemName,
			Unit:      line.Unit,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Amount:    line.Amount(),
			Notes:     line.Notes,
		}
	}

	return OrderResponse{
		ID:            order.ID,
		PracticeID:    order.PracticeID,
		ReferenceCode: order.ReferenceCode,
		SupplierID:    order.SupplierID,
		SupplierName:  order.SupplierName,
		Lines:         lines,
		LineCount:     order.LineCount(),
		TotalQuantity: order.TotalOrderedQuantity(),
		TotalAmount:   order.TotalAmount(),
		Status:        order.Status.String(),
		Notes:         order.Notes,
		SentAt:        order.SentAt,
		ExpectedAt:    order.ExpectedAt,
		ReceivedAt:    order.ReceivedAt,
		CancelledAt:   order.CancelledAt,
		CancelReason:  order.CancelReason,
		Version:       order.GetVersion(),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToOrderListItemResponse converts an order aggregate to a list item DTO
func ToOrderListItemResponse(order *procurement.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:            order.ID,
		ReferenceCode: order.ReferenceCode,
		SupplierID:    order.SupplierID,
		SupplierName:  order.SupplierName,
		LineCount:     order.LineCount(),
		TotalQuantity: order.TotalOrderedQuantity(),
		TotalAmount:   order.TotalAmount(),
		Status:        order.Status.String(),
		ExpectedAt:    order.ExpectedAt,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ==================== Goods Receipt DTOs ====================

// CreateReceiptRequest represents a request to open a goods receipt.
// Either an order reference or a supplier reference is required.
type CreateReceiptRequest struct {
	OrderID    *uuid.UUID            `json:"order_id"`
	SupplierID *uuid.UUID            `json:"supplier_id"`
	LocationID uuid.UUID             `json:"location_id" binding:"required"`
	Notes      string                `json:"notes"`
	Lines      []AddReceiptLineInput `json:"lines"`
}

// AddReceiptLineInput represents a line in the create receipt request
type AddReceiptLineInput struct {
	ItemID        uuid.UUID  `json:"item_id" binding:"required"`
	ItemName      string     `json:"item_name" binding:"required,min=1,max=200"`
	Unit          string     `json:"unit" binding:"required,min=1,max=20"`
	Quantity      int64      `json:"quantity" binding:"min=0"`
	BatchNumber   string     `json:"batch_number"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	Notes         string     `json:"notes"`
	SourceBarcode string     `json:"source_barcode"`
}

// AddReceiptLineRequest represents a request to add a line to a draft receipt
type AddReceiptLineRequest struct {
	ItemID        uuid.UUID  `json:"item_id" binding:"required"`
	ItemName      string     `json:"item_name" binding:"required,min=1,max=200"`
	Unit          string     `json:"unit" binding:"required,min=1,max=20"`
	Quantity      int64      `json:"quantity" binding:"min=0"`
	BatchNumber   string     `json:"batch_number"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	Notes         string     `json:"notes"`
	SourceBarcode string     `json:"source_barcode"`
}

// UpdateReceiptLineRequest represents a request to update a draft receipt line
type UpdateReceiptLineRequest struct {
	Quantity    int64      `json:"quantity" binding:"required,min=1"`
	BatchNumber *string    `json:"batch_number"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	Notes       *string    `json:"notes"`
}

// SetLineDiscrepancyRequest represents a request to manually classify a line
type SetLineDiscrepancyRequest struct {
	Type procurement.DiscrepancyType `json:"type" binding:"required"`
}

// ConfirmReceiptRequest represents a request to confirm a goods receipt
type ConfirmReceiptRequest struct {
	// BackorderItemIDs marks items the supplier announced for a later delivery
	BackorderItemIDs []uuid.UUID `json:"backorder_item_ids"`
	// IdempotencyKey deduplicates retried confirmations
	IdempotencyKey string `json:"idempotency_key"`
}

// ReceiptListFilter represents filter options for receipt lists
type ReceiptListFilter struct {
	OrderID    *uuid.UUID                 `form:"order_id"`
	SupplierID *uuid.UUID                 `form:"supplier_id"`
	LocationID *uuid.UUID                 `form:"location_id"`
	Status     *procurement.ReceiptStatus `form:"status"`
	StartDate  *time.Time                 `form:"start_date"`
	EndDate    *time.Time                 `form:"end_date"`
	Page       int                        `form:"page" binding:"omitempty,min=1"`
	PageSize   int                        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string                     `form:"order_by"`
	OrderDir   string                     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReceiptLineResponse represents a receipt line in API responses
type ReceiptLineResponse struct {
	ID            uuid.UUID  `json:"id"`
	ItemID        uuid.UUID  `json:"item_id"`
	ItemName      string     `json:"item_name"`
	Unit          string     `json:"unit"`
	Quantity      int64      `json:"quantity"`
	BatchNumber   string     `json:"batch_number,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Discrepancy   string     `json:"discrepancy"`
	IsBackorder   bool       `json:"is_backorder"`
	SourceBarcode string     `json:"source_barcode,omitempty"`
}

// ReceiptResponse represents a goods receipt in API responses
type ReceiptResponse struct {
	ID            uuid.UUID             `json:"id"`
	PracticeID    uuid.UUID             `json:"practice_id"`
	OrderID       *uuid.UUID            `json:"order_id,omitempty"`
	SupplierID    *uuid.UUID            `json:"supplier_id,omitempty"`
	LocationID    uuid.UUID             `json:"location_id"`
	Lines         []ReceiptLineResponse `json:"lines"`
	LineCount     int                   `json:"line_count"`
	TotalQuantity int64                 `json:"total_quantity"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	ReceivedAt    *time.Time            `json:"received_at,omitempty"`
	Version       int                   `json:"version"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// LowStockItemResponse represents an item at or below its reorder point
type LowStockItemResponse struct {
	ItemID       uuid.UUID `json:"item_id"`
	LocationID   uuid.UUID `json:"location_id"`
	OnHand       int64     `json:"on_hand"`
	ReorderPoint int64     `json:"reorder_point"`
}

// ConfirmReceiptResponse represents the outcome of a receipt confirmation
type ConfirmReceiptResponse struct {
	Receipt       ReceiptResponse        `json:"receipt"`
	Discrepancies []DiscrepancyResponse  `json:"discrepancies"`
	OrderStatus   *string                `json:"order_status,omitempty"`
	LowStockItems []LowStockItemResponse `json:"low_stock_items,omitempty"`
}

// ReceiptStatusSummary represents receipt counts by status
type ReceiptStatusSummary struct {
	Draft     int64 `json:"draft"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}

// ToReceiptResponse converts a goods receipt aggregate to a response DTO
func ToReceiptResponse(receipt *procurement.GoodsReceipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, len(receipt.Lines))
	for i, line := range receipt.Lines {
		lines[i] = ReceiptLineResponse{
			ID:            line.ID,
			ItemID:        line.ItemID,
			ItemName:      line.ItemName,
			Unit:          line.Unit,
			Quantity:      line.Quantity,
			BatchNumber:   line.BatchNumber,
			ExpiryDate:    line.ExpiryDate,
			Notes:         line.Notes,
			Discrepancy:   line.Discrepancy.String(),
			IsBackorder:   line.IsBackorder,
			SourceBarcode: line.SourceBarcode,
		}
	}

	return ReceiptResponse{
		ID:            receipt.ID,
		PracticeID:    receipt.PracticeID,
		OrderID:       receipt.OrderID,
		SupplierID:    receipt.SupplierID,
		LocationID:    receipt.LocationID,
		Lines:         lines,
		LineCount:     receipt.LineCount(),
		TotalQuantity: receipt.TotalReceivedQuantity(),
		Status:        receipt.Status.String(),
		Notes:         receipt.Notes,
		ReceivedAt:    receipt.ReceivedAt,
		Version:       receipt.GetVersion(),
		CreatedAt:     receipt.CreatedAt,
		UpdatedAt:     receipt.UpdatedAt,
	}
}

// ==================== Discrepancy DTOs ====================

// ResolveDiscrepancyRequest represents a request to resolve a discrepancy record
type ResolveDiscrepancyRequest struct {
	Note string `json:"note" binding:"required,min=1,max=500"`
}

// RequireSupplierCorrectionRequest represents a request to escalate a record
// to the supplier
type RequireSupplierCorrectionRequest struct {
	Note string `json:"note" binding:"required,min=1,max=500"`
}

// AppendDiscrepancyNoteRequest represents a request to append a progress note
type AppendDiscrepancyNoteRequest struct {
	Note string `json:"note" binding:"required,min=1,max=500"`
}

// DiscrepancyListFilter represents filter options for discrepancy lists
type DiscrepancyListFilter struct {
	ReceiptID *uuid.UUID                     `form:"receipt_id"`
	OrderID   *uuid.UUID                     `form:"order_id"`
	Type      *procurement.DiscrepancyType   `form:"type"`
	Status    *procurement.DiscrepancyStatus `form:"status"`
	OpenOnly  bool                           `form:"open_only"`
	Page      int                            `form:"page" binding:"omitempty,min=1"`
	PageSize  int                            `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string                         `form:"order_by"`
	OrderDir  string                         `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DiscrepancyResponse represents a discrepancy record in API responses
type DiscrepancyResponse struct {
	ID               uuid.UUID  `json:"id"`
	ReceiptID        uuid.UUID  `json:"receipt_id"`
	OrderID          *uuid.UUID `json:"order_id,omitempty"`
	ItemID           uuid.UUID  `json:"item_id"`
	ItemName         string     `json:"item_name"`
	Type             string     `json:"type"`
	OrderedQuantity  int64      `json:"ordered_quantity"`
	ReceivedQuantity int64      `json:"received_quantity"`
	Note             string     `json:"note,omitempty"`
	Status           string     `json:"status"`
	ResolutionNote   string     `json:"resolution_note,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToDiscrepancyResponse converts a discrepancy record to a response DTO
func ToDiscrepancyResponse(record *procurement.DiscrepancyRecord) DiscrepancyResponse {
	return DiscrepancyResponse{
		ID:               record.ID,
		ReceiptID:        record.ReceiptID,
		OrderID:          record.OrderID,
		ItemID:           record.ItemID,
		ItemName:         record.ItemName,
		Type:             record.Type.String(),
		OrderedQuantity:  record.OrderedQuantity,
		ReceivedQuantity: record.ReceivedQuantity,
		Note:             record.Note,
		Status:           record.Status.String(),
		ResolutionNote:   record.ResolutionNote,
		ResolvedAt:       record.ResolvedAt,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
}
