package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/shared"
)

// MaxReceiptLineQuantity caps a single receipt line quantity
const MaxReceiptLineQuantity = 999_999

const (
	maxBatchNumberLength = 128
	maxLineNotesLength   = 256
)

// ReceiptStatus represents the status of a goods receipt
type ReceiptStatus string

const (
	ReceiptStatusDraft     ReceiptStatus = "DRAFT"
	ReceiptStatusConfirmed ReceiptStatus = "CONFIRMED"
	ReceiptStatusCancelled ReceiptStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReceiptStatus
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusDraft, ReceiptStatusConfirmed, ReceiptStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// IsTerminal returns true for CONFIRMED and CANCELLED
func (s ReceiptStatus) IsTerminal() bool {
	return s == ReceiptStatusConfirmed || s == ReceiptStatusCancelled
}

// ReceiptLine represents one received quantity of one item within a receipt.
// A quantity of zero is permitted while drafting: it marks an item that was
// expected but not delivered, kept as a backorder placeholder.
type ReceiptLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReceiptID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName      string          `gorm:"type:varchar(200);not null"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	Quantity      int64           `gorm:"not null"`
	BatchNumber   string          `gorm:"type:varchar(128)"`
	ExpiryDate    *time.Time      `gorm:""`
	Notes         string          `gorm:"type:varchar(256)"`
	Discrepancy   DiscrepancyType `gorm:"type:varchar(20);not null;default:'NONE'"`
	IsBackorder   bool            `gorm:"not null;default:false"`
	SourceBarcode string          `gorm:"type:varchar(128)"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceiptLine) TableName() string {
	return "receipt_lines"
}

func validateReceiptLineFields(quantity int64, batchNumber, notes string) error {
	if quantity < 0 || quantity > MaxReceiptLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Received quantity must be between 0 and %d", MaxReceiptLineQuantity))
	}
	if len(batchNumber) > maxBatchNumberLength {
		return shared.NewDomainError("INVALID_BATCH", fmt.Sprintf("Batch number cannot exceed %d characters", maxBatchNumberLength))
	}
	if len(notes) > maxLineNotesLength {
		return shared.NewDomainError("INVALID_NOTES", fmt.Sprintf("Line notes cannot exceed %d characters", maxLineNotesLength))
	}
	return nil
}

// NewReceiptLine creates a new receipt line
func NewReceiptLine(receiptID, itemID uuid.UUID, itemName, unit string, quantity int64, batchNumber string, expiryDate *time.Time, notes, sourceBarcode string) (*ReceiptLine, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if itemName == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if err := validateReceiptLineFields(quantity, batchNumber, notes); err != nil {
		return nil, err
	}

	now := time.Now()
	return &ReceiptLine{
		ID:            uuid.New(),
		ReceiptID:     receiptID,
		ItemID:        itemID,
		ItemName:      itemName,
		Unit:          unit,
		Quantity:      quantity,
		BatchNumber:   batchNumber,
		ExpiryDate:    expiryDate,
		Notes:         notes,
		Discrepancy:   DiscrepancyNone,
		SourceBarcode: sourceBarcode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// GoodsReceipt represents one physical delivery event, optionally tied to an
// order. It is the aggregate root for the receiving workflow: lines accumulate
// while the receipt is DRAFT, and Confirm is the single point at which the
// received quantities become stock movements.
type GoodsReceipt struct {
	shared.PracticeAggregateRoot
	LocationID uuid.UUID     `gorm:"type:uuid;not null;index"`
	SupplierID *uuid.UUID    `gorm:"type:uuid;index"`
	OrderID    *uuid.UUID    `gorm:"type:uuid;index"`
	Lines      []ReceiptLine `gorm:"foreignKey:ReceiptID;references:ID"`
	Status     ReceiptStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Notes      string        `gorm:"type:text"`
	ReceivedAt *time.Time
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt creates a new DRAFT goods receipt.
// A receipt that is not linked to an order must carry a supplier reference so
// that ad-hoc deliveries remain attributable.
func NewGoodsReceipt(practiceID, locationID uuid.UUID, orderID, supplierID *uuid.UUID) (*GoodsReceipt, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if orderID == nil && (supplierID == nil || *supplierID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "A receipt without an order requires a supplier reference")
	}

	receipt := &GoodsReceipt{
		PracticeAggregateRoot: shared.NewPracticeAggregateRoot(practiceID),
		LocationID:            locationID,
		SupplierID:            supplierID,
		OrderID:               orderID,
		Lines:                 make([]ReceiptLine, 0),
		Status:                ReceiptStatusDraft,
	}

	return receipt, nil
}

// AddLine appends a line for an item, or merges into the existing line when
// the item is already present on the receipt: the quantities are summed and
// any newly supplied batch, expiry, notes or barcode replace empty fields.
// One line per (receipt, item) is an invariant of this aggregate.
// Returns the ID of the created or merged line.
func (r *GoodsReceipt) AddLine(itemID uuid.UUID, itemName, unit string, quantity int64, batchNumber string, expiryDate *time.Time, notes, sourceBarcode string) (uuid.UUID, error) {
	if r.Status != ReceiptStatusDraft {
		return uuid.Nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft receipt")
	}

	for idx := range r.Lines {
		if r.Lines[idx].ItemID == itemID {
			merged := r.Lines[idx].Quantity + quantity
			if err := validateReceiptLineFields(merged, batchNumber, notes); err != nil {
				return uuid.Nil, err
			}
			r.Lines[idx].Quantity = merged
			if batchNumber != "" {
				r.Lines[idx].BatchNumber = batchNumber
			}
			if expiryDate != nil {
				r.Lines[idx].ExpiryDate = expiryDate
			}
			if notes != "" {
				r.Lines[idx].Notes = notes
			}
			if sourceBarcode != "" {
				r.Lines[idx].SourceBarcode = sourceBarcode
			}
			r.Lines[idx].UpdatedAt = time.Now()
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return r.Lines[idx].ID, nil
		}
	}

	line, err := NewReceiptLine(r.ID, itemID, itemName, unit, quantity, batchNumber, expiryDate, notes, sourceBarcode)
	if err != nil {
		return uuid.Nil, err
	}

	r.Lines = append(r.Lines, *line)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return line.ID, nil
}

// UpdateLine replaces the quantity and optional fields of an existing line.
// Unlike AddLine, the quantity must be positive: updating a line to zero is
// not a removal, RemoveLine is.
func (r *GoodsReceipt) UpdateLine(lineID uuid.UUID, quantity int64, batchNumber *string, expiryDate *time.Time, notes *string) error {
	if r.Status != ReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines on a non-draft receipt")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Updated quantity must be positive")
	}
	if quantity > MaxReceiptLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Received quantity must be between 0 and %d", MaxReceiptLineQuantity))
	}

	for idx := range r.Lines {
		if r.Lines[idx].ID == lineID {
			if batchNumber != nil {
				if len(*batchNumber) > maxBatchNumberLength {
					return shared.NewDomainError("INVALID_BATCH", fmt.Sprintf("Batch number cannot exceed %d characters", maxBatchNumberLength))
				}
				r.Lines[idx].BatchNumber = *batchNumber
			}
			if notes != nil {
				if len(*notes) > maxLineNotesLength {
					return shared.NewDomainError("INVALID_NOTES", fmt.Sprintf("Line notes cannot exceed %d characters", maxLineNotesLength))
				}
				r.Lines[idx].Notes = *notes
			}
			if expiryDate != nil {
				r.Lines[idx].ExpiryDate = expiryDate
			}
			r.Lines[idx].Quantity = quantity
			r.Lines[idx].UpdatedAt = time.Now()
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Receipt line not found")
}

// RemoveLine removes a line from the receipt
func (r *GoodsReceipt) RemoveLine(lineID uuid.UUID) error {
	if r.Status != ReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft receipt")
	}

	for idx, line := range r.Lines {
		if line.ID == lineID {
			r.Lines = append(r.Lines[:idx], r.Lines[idx+1:]...)
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Receipt line not found")
}

// SetManualDiscrepancy sets an operator-assigned DAMAGE or SUBSTITUTION
// classification on a line, overriding whatever the quantity comparison
// would yield at confirmation time.
func (r *GoodsReceipt) SetManualDiscrepancy(lineID uuid.UUID, dtype DiscrepancyType) error {
	if r.Status != ReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot reclassify lines on a non-draft receipt")
	}
	if !dtype.IsManual() {
		return shared.NewDomainError("INVALID_DISCREPANCY_TYPE", fmt.Sprintf("Only manual classifications can be assigned, got %s", dtype))
	}

	for idx := range r.Lines {
		if r.Lines[idx].ID == lineID {
			r.Lines[idx].Discrepancy = dtype
			r.Lines[idx].UpdatedAt = time.Now()
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Receipt line not found")
}

// ConfirmedLine describes one positive-quantity line at confirmation time,
// for stock movement and event payloads.
type ConfirmedLine struct {
	LineID      uuid.UUID       `json:"line_id"`
	ItemID      uuid.UUID       `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Unit        string          `json:"unit"`
	Quantity    int64           `json:"quantity"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Discrepancy DiscrepancyType `json:"discrepancy"`
	IsBackorder bool            `json:"is_backorder"`
}

// Confirm transitions the receipt from DRAFT to CONFIRMED.
//
// expectedByItem carries the remaining-to-receive quantity per item before
// this receipt (from the quantity ledger) and is nil for ad-hoc receipts;
// backorderItems marks items the operator expects in a later delivery.
// Each line keeps a manual DAMAGE/SUBSTITUTION classification if one was set,
// otherwise it is classified from the quantity comparison. The backorder flag
// never alters the received quantities: stock moves by what actually arrived.
//
// Confirmation requires at least one line with a positive quantity. The
// returned lines, in receipt line order, are the ones whose quantities must
// be applied to stock; the caller owns making that application atomic with
// the persistence of this state change.
func (r *GoodsReceipt) Confirm(expectedByItem map[uuid.UUID]int64, backorderItems map[uuid.UUID]struct{}) ([]ConfirmedLine, error) {
	if r.Status != ReceiptStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm receipt in %s status", r.Status))
	}

	hasPositive := false
	for _, line := range r.Lines {
		if line.Quantity > 0 {
			hasPositive = true
			break
		}
	}
	if !hasPositive {
		return nil, shared.NewDomainError("NO_ITEMS", "Receipt has no lines with quantity greater than zero")
	}

	now := time.Now()
	confirmed := make([]ConfirmedLine, 0, len(r.Lines))
	for idx := range r.Lines {
		line := &r.Lines[idx]

		_, isBackorder := backorderItems[line.ItemID]
		line.IsBackorder = isBackorder

		if !line.Discrepancy.IsManual() {
			if expected, ok := expectedByItem[line.ItemID]; ok {
				line.Discrepancy = Classify(expected, line.Quantity, isBackorder).Type
			} else {
				line.Discrepancy = DiscrepancyNone
			}
		}
		line.UpdatedAt = now

		if line.Quantity > 0 {
			confirmed = append(confirmed, ConfirmedLine{
				LineID:      line.ID,
				ItemID:      line.ItemID,
				ItemName:    line.ItemName,
				Unit:        line.Unit,
				Quantity:    line.Quantity,
				BatchNumber: line.BatchNumber,
				ExpiryDate:  line.ExpiryDate,
				Discrepancy: line.Discrepancy,
				IsBackorder: line.IsBackorder,
			})
		}
	}

	r.Status = ReceiptStatusConfirmed
	r.ReceivedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewGoodsReceiptConfirmedEvent(r, confirmed))

	return confirmed, nil
}

// Cancel discards a draft receipt without touching stock. Terminal.
func (r *GoodsReceipt) Cancel() error {
	if r.Status != ReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel receipt in %s status", r.Status))
	}

	r.Status = ReceiptStatusCancelled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// IsDraft returns true while lines can still be edited
func (r *GoodsReceipt) IsDraft() bool {
	return r.Status == ReceiptStatusDraft
}

// IsOrderLinked returns true when the receipt is tied to an order
func (r *GoodsReceipt) IsOrderLinked() bool {
	return r.OrderID != nil
}

// TotalReceivedQuantity returns the total quantity across all lines
func (r *GoodsReceipt) TotalReceivedQuantity() int64 {
	var total int64
	for _, line := range r.Lines {
		total += line.Quantity
	}
	return total
}

// GetLine returns a line by its ID
func (r *GoodsReceipt) GetLine(lineID uuid.UUID) *ReceiptLine {
	for idx := range r.Lines {
		if r.Lines[idx].ID == lineID {
			return &r.Lines[idx]
		}
	}
	return nil
}

// GetLineByItem returns a line by item ID
func (r *GoodsReceipt) GetLineByItem(itemID uuid.UUID) *ReceiptLine {
	for idx := range r.Lines {
		if r.Lines[idx].ItemID == itemID {
			return &r.Lines[idx]
		}
	}
	return nil
}

// LineCount returns the number of lines on the receipt
func (r *GoodsReceipt) LineCount() int {
	return len(r.Lines)
}
