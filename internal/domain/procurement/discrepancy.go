package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/shared"
)

// DiscrepancyType classifies a mismatch between ordered and received quantity
type DiscrepancyType string

const (
	DiscrepancyNone             DiscrepancyType = "NONE"
	DiscrepancyShort            DiscrepancyType = "SHORT"
	DiscrepancyOver             DiscrepancyType = "OVER"
	DiscrepancyPendingBackorder DiscrepancyType = "PENDING_BACKORDER"
	DiscrepancyDamage           DiscrepancyType = "DAMAGE"
	DiscrepancySubstitution     DiscrepancyType = "SUBSTITUTION"
)

// IsValid checks if the type is a valid DiscrepancyType
func (t DiscrepancyType) IsValid() bool {
	switch t {
	case DiscrepancyNone, DiscrepancyShort, DiscrepancyOver,
		DiscrepancyPendingBackorder, DiscrepancyDamage, DiscrepancySubstitution:
		return true
	}
	return false
}

// IsManual returns true for classifications an operator assigns explicitly
// rather than being derived from the quantity comparison
func (t DiscrepancyType) IsManual() bool {
	return t == DiscrepancyDamage || t == DiscrepancySubstitution
}

// String returns the string representation of DiscrepancyType
func (t DiscrepancyType) String() string {
	return string(t)
}

// Classification is the classifier output for one (ordered, received) pair
type Classification struct {
	Type               DiscrepancyType
	BlocksConfirmation bool
}

// Classify assigns a discrepancy category to an (ordered, received, backorder)
// triple. It is a pure function of its inputs.
//
// A received quantity of zero means nothing has been entered yet and is
// pending, not a discrepancy. Short receipt with the backorder flag set is
// classified PENDING_BACKORDER. No classification blocks confirmation:
// shortfalls and overages are surfaced for review and logged, never enforced.
func Classify(ordered, received int64, isBackorder bool) Classification {
	switch {
	case received == 0:
		return Classification{Type: DiscrepancyNone}
	case received < ordered && isBackorder:
		return Classification{Type: DiscrepancyPendingBackorder}
	case received < ordered:
		return Classification{Type: DiscrepancyShort}
	case received > ordered:
		return Classification{Type: DiscrepancyOver}
	default:
		return Classification{Type: DiscrepancyNone}
	}
}

// DiscrepancyStatus represents the review status of a logged discrepancy
type DiscrepancyStatus string

const (
	DiscrepancyStatusOpen                    DiscrepancyStatus = "OPEN"
	DiscrepancyStatusResolved                DiscrepancyStatus = "RESOLVED"
	DiscrepancyStatusNeedsSupplierCorrection DiscrepancyStatus = "NEEDS_SUPPLIER_CORRECTION"
)

// String returns the string representation of DiscrepancyStatus
func (s DiscrepancyStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid DiscrepancyStatus
func (s DiscrepancyStatus) IsValid() bool {
	switch s {
	case DiscrepancyStatusOpen, DiscrepancyStatusResolved, DiscrepancyStatusNeedsSupplierCorrection:
		return true
	}
	return false
}

// DiscrepancyRecord is a logged mismatch between ordered and received
// quantity, kept for audit and supplier-correction workflows. Records are
// created at receipt confirmation time and reviewed by an operator afterwards.
// The note history is append-only.
type DiscrepancyRecord struct {
	shared.PracticeAggregateRoot
	ReceiptID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderID          *uuid.UUID        `gorm:"type:uuid;index"`
	ItemID           uuid.UUID         `gorm:"type:uuid;not null;index"`
	ItemName         string            `gorm:"type:varchar(200);not null"`
	Type             DiscrepancyType   `gorm:"type:varchar(20);not null"`
	OrderedQuantity  int64             `gorm:"not null"`
	ReceivedQuantity int64             `gorm:"not null"`
	Note             string            `gorm:"type:text"`
	Status           DiscrepancyStatus `gorm:"type:varchar(30);not null;default:'OPEN'"`
	ResolutionNote   string            `gorm:"type:text"`
	ResolvedAt       *time.Time
}

// TableName returns the table name for GORM
func (DiscrepancyRecord) TableName() string {
	return "discrepancy_records"
}

// NewDiscrepancyRecord creates a new OPEN discrepancy record
func NewDiscrepancyRecord(practiceID, receiptID uuid.UUID, orderID *uuid.UUID, itemID uuid.UUID, itemName string, dtype DiscrepancyType, ordered, received int64, note string) (*DiscrepancyRecord, error) {
	if receiptID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Receipt ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !dtype.IsValid() || dtype == DiscrepancyNone || dtype == DiscrepancyPendingBackorder {
		return nil, shared.NewDomainError("INVALID_DISCREPANCY_TYPE", fmt.Sprintf("Cannot log a discrepancy of type %s", dtype))
	}
	if ordered < 0 || received < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}

	return &DiscrepancyRecord{
		PracticeAggregateRoot: shared.NewPracticeAggregateRoot(practiceID),
		ReceiptID:             receiptID,
		OrderID:               orderID,
		ItemID:                itemID,
		ItemName:              itemName,
		Type:                  dtype,
		OrderedQuantity:       ordered,
		ReceivedQuantity:      received,
		Note:                  note,
		Status:                DiscrepancyStatusOpen,
	}, nil
}

// AppendNote appends a timestamped line to the note history.
// Existing notes are never rewritten.
func (d *DiscrepancyRecord) AppendNote(note string) error {
	if note == "" {
		return shared.NewDomainError("INVALID_NOTE", "Note cannot be empty")
	}
	entry := fmt.Sprintf("[%s] %s", time.Now().Format(time.RFC3339), note)
	if d.Note == "" {
		d.Note = entry
	} else {
		d.Note = d.Note + "\n" + entry
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// Resolve closes the record as handled
func (d *DiscrepancyRecord) Resolve(resolutionNote string) error {
	if d.Status != DiscrepancyStatusOpen && d.Status != DiscrepancyStatusNeedsSupplierCorrection {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot resolve discrepancy in %s status", d.Status))
	}
	if resolutionNote == "" {
		return shared.NewDomainError("INVALID_NOTE", "Resolution note is required")
	}

	now := time.Now()
	d.Status = DiscrepancyStatusResolved
	d.ResolutionNote = resolutionNote
	d.ResolvedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	return nil
}

// RequireSupplierCorrection flags the record for follow-up with the supplier
func (d *DiscrepancyRecord) RequireSupplierCorrection(note string) error {
	if d.Status != DiscrepancyStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot request supplier correction for discrepancy in %s status", d.Status))
	}
	if note == "" {
		return shared.NewDomainError("INVALID_NOTE", "A note explaining the required correction is required")
	}

	d.Status = DiscrepancyStatusNeedsSupplierCorrection
	d.ResolutionNote = note
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// IsOpen returns true while the record awaits operator action
func (d *DiscrepancyRecord) IsOpen() bool {
	return d.Status == DiscrepancyStatusOpen
}
