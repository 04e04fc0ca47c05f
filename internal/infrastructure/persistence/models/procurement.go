package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praxis/backend/internal/domain/procurement"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	PracticeAggregateModel
	ReferenceCode string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_practice_reference,priority:2"`
	SupplierID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	SupplierName  string                  `gorm:"type:varchar(200);not null"`
	Lines         []OrderLineModel        `gorm:"foreignKey:OrderID;references:ID"`
	Status        procurement.OrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Notes         string                  `gorm:"type:text"`
	SentAt        *time.Time              `gorm:"index"`
	ExpectedAt    *time.Time
	ReceivedAt    *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *procurement.Order {
	order := &procurement.Order{
		PracticeAggregateRoot: m.ToDomainPracticeAggregateRoot(),
		ReferenceCode:         m.ReferenceCode,
		SupplierID:            m.SupplierID,
		SupplierName:          m.SupplierName,
		Status:                m.Status,
		Notes:                 m.Notes,
		SentAt:                m.SentAt,
		ExpectedAt:            m.ExpectedAt,
		ReceivedAt:            m.ReceivedAt,
		CancelledAt:           m.CancelledAt,
		CancelReason:          m.CancelReason,
		Lines:                 make([]procurement.OrderLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		order.Lines[i] = *line.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *procurement.Order) {
	m.FromDomainPracticeAggregateRoot(o.PracticeAggregateRoot)
	m.ReferenceCode = o.ReferenceCode
	m.SupplierID = o.SupplierID
	m.SupplierName = o.SupplierName
	m.Status = o.Status
	m.Notes = o.Notes
	m.SentAt = o.SentAt
	m.ExpectedAt = o.ExpectedAt
	m.ReceivedAt = o.ReceivedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		m.Lines[i] = *OrderLineModelFromDomain(&line)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *procurement.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for the OrderLine entity.
type OrderLineModel struct {
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
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine entity.
func (m *OrderLineModel) ToDomain() *procurement.OrderLine {
	return &procurement.OrderLine{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ItemID:    m.ItemID,
		ItemName:  m.ItemName,
		Unit:      m.Unit,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderLine entity.
func (m *OrderLineModel) FromDomain(l *procurement.OrderLine) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.ItemID = l.ItemID
	m.ItemName = l.ItemName
	m.Unit = l.Unit
	m.Quantity = l.Quantity
	m.UnitPrice = l.UnitPrice
	m.Notes = l.Notes
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// OrderLineModelFromDomain creates a new persistence model from a domain OrderLine entity.
func OrderLineModelFromDomain(l *procurement.OrderLine) *OrderLineModel {
	m := &OrderLineModel{}
	m.FromDomain(l)
	return m
}

// GoodsReceiptModel is the persistence model for the GoodsReceipt aggregate root.
type GoodsReceiptModel struct {
	PracticeAggregateModel
	LocationID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	SupplierID *uuid.UUID                `gorm:"type:uuid;index"`
	OrderID    *uuid.UUID                `gorm:"type:uuid;index"`
	Lines      []ReceiptLineModel        `gorm:"foreignKey:ReceiptID;references:ID"`
	Status     procurement.ReceiptStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Notes      string                    `gorm:"type:text"`
	ReceivedAt *time.Time
}

// TableName returns the table name for GORM
func (GoodsReceiptModel) TableName() string {
	return "goods_receipts"
}

// ToDomain converts the persistence model to a domain GoodsReceipt entity.
func (m *GoodsReceiptModel) ToDomain() *procurement.GoodsReceipt {
	receipt := &procurement.GoodsReceipt{
		PracticeAggregateRoot: m.ToDomainPracticeAggregateRoot(),
		LocationID:            m.LocationID,
		SupplierID:            m.SupplierID,
		OrderID:               m.OrderID,
		Status:                m.Status,
		Notes:                 m.Notes,
		ReceivedAt:            m.ReceivedAt,
		Lines:                 make([]procurement.ReceiptLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		receipt.Lines[i] = *line.ToDomain()
	}
	return receipt
}

// FromDomain populates the persistence model from a domain GoodsReceipt entity.
func (m *GoodsReceiptModel) FromDomain(r *procurement.GoodsReceipt) {
	m.FromDomainPracticeAggregateRoot(r.PracticeAggregateRoot)
	m.LocationID = r.LocationID
	m.SupplierID = r.SupplierID
	m.OrderID = r.OrderID
	m.Status = r.Status
	m.Notes = r.Notes
	m.ReceivedAt = r.ReceivedAt
	m.Lines = make([]ReceiptLineModel, len(r.Lines))
	for i, line := range r.Lines {
		m.Lines[i] = *ReceiptLineModelFromDomain(&line)
	}
}

// GoodsReceiptModelFromDomain creates a new persistence model from a domain GoodsReceipt entity.
func GoodsReceiptModelFromDomain(r *procurement.GoodsReceipt) *GoodsReceiptModel {
	m := &GoodsReceiptModel{}
	m.FromDomain(r)
	return m
}

// ReceiptLineModel is the persistence model for the ReceiptLine entity.
type ReceiptLineModel struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primary_key"`
	ReceiptID     uuid.UUID                   `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID                   `gorm:"type:uuid;not null"`
	ItemName      string                      `gorm:"type:varchar(200);not null"`
	Unit          string                      `gorm:"type:varchar(20);not null"`
	Quantity      int64                       `gorm:"not null"`
	BatchNumber   string                      `gorm:"type:varchar(128)"`
	ExpiryDate    *time.Time                  `gorm:""`
	Notes         string                      `gorm:"type:varchar(256)"`
	Discrepancy   procurement.DiscrepancyType `gorm:"type:varchar(20);not null;default:'NONE'"`
	IsBackorder   bool                        `gorm:"not null;default:false"`
	SourceBarcode string                      `gorm:"type:varchar(128)"`
	CreatedAt     time.Time                   `gorm:"not null"`
	UpdatedAt     time.Time                   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceiptLineModel) TableName() string {
	return "receipt_lines"
}

// ToDomain converts the persistence model to a domain ReceiptLine entity.
func (m *ReceiptLineModel) ToDomain() *procurement.ReceiptLine {
	return &procurement.ReceiptLine{
		ID:            m.ID,
		ReceiptID:     m.ReceiptID,
		ItemID:        m.ItemID,
		ItemName:      m.ItemName,
		Unit:          m.Unit,
		Quantity:      m.Quantity,
		BatchNumber:   m.BatchNumber,
		ExpiryDate:    m.ExpiryDate,
		Notes:         m.Notes,
		Discrepancy:   m.Discrepancy,
		IsBackorder:   m.IsBackorder,
		SourceBarcode: m.SourceBarcode,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ReceiptLine entity.
func (m *ReceiptLineModel) FromDomain(l *procurement.ReceiptLine) {
	m.ID = l.ID
	m.ReceiptID = l.ReceiptID
	m.ItemID = l.ItemID
	m.ItemName = l.ItemName
	m.Unit = l.Unit
	m.Quantity = l.Quantity
	m.BatchNumber = l.BatchNumber
	m.ExpiryDate = l.ExpiryDate
	m.Notes = l.Notes
	m.Discrepancy = l.Discrepancy
	m.IsBackorder = l.IsBackorder
	m.SourceBarcode = l.SourceBarcode
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// ReceiptLineModelFromDomain creates a new persistence model from a domain ReceiptLine entity.
func ReceiptLineModelFromDomain(l *procurement.ReceiptLine) *ReceiptLineModel {
	m := &ReceiptLineModel{}
	m.FromDomain(l)
	return m
}

// DiscrepancyRecordModel is the persistence model for the DiscrepancyRecord aggregate root.
type DiscrepancyRecordModel struct {
	PracticeAggregateModel
	ReceiptID        uuid.UUID                     `gorm:"type:uuid;not null;index"`
	OrderID          *uuid.UUID                    `gorm:"type:uuid;index"`
	ItemID           uuid.UUID                     `gorm:"type:uuid;not null;index"`
	ItemName         string                        `gorm:"type:varchar(200);not null"`
	Type             procurement.DiscrepancyType   `gorm:"type:varchar(20);not null"`
	OrderedQuantity  int64                         `gorm:"not null"`
	ReceivedQuantity int64                         `gorm:"not null"`
	Note             string                        `gorm:"type:text"`
	Status           procurement.DiscrepancyStatus `gorm:"type:varchar(30);not null;default:'OPEN'"`
	ResolutionNote   string                        `gorm:"type:text"`
	ResolvedAt       *time.Time
}

// TableName returns the table name for GORM
func (DiscrepancyRecordModel) TableName() string {
	return "discrepancy_records"
}

// ToDomain converts the persistence model to a domain DiscrepancyRecord entity.
func (m *DiscrepancyRecordModel) ToDomain() *procurement.DiscrepancyRecord {
	return &procurement.DiscrepancyRecord{
		PracticeAggregateRoot: m.ToDomainPracticeAggregateRoot(),
		ReceiptID:             m.ReceiptID,
		OrderID:               m.OrderID,
		ItemID:                m.ItemID,
		ItemName:              m.ItemName,
		Type:                  m.Type,
		OrderedQuantity:       m.OrderedQuantity,
		ReceivedQuantity:      m.ReceivedQuantity,
		Note:                  m.Note,
		Status:                m.Status,
		ResolutionNote:        m.ResolutionNote,
		ResolvedAt:            m.ResolvedAt,
	}
}

// FromDomain populates the persistence model from a domain DiscrepancyRecord entity.
func (m *DiscrepancyRecordModel) FromDomain(d *procurement.DiscrepancyRecord) {
	m.FromDomainPracticeAggregateRoot(d.PracticeAggregateRoot)
	m.ReceiptID = d.ReceiptID
	m.OrderID = d.OrderID
	m.ItemID = d.ItemID
	m.ItemName = d.ItemName
	m.Type = d.Type
	m.OrderedQuantity = d.OrderedQuantity
	m.ReceivedQuantity = d.ReceivedQuantity
	m.Note = d.Note
	m.Status = d.Status
	m.ResolutionNote = d.ResolutionNote
	m.ResolvedAt = d.ResolvedAt
}

// DiscrepancyRecordModelFromDomain creates a new persistence model from a domain DiscrepancyRecord entity.
func DiscrepancyRecordModelFromDomain(d *procurement.DiscrepancyRecord) *DiscrepancyRecordModel {
	m := &DiscrepancyRecordModel{}
	m.FromDomain(d)
	return m
}
