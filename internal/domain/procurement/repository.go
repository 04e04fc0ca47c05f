package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForPractice finds an order by ID within a practice
	FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*Order, error)

	// FindByReferenceCode finds an order by reference code for a practice
	FindByReferenceCode(ctx context.Context, practiceID uuid.UUID, referenceCode string) (*Order, error)

	// FindAllForPractice finds all orders for a practice with filtering
	FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindBySupplier finds orders for a supplier
	FindBySupplier(ctx context.Context, practiceID, supplierID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindPendingReceipt finds orders awaiting deliveries (SENT or PARTIALLY_RECEIVED)
	FindPendingReceipt(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// DeleteForPractice hard-deletes an order and its lines for a practice
	DeleteForPractice(ctx context.Context, practiceID, id uuid.UUID) error

	// CountForPractice counts orders for a practice with optional filters
	CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts orders by status for a practice
	CountByStatus(ctx context.Context, practiceID uuid.UUID, status OrderStatus) (int64, error)

	// GenerateReferenceCode generates a unique order reference for a practice
	GenerateReferenceCode(ctx context.Context, practiceID uuid.UUID) (string, error)
}

// GoodsReceiptRepository defines the interface for goods receipt persistence
type GoodsReceiptRepository interface {
	// FindByIDForPractice finds a receipt by ID within a practice
	FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*GoodsReceipt, error)

	// FindAllForPractice finds all receipts for a practice with filtering
	FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]GoodsReceipt, error)

	// FindByOrder finds all receipts linked to an order
	FindByOrder(ctx context.Context, practiceID, orderID uuid.UUID) ([]GoodsReceipt, error)

	// FindConfirmedByOrder finds the CONFIRMED receipts linked to an order
	FindConfirmedByOrder(ctx context.Context, practiceID, orderID uuid.UUID) ([]GoodsReceipt, error)

	// Save creates or updates a receipt
	Save(ctx context.Context, receipt *GoodsReceipt) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, receipt *GoodsReceipt) error

	// CountForPractice counts receipts for a practice with optional filters
	CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts receipts by status for a practice
	CountByStatus(ctx context.Context, practiceID uuid.UUID, status ReceiptStatus) (int64, error)
}

// DiscrepancyRepository defines the interface for discrepancy record persistence
type DiscrepancyRepository interface {
	// FindByIDForPractice finds a discrepancy record by ID within a practice
	FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*DiscrepancyRecord, error)

	// FindAllForPractice finds all discrepancy records for a practice with filtering
	FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]DiscrepancyRecord, error)

	// FindByReceipt finds the discrepancy records logged against a receipt
	FindByReceipt(ctx context.Context, practiceID, receiptID uuid.UUID) ([]DiscrepancyRecord, error)

	// FindOpenForPractice finds records awaiting operator action
	FindOpenForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]DiscrepancyRecord, error)

	// Save creates or updates a discrepancy record
	Save(ctx context.Context, record *DiscrepancyRecord) error

	// CountForPractice counts discrepancy records for a practice
	CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error)
}
