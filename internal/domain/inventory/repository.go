package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/shared"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByIDForPractice finds a stock item by ID within a practice
	FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*StockItem, error)

	// FindByItemAndLocation finds the stock item for an item at a location
	FindByItemAndLocation(ctx context.Context, practiceID, itemID, locationID uuid.UUID) (*StockItem, error)

	// FindOrCreate finds the stock item for the combination, creating a zero
	// record when none exists yet
	FindOrCreate(ctx context.Context, practiceID, itemID, locationID uuid.UUID) (*StockItem, error)

	// FindAllForPractice finds all stock items for a practice with filtering
	FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindBelowReorderPoint finds stock items at or below their reorder threshold
	FindBelowReorderPoint(ctx context.Context, practiceID uuid.UUID) ([]StockItem, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, item *StockItem) error

	// CountForPractice counts stock items for a practice
	CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error)
}
