package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxis/backend/internal/domain/inventory"
	"github.com/praxis/backend/internal/domain/shared"
	"github.com/praxis/backend/internal/infrastructure/persistence/models"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByIDForPractice finds a stock item by ID within a practice
func (r *GormStockItemRepository) FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("practice_id = ? AND id = ?", practiceID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByItemAndLocation finds the stock item for an item at a location
func (r *GormStockItemRepository) FindByItemAndLocation(ctx context.Context, practiceID, itemID, locationID uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("practice_id = ? AND item_id = ? AND location_id = ?", practiceID, itemID, locationID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOrCreate finds the stock item for the combination, creating a zero
// record when none exists yet
func (r *GormStockItemRepository) FindOrCreate(ctx context.Context, practiceID, itemID, locationID uuid.UUID) (*inventory.StockItem, error) {
	item, err := r.FindByItemAndLocation(ctx, practiceID, itemID, locationID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err = inventory.NewStockItem(practiceID, itemID, locationID)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, item); err != nil {
		// Another request may have created the row concurrently
		if existing, findErr := r.FindByItemAndLocation(ctx, practiceID, itemID, locationID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return item, nil
}

// FindAllForPractice finds all stock items for a practice with filtering
func (r *GormStockItemRepository) FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	query := r.db.WithContext(ctx).Model(&models.StockItemModel{}).Where("practice_id = ?", practiceID)
	query = r.applyFilter(query, filter)

	var itemModels []models.StockItemModel
	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toDomainStockItems(itemModels), nil
}

// FindBelowReorderPoint finds stock items at or below their reorder threshold.
// Items with a zero threshold never alert.
func (r *GormStockItemRepository) FindBelowReorderPoint(ctx context.Context, practiceID uuid.UUID) ([]inventory.StockItem, error) {
	var itemModels []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("practice_id = ? AND reorder_point > 0 AND on_hand <= reorder_point", practiceID).
		Order("on_hand ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toDomainStockItems(itemModels), nil
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	model := models.StockItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. The aggregate has already
// incremented its version, so the update is guarded by the pre-mutation
// version; zero rows affected means a concurrent writer got there first.
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	item.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&models.StockItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"on_hand":       item.OnHand,
			"reorder_point": item.ReorderPoint,
			"version":       item.Version,
			"updated_at":    item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForPractice counts stock items for a practice
func (r *GormStockItemRepository) CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.StockItemModel{}).Where("practice_id = ?", practiceID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, StockItemSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "item_id":
			query = query.Where("item_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		}
	}
	return query
}

func toDomainStockItems(itemModels []models.StockItemModel) []inventory.StockItem {
	items := make([]inventory.StockItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)
