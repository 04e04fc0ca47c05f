package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxis/backend/internal/domain/procurement"
	"github.com/praxis/backend/internal/domain/shared"
	"github.com/praxis/backend/internal/infrastructure/persistence/models"
)

// GormGoodsReceiptRepository implements GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// FindByIDForPractice finds a receipt by ID within a practice
func (r *GormGoodsReceiptRepository) FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	var model models.GoodsReceiptModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("practice_id = ? AND id = ?", practiceID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForPractice finds all receipts for a practice with filtering
func (r *GormGoodsReceiptRepository) FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.GoodsReceipt, error) {
	query := r.db.WithContext(ctx).Model(&models.GoodsReceiptModel{}).Where("practice_id = ?", practiceID)
	query = r.applyFilter(query, filter)

	var receiptModels []models.GoodsReceiptModel
	if err := query.Preload("Lines").Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return toDomainReceipts(receiptModels), nil
}

// FindByOrder finds all receipts linked to an order
func (r *GormGoodsReceiptRepository) FindByOrder(ctx context.Context, practiceID, orderID uuid.UUID) ([]procurement.GoodsReceipt, error) {
	var receiptModels []models.GoodsReceiptModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("practice_id = ? AND order_id = ?", practiceID, orderID).
		Order("created_at ASC").
		Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return toDomainReceipts(receiptModels), nil
}

// FindConfirmedByOrder finds the CONFIRMED receipts linked to an order
func (r *GormGoodsReceiptRepository) FindConfirmedByOrder(ctx context.Context, practiceID, orderID uuid.UUID) ([]procurement.GoodsReceipt, error) {
	var receiptModels []models.GoodsReceiptModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("practice_id = ? AND order_id = ? AND status = ?", practiceID, orderID, procurement.ReceiptStatusConfirmed).
		Order("received_at ASC").
		Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return toDomainReceipts(receiptModels), nil
}

// Save creates or updates a receipt together with its lines
func (r *GormGoodsReceiptRepository) Save(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.GoodsReceiptModelFromDomain(receipt)

		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			return err
		}
		return r.syncLines(tx, receipt)
	})
}

// SaveWithLock saves with optimistic locking. The aggregate has already
// incremented its version, so the update is guarded by the pre-mutation
// version; zero rows affected means a concurrent writer got there first.
func (r *GormGoodsReceiptRepository) SaveWithLock(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		receipt.UpdatedAt = time.Now()

		result := tx.Model(&models.GoodsReceiptModel{}).
			Where("id = ? AND version = ?", receipt.ID, receipt.Version-1).
			Updates(map[string]interface{}{
				"location_id": receipt.LocationID,
				"supplier_id": receipt.SupplierID,
				"order_id":    receipt.OrderID,
				"status":      receipt.Status,
				"notes":       receipt.Notes,
				"received_at": receipt.ReceivedAt,
				"version":     receipt.Version,
				"updated_at":  receipt.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncLines(tx, receipt)
	})
}

// syncLines deletes removed lines and upserts the current ones
func (r *GormGoodsReceiptRepository) syncLines(tx *gorm.DB, receipt *procurement.GoodsReceipt) error {
	currentLineIDs := make([]uuid.UUID, len(receipt.Lines))
	for i, line := range receipt.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("receipt_id = ? AND id NOT IN ?", receipt.ID, currentLineIDs).
			Delete(&models.ReceiptLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("receipt_id = ?", receipt.ID).
			Delete(&models.ReceiptLineModel{}).Error; err != nil {
			return err
		}
	}

	for i := range receipt.Lines {
		receipt.Lines[i].ReceiptID = receipt.ID
		lineModel := models.ReceiptLineModelFromDomain(&receipt.Lines[i])
		if err := tx.Save(lineModel).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountForPractice counts receipts for a practice with optional filters
func (r *GormGoodsReceiptRepository) CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.GoodsReceiptModel{}).Where("practice_id = ?", practiceID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts receipts by status for a practice
func (r *GormGoodsReceiptRepository) CountByStatus(ctx context.Context, practiceID uuid.UUID, status procurement.ReceiptStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GoodsReceiptModel{}).
		Where("practice_id = ? AND status = ?", practiceID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormGoodsReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, ReceiptSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormGoodsReceiptRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

func toDomainReceipts(receiptModels []models.GoodsReceiptModel) []procurement.GoodsReceipt {
	receipts := make([]procurement.GoodsReceipt, len(receiptModels))
	for i, model := range receiptModels {
		receipts[i] = *model.ToDomain()
	}
	return receipts
}

// Ensure GormGoodsReceiptRepository implements GoodsReceiptRepository
var _ procurement.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)
