package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxis/backend/internal/domain/procurement"
	"github.com/praxis/backend/internal/domain/shared"
	"github.com/praxis/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForPractice finds an order by ID within a practice
func (r *GormOrderRepository) FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*procurement.Order, error) {
	var model models.OrderModel
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

// FindByReferenceCode finds an order by reference code for a practice
func (r *GormOrderRepository) FindByReferenceCode(ctx context.Context, practiceID uuid.UUID, referenceCode string) (*procurement.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("practice_id = ? AND reference_code = ?", practiceID, referenceCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForPractice finds all orders for a practice with filtering
func (r *GormOrderRepository) FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("practice_id = ?", practiceID)
	query = r.applyFilter(query, filter)

	var orderModels []models.OrderModel
	if err := query.Preload("Lines").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// FindBySupplier finds orders for a supplier
func (r *GormOrderRepository) FindBySupplier(ctx context.Context, practiceID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("practice_id = ? AND supplier_id = ?", practiceID, supplierID)
	query = r.applyFilter(query, filter)

	var orderModels []models.OrderModel
	if err := query.Preload("Lines").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// FindPendingReceipt finds orders awaiting deliveries (SENT or PARTIALLY_RECEIVED)
func (r *GormOrderRepository) FindPendingReceipt(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("practice_id = ? AND status IN ?", practiceID, []procurement.OrderStatus{
			procurement.OrderStatusSent,
			procurement.OrderStatusPartiallyReceived,
		})
	query = r.applyFilter(query, filter)

	var orderModels []models.OrderModel
	if err := query.Preload("Lines").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// Save creates or updates an order together with its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *procurement.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.OrderModelFromDomain(order)

		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			return err
		}
		return r.syncLines(tx, order)
	})
}

// SaveWithLock saves with optimistic locking. The aggregate has already
// incremented its version, so the update is guarded by the pre-mutation
// version; zero rows affected means a concurrent writer got there first.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *procurement.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.UpdatedAt = time.Now()

		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"supplier_id":    order.SupplierID,
				"supplier_name":  order.SupplierName,
				"status":         order.Status,
				"notes":          order.Notes,
				"sent_at":        order.SentAt,
				"expected_at":    order.ExpectedAt,
				"received_at":    order.ReceivedAt,
				"cancelled_at":   order.CancelledAt,
				"cancel_reason":  order.CancelReason,
				"version":        order.Version,
				"updated_at":     order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncLines(tx, order)
	})
}

// syncLines deletes removed lines and upserts the current ones
func (r *GormOrderRepository) syncLines(tx *gorm.DB, order *procurement.Order) error {
	currentLineIDs := make([]uuid.UUID, len(order.Lines))
	for i, line := range order.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentLineIDs).
			Delete(&models.OrderLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&models.OrderLineModel{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
		lineModel := models.OrderLineModelFromDomain(&order.Lines[i])
		if err := tx.Save(lineModel).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForPractice hard-deletes an order and its lines for a practice
func (r *GormOrderRepository) DeleteForPractice(ctx context.Context, practiceID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.OrderModel
		if err := tx.Where("practice_id = ? AND id = ?", practiceID, id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.OrderLineModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.OrderModel{}, "practice_id = ? AND id = ?", practiceID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForPractice counts orders for a practice with optional filters
func (r *GormOrderRepository) CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("practice_id = ?", practiceID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts orders by status for a practice
func (r *GormOrderRepository) CountByStatus(ctx context.Context, practiceID uuid.UUID, status procurement.OrderStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("practice_id = ? AND status = ?", practiceID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReferenceCode generates a unique order reference for a practice.
// Format: PO-YYYY-NNNNN (e.g., PO-2026-00001)
func (r *GormOrderRepository) GenerateReferenceCode(ctx context.Context, practiceID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var lastOrder models.OrderModel
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("practice_id = ? AND reference_code LIKE ?", practiceID, prefix+"%").
		Order("reference_code DESC").
		First(&lastOrder).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.ReferenceCode != "" {
		parts := strings.Split(lastOrder.ReferenceCode, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	referenceCode := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.existsByReferenceCode(ctx, practiceID, referenceCode)
	if err != nil {
		return "", err
	}
	for i := 0; exists && i < 100; i++ {
		nextNum++
		referenceCode = fmt.Sprintf("%s%05d", prefix, nextNum)
		exists, err = r.existsByReferenceCode(ctx, practiceID, referenceCode)
		if err != nil {
			return "", err
		}
	}

	return referenceCode, nil
}

func (r *GormOrderRepository) existsByReferenceCode(ctx context.Context, practiceID uuid.UUID, referenceCode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("practice_id = ? AND reference_code = ?", practiceID, referenceCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference_code ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
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

func toDomainOrders(orderModels []models.OrderModel) []procurement.Order {
	orders := make([]procurement.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ procurement.OrderRepository = (*GormOrderRepository)(nil)
