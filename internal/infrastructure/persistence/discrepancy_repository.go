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

// GormDiscrepancyRepository implements DiscrepancyRepository using GORM
type GormDiscrepancyRepository struct {
	db *gorm.DB
}

// NewGormDiscrepancyRepository creates a new GormDiscrepancyRepository
func NewGormDiscrepancyRepository(db *gorm.DB) *GormDiscrepancyRepository {
	return &GormDiscrepancyRepository{db: db}
}

// FindByIDForPractice finds a discrepancy record by ID within a practice
func (r *GormDiscrepancyRepository) FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*procurement.DiscrepancyRecord, error) {
	var model models.DiscrepancyRecordModel
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

// FindAllForPractice finds all discrepancy records for a practice with filtering
func (r *GormDiscrepancyRepository) FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.DiscrepancyRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.DiscrepancyRecordModel{}).Where("practice_id = ?", practiceID)
	query = r.applyFilter(query, filter)

	var recordModels []models.DiscrepancyRecordModel
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDomainDiscrepancies(recordModels), nil
}

// FindByReceipt finds the discrepancy records logged against a receipt
func (r *GormDiscrepancyRepository) FindByReceipt(ctx context.Context, practiceID, receiptID uuid.UUID) ([]procurement.DiscrepancyRecord, error) {
	var recordModels []models.DiscrepancyRecordModel
	if err := r.db.WithContext(ctx).
		Where("practice_id = ? AND receipt_id = ?", practiceID, receiptID).
		Order("created_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDomainDiscrepancies(recordModels), nil
}

// FindOpenForPractice finds records awaiting operator action
func (r *GormDiscrepancyRepository) FindOpenForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.DiscrepancyRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.DiscrepancyRecordModel{}).
		Where("practice_id = ? AND status IN ?", practiceID, []procurement.DiscrepancyStatus{
			procurement.DiscrepancyStatusOpen,
			procurement.DiscrepancyStatusNeedsSupplierCorrection,
		})
	query = r.applyFilter(query, filter)

	var recordModels []models.DiscrepancyRecordModel
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDomainDiscrepancies(recordModels), nil
}

// Save creates or updates a discrepancy record
func (r *GormDiscrepancyRepository) Save(ctx context.Context, record *procurement.DiscrepancyRecord) error {
	model := models.DiscrepancyRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountForPractice counts discrepancy records for a practice
func (r *GormDiscrepancyRepository) CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DiscrepancyRecordModel{}).Where("practice_id = ?", practiceID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormDiscrepancyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, DiscrepancySortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDiscrepancyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("item_name ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "receipt_id":
			query = query.Where("receipt_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "item_id":
			query = query.Where("item_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
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

func toDomainDiscrepancies(recordModels []models.DiscrepancyRecordModel) []procurement.DiscrepancyRecord {
	records := make([]procurement.DiscrepancyRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records
}

// Ensure GormDiscrepancyRepository implements DiscrepancyRepository
var _ procurement.DiscrepancyRepository = (*GormDiscrepancyRepository)(nil)
