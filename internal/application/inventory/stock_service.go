package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/inventory"
	"github.com/praxis/backend/internal/domain/shared"
)

// StockService handles stock level queries and reorder point configuration.
// Stock increments themselves are owned by goods-receipt confirmation and
// are not exposed here.
type StockService struct {
	stockRepo inventory.StockItemRepository
}

// NewStockService creates a new StockService
func NewStockService(stockRepo inventory.StockItemRepository) *StockService {
	return &StockService{
		stockRepo: stockRepo,
	}
}

// GetByID retrieves a stock item by ID
func (s *StockService) GetByID(ctx context.Context, practiceID, stockItemID uuid.UUID) (*StockItemResponse, error) {
	item, err := s.stockRepo.FindByIDForPractice(ctx, practiceID, stockItemID)
	if err != nil {
		return nil, err
	}
	response := ToStockItemResponse(item)
	return &response, nil
}

// GetByItemAndLocation retrieves the stock record for an item at a location
func (s *StockService) GetByItemAndLocation(ctx context.Context, practiceID, itemID, locationID uuid.UUID) (*StockItemResponse, error) {
	item, err := s.stockRepo.FindByItemAndLocation(ctx, practiceID, itemID, locationID)
	if err != nil {
		return nil, err
	}
	response := ToStockItemResponse(item)
	return &response, nil
}

// List retrieves stock items with filtering and pagination
func (s *StockService) List(ctx context.Context, practiceID uuid.UUID, filter StockItemListFilter) ([]StockItemResponse, int64, error) {
	if filter.LowOnly {
		items, err := s.stockRepo.FindBelowReorderPoint(ctx, practiceID)
		if err != nil {
			return nil, 0, err
		}
		responses := make([]StockItemResponse, len(items))
		for i := range items {
			responses[i] = ToStockItemResponse(&items[i])
		}
		return responses, int64(len(items)), nil
	}

	domainFilter := buildStockFilter(filter)

	items, err := s.stockRepo.FindAllForPractice(ctx, practiceID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.stockRepo.CountForPractice(ctx, practiceID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockItemResponse, len(items))
	for i := range items {
		responses[i] = ToStockItemResponse(&items[i])
	}
	return responses, total, nil
}

// ListBelowReorderPoint retrieves items needing replenishment
func (s *StockService) ListBelowReorderPoint(ctx context.Context, practiceID uuid.UUID) ([]StockItemResponse, error) {
	items, err := s.stockRepo.FindBelowReorderPoint(ctx, practiceID)
	if err != nil {
		return nil, err
	}

	responses := make([]StockItemResponse, len(items))
	for i := range items {
		responses[i] = ToStockItemResponse(&items[i])
	}
	return responses, nil
}

// SetReorderPoint sets the low-stock threshold for an item at a location,
// creating the zero stock record when none exists yet
func (s *StockService) SetReorderPoint(ctx context.Context, practiceID, itemID, locationID uuid.UUID, req SetReorderPointRequest) (*StockItemResponse, error) {
	item, err := s.stockRepo.FindOrCreate(ctx, practiceID, itemID, locationID)
	if err != nil {
		return nil, err
	}

	if err := item.SetReorderPoint(req.Threshold); err != nil {
		return nil, err
	}

	if err := s.stockRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	response := ToStockItemResponse(item)
	return &response, nil
}

// buildStockFilter converts the API filter into a domain filter
func buildStockFilter(filter StockItemListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.ItemID != nil {
		domainFilter.Filters["item_id"] = *filter.ItemID
	}
	if filter.LocationID != nil {
		domainFilter.Filters["location_id"] = *filter.LocationID
	}

	return domainFilter
}
