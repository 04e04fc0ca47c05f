package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/praxis/backend/internal/domain/inventory"
	"github.com/praxis/backend/internal/domain/procurement"
	"github.com/praxis/backend/internal/domain/shared"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*procurement.Order, error) {
	args := m.Called(ctx, practiceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByReferenceCode(ctx context.Context, practiceID uuid.UUID, referenceCode string) (*procurement.Order, error) {
	args := m.Called(ctx, practiceID, referenceCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.Order, error) {
	args := m.Called(ctx, practiceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Order), args.Error(1)
}

func (m *MockOrderRepository) FindBySupplier(ctx context.Context, practiceID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.Order, error) {
	args := m.Called(ctx, practiceID, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPendingReceipt(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.Order, error) {
	args := m.Called(ctx, practiceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *procurement.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *procurement.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteForPractice(ctx context.Context, practiceID, id uuid.UUID) error {
	args := m.Called(ctx, practiceID, id)
	return args.Error(0)
}

func (m *MockOrderRepository) CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, practiceID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, practiceID uuid.UUID, status procurement.OrderStatus) (int64, error) {
	args := m.Called(ctx, practiceID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GenerateReferenceCode(ctx context.Context, practiceID uuid.UUID) (string, error) {
	args := m.Called(ctx, practiceID)
	return args.String(0), args.Error(1)
}

// MockGoodsReceiptRepository is a mock implementation of GoodsReceiptRepository
type MockGoodsReceiptRepository struct {
	mock.Mock
}

func (m *MockGoodsReceiptRepository) FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	args := m.Called(ctx, practiceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.GoodsReceipt, error) {
	args := m.Called(ctx, practiceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindByOrder(ctx context.Context, practiceID, orderID uuid.UUID) ([]procurement.GoodsReceipt, error) {
	args := m.Called(ctx, practiceID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindConfirmedByOrder(ctx context.Context, practiceID, orderID uuid.UUID) ([]procurement.GoodsReceipt, error) {
	args := m.Called(ctx, practiceID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) Save(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockGoodsReceiptRepository) SaveWithLock(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockGoodsReceiptRepository) CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, practiceID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGoodsReceiptRepository) CountByStatus(ctx context.Context, practiceID uuid.UUID, status procurement.ReceiptStatus) (int64, error) {
	args := m.Called(ctx, practiceID, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockDiscrepancyRepository is a mock implementation of DiscrepancyRepository
type MockDiscrepancyRepository struct {
	mock.Mock
}

func (m *MockDiscrepancyRepository) FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*procurement.DiscrepancyRecord, error) {
	args := m.Called(ctx, practiceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.DiscrepancyRecord), args.Error(1)
}

func (m *MockDiscrepancyRepository) FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.DiscrepancyRecord, error) {
	args := m.Called(ctx, practiceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.DiscrepancyRecord), args.Error(1)
}

func (m *MockDiscrepancyRepository) FindByReceipt(ctx context.Context, practiceID, receiptID uuid.UUID) ([]procurement.DiscrepancyRecord, error) {
	args := m.Called(ctx, practiceID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.DiscrepancyRecord), args.Error(1)
}

func (m *MockDiscrepancyRepository) FindOpenForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]procurement.DiscrepancyRecord, error) {
	args := m.Called(ctx, practiceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.DiscrepancyRecord), args.Error(1)
}

func (m *MockDiscrepancyRepository) Save(ctx context.Context, record *procurement.DiscrepancyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDiscrepancyRepository) CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, practiceID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStockItemRepository is a mock implementation of StockItemRepository
type MockStockItemRepository struct {
	mock.Mock
}

func (m *MockStockItemRepository) FindByIDForPractice(ctx context.Context, practiceID, id uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, practiceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindByItemAndLocation(ctx context.Context, practiceID, itemID, locationID uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, practiceID, itemID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindOrCreate(ctx context.Context, practiceID, itemID, locationID uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, practiceID, itemID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindAllForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) ([]inventory.StockItem, error) {
	args := m.Called(ctx, practiceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) FindBelowReorderPoint(ctx context.Context, practiceID uuid.UUID) ([]inventory.StockItem, error) {
	args := m.Called(ctx, practiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) CountForPractice(ctx context.Context, practiceID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, practiceID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, practiceID uuid.UUID, key string, receiptID uuid.UUID) (bool, uuid.UUID, error) {
	args := m.Called(ctx, practiceID, key, receiptID)
	return args.Bool(0), args.Get(1).(uuid.UUID), args.Error(2)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, practiceID uuid.UUID, key string) error {
	args := m.Called(ctx, practiceID, key)
	return args.Error(0)
}

var _ procurement.OrderRepository = (*MockOrderRepository)(nil)
var _ procurement.GoodsReceiptRepository = (*MockGoodsReceiptRepository)(nil)
var _ procurement.DiscrepancyRepository = (*MockDiscrepancyRepository)(nil)
var _ inventory.StockItemRepository = (*MockStockItemRepository)(nil)
var _ shared.EventPublisher = (*MockEventPublisher)(nil)
var _ IdempotencyStore = (*MockIdempotencyStore)(nil)
