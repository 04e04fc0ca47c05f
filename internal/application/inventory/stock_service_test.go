package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/praxis/backend/internal/domain/inventory"
	"github.com/praxis/backend/internal/domain/shared"
)

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

var _ inventory.StockItemRepository = (*MockStockItemRepository)(nil)

var testPracticeID = uuid.New()

func newTestStockItem(t *testing.T) *inventory.StockItem {
	item, err := inventory.NewStockItem(testPracticeID, uuid.New(), uuid.New())
	require.NoError(t, err)
	return item
}

func TestStockService_SetReorderPoint(t *testing.T) {
	repo := new(MockStockItemRepository)
	service := NewStockService(repo)

	item := newTestStockItem(t)
	repo.On("FindOrCreate", mock.Anything, testPracticeID, item.ItemID, item.LocationID).Return(item, nil)
	repo.On("SaveWithLock", mock.Anything, item).Return(nil)

	resp, err := service.SetReorderPoint(context.Background(), testPracticeID, item.ItemID, item.LocationID, SetReorderPointRequest{
		Threshold: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), resp.ReorderPoint)
	assert.True(t, resp.IsLow)
	repo.AssertExpectations(t)
}

func TestStockService_SetReorderPoint_Negative(t *testing.T) {
	repo := new(MockStockItemRepository)
	service := NewStockService(repo)

	item := newTestStockItem(t)
	repo.On("FindOrCreate", mock.Anything, testPracticeID, item.ItemID, item.LocationID).Return(item, nil)

	_, err := service.SetReorderPoint(context.Background(), testPracticeID, item.ItemID, item.LocationID, SetReorderPointRequest{
		Threshold: -1,
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestStockService_GetByItemAndLocation(t *testing.T) {
	repo := new(MockStockItemRepository)
	service := NewStockService(repo)

	item := newTestStockItem(t)
	item.OnHand = 42
	repo.On("FindByItemAndLocation", mock.Anything, testPracticeID, item.ItemID, item.LocationID).Return(item, nil)

	resp, err := service.GetByItemAndLocation(context.Background(), testPracticeID, item.ItemID, item.LocationID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.OnHand)
	assert.False(t, resp.IsLow)
}

func TestStockService_List_LowOnly(t *testing.T) {
	repo := new(MockStockItemRepository)
	service := NewStockService(repo)

	item := newTestStockItem(t)
	item.OnHand = 2
	item.ReorderPoint = 5
	repo.On("FindBelowReorderPoint", mock.Anything, testPracticeID).
		Return([]inventory.StockItem{*item}, nil)

	responses, total, err := service.List(context.Background(), testPracticeID, StockItemListFilter{LowOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, responses, 1)
	assert.True(t, responses[0].IsLow)
	repo.AssertNotCalled(t, "FindAllForPractice", mock.Anything, mock.Anything, mock.Anything)
}
