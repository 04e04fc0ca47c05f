package procurement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/praxis/backend/internal/domain/procurement"
	"github.com/praxis/backend/internal/domain/shared"
)

var (
	testPracticeID   = uuid.New()
	testSupplierID   = uuid.New()
	testSupplierName = "Vet Supplies GmbH"
)

func newDraftOrder(t *testing.T) *procurement.Order {
	order, err := procurement.NewOrder(testPracticeID, "PO-2026-00042", testSupplierID, testSupplierName)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func newSentOrder(t *testing.T, quantities ...int64) *procurement.Order {
	order := newDraftOrder(t)
	for _, qty := range quantities {
		_, err := order.AddItem(uuid.New(), "Item", "pcs", qty, nil)
		require.NoError(t, err)
	}
	require.NoError(t, order.Send())
	order.ClearDomainEvents()
	return order
}

func TestOrderService_Create(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	receiptRepo := new(MockGoodsReceiptRepository)
	service := NewOrderService(orderRepo, receiptRepo)

	orderRepo.On("GenerateReferenceCode", mock.Anything, testPracticeID).Return("PO-2026-00043", nil)
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.Order")).Return(nil)

	price := decimal.NewFromFloat(4.20)
	resp, err := service.Create(context.Background(), testPracticeID, CreateOrderRequest{
		SupplierID:   testSupplierID,
		SupplierName: testSupplierName,
		Notes:        "monthly restock",
		Items: []CreateOrderItemInput{
			{ItemID: uuid.New(), ItemName: "Syringes 5ml", Unit: "box", Quantity: 10, UnitPrice: &price},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "PO-2026-00043", resp.ReferenceCode)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.Equal(t, 1, resp.LineCount)
	assert.Equal(t, "monthly restock", resp.Notes)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_Create_InvalidQuantity(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	orderRepo.On("GenerateReferenceCode", mock.Anything, testPracticeID).Return("PO-2026-00044", nil)

	_, err := service.Create(context.Background(), testPracticeID, CreateOrderRequest{
		SupplierID:   testSupplierID,
		SupplierName: testSupplierName,
		Items: []CreateOrderItemInput{
			{ItemID: uuid.New(), ItemName: "Syringes 5ml", Unit: "box", Quantity: 0},
		},
	})

	require.Error(t, err)
	orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	orderID := uuid.New()
	orderRepo.On("FindByIDForPractice", mock.Anything, testPracticeID, orderID).
		Return(nil, shared.ErrNotFound)

	_, err := service.GetByID(context.Background(), testPracticeID, orderID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderService_Send(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	order := newDraftOrder(t)
	_, err := order.AddItem(uuid.New(), "Gloves", "box", 5, nil)
	require.NoError(t, err)

	orderRepo.On("FindByIDForPractice", mock.Anything, testPracticeID, order.ID).Return(order, nil)
	orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

	resp, err := service.Send(context.Background(), testPracticeID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "SENT", resp.Status)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_Send_EmptyOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	order := newDraftOrder(t)
	orderRepo.On("FindByIDForPractice", mock.Anything, testPracticeID, order.ID).Return(order, nil)

	_, err := service.Send(context.Background(), testPracticeID, order.ID)
	require.Error(t, err)
	orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestOrderService_AddItem_ConcurrencyConflict(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	order := newDraftOrder(t)
	orderRepo.On("FindByIDForPractice", mock.Anything, testPracticeID, order.ID).Return(order, nil)
	orderRepo.On("SaveWithLock", mock.Anything, order).Return(shared.ErrConcurrencyConflict)

	_, err := service.AddItem(context.Background(), testPracticeID, order.ID, AddOrderItemRequest{
		ItemID:   uuid.New(),
		ItemName: "Bandages",
		Unit:     "roll",
		Quantity: 3,
	})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestOrderService_Cancel(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	order := newSentOrder(t, 10)
	orderRepo.On("FindByIDForPractice", mock.Anything, testPracticeID, order.ID).Return(order, nil)
	orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

	resp, err := service.Cancel(context.Background(), testPracticeID, order.ID, CancelOrderRequest{Reason: "supplier out of business"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Equal(t, "supplier out of business", resp.CancelReason)
}

func TestOrderService_Delete_OnlyDraft(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	order := newSentOrder(t, 10)
	orderRepo.On("FindByIDForPractice", mock.Anything, testPracticeID, order.ID).Return(order, nil)

	err := service.Delete(context.Background(), testPracticeID, order.ID)
	require.Error(t, err)
	orderRepo.AssertNotCalled(t, "DeleteForPractice", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Delete(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	order := newDraftOrder(t)
	orderRepo.On("FindByIDForPractice", mock.Anything, testPracticeID, order.ID).Return(order, nil)
	orderRepo.On("DeleteForPractice", mock.Anything, testPracticeID, order.ID).Return(nil)

	require.NoError(t, service.Delete(context.Background(), testPracticeID, order.ID))
	orderRepo.AssertExpectations(t)
}

func TestOrderService_GetReceiptProgress(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	receiptRepo := new(MockGoodsReceiptRepository)
	service := NewOrderService(orderRepo, receiptRepo)

	order := newDraftOrder(t)
	itemID := uuid.New()
	_, err := order.AddItem(itemID, "Catheters", "pcs", 10, nil)
	require.NoError(t, err)
	require.NoError(t, order.Send())

	receipt, err := procurement.NewGoodsReceipt(testPracticeID, uuid.New(), &order.ID, &testSupplierID)
	require.NoError(t, err)
	_, err = receipt.AddLine(itemID, "Catheters", "pcs", 6, "", nil, "", "")
	require.NoError(t, err)
	_, err = receipt.Confirm(map[uuid.UUID]int64{itemID: 10}, nil)
	require.NoError(t, err)

	orderRepo.On("FindByIDForPractice", mock.Anything, testPracticeID, order.ID).Return(order, nil)
	receiptRepo.On("FindConfirmedByOrder", mock.Anything, testPracticeID, order.ID).
		Return([]procurement.GoodsReceipt{*receipt}, nil)

	progress, err := service.GetReceiptProgress(context.Background(), testPracticeID, order.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, int64(10), progress[0].Ordered)
	assert.Equal(t, int64(6), progress[0].AlreadyReceived)
	assert.Equal(t, int64(4), progress[0].Remaining)
}

func TestOrderService_GetStatusSummary(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	orderRepo.On("CountByStatus", mock.Anything, testPracticeID, procurement.OrderStatusDraft).Return(int64(2), nil)
	orderRepo.On("CountByStatus", mock.Anything, testPracticeID, procurement.OrderStatusSent).Return(int64(3), nil)
	orderRepo.On("CountByStatus", mock.Anything, testPracticeID, procurement.OrderStatusPartiallyReceived).Return(int64(1), nil)
	orderRepo.On("CountByStatus", mock.Anything, testPracticeID, procurement.OrderStatusReceived).Return(int64(7), nil)
	orderRepo.On("CountByStatus", mock.Anything, testPracticeID, procurement.OrderStatusCancelled).Return(int64(1), nil)

	summary, err := service.GetStatusSummary(context.Background(), testPracticeID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Sent)
	assert.Equal(t, int64(14), summary.Total)
}

func TestOrderService_List_PropagatesRepositoryError(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo, new(MockGoodsReceiptRepository))

	repoErr := errors.New("connection refused")
	orderRepo.On("FindAllForPractice", mock.Anything, testPracticeID, mock.AnythingOfType("shared.Filter")).
		Return(nil, repoErr)

	_, _, err := service.List(context.Background(), testPracticeID, OrderListFilter{})
	assert.ErrorIs(t, err, repoErr)
}
