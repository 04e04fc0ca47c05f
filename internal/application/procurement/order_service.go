package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/procurement"
	"github.com/praxis/backend/internal/domain/shared"
)

// OrderService handles procurement order business operations
type OrderService struct {
	orderRepo      procurement.OrderRepository
	receiptRepo    procurement.GoodsReceiptRepository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo procurement.OrderRepository, receiptRepo procurement.GoodsReceiptRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		receiptRepo: receiptRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes all pending domain events from the order.
// Errors are logged by the event bus, not propagated.
func (s *OrderService) publishDomainEvents(ctx context.Context, order *procurement.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// Create creates a new procurement order in DRAFT status
func (s *OrderService) Create(ctx context.Context, practiceID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	referenceCode, err := s.orderRepo.GenerateReferenceCode(ctx, practiceID)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewOrder(practiceID, referenceCode, req.SupplierID, req.SupplierName)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		line, err := order.AddItem(item.ItemID, item.ItemName, item.Unit, item.Quantity, item.UnitPrice)
		if err != nil {
			return nil, err
		}
		if item.Notes != "" {
			line.Notes = item.Notes
		}
	}

	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}
	if req.ExpectedAt != nil {
		order.SetExpectedAt(req.ExpectedAt)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, practiceID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByReferenceCode retrieves an order by its reference code
func (s *OrderService) GetByReferenceCode(ctx context.Context, practiceID uuid.UUID, referenceCode string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByReferenceCode(ctx, practiceID, referenceCode)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, practiceID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	domainFilter := buildOrderFilter(filter)

	orders, err := s.orderRepo.FindAllForPractice(ctx, practiceID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForPractice(ctx, practiceID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses, total, nil
}

// ListPendingReceipt retrieves orders still awaiting deliveries
func (s *OrderService) ListPendingReceipt(ctx context.Context, practiceID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	domainFilter := buildOrderFilter(filter)

	orders, err := s.orderRepo.FindPendingReceipt(ctx, practiceID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses, int64(len(orders)), nil
}

// Update updates a draft order's header fields
func (s *OrderService) Update(ctx context.Context, practiceID, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot update a non-draft order")
	}

	if req.Notes != nil {
		order.SetNotes(*req.Notes)
	}
	if req.ExpectedAt != nil {
		order.SetExpectedAt(req.ExpectedAt)
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// AddItem adds a line to a draft order
func (s *OrderService) AddItem(ctx context.Context, practiceID, orderID uuid.UUID, req AddOrderItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}

	line, err := order.AddItem(req.ItemID, req.ItemName, req.Unit, req.Quantity, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		line.Notes = req.Notes
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateItem updates a line on a draft order
func (s *OrderService) UpdateItem(ctx context.Context, practiceID, orderID, itemID uuid.UUID, req UpdateOrderItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItem(itemID, req.Quantity, req.UnitPrice, req.Notes); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// RemoveItem removes a line from a draft order
func (s *OrderService) RemoveItem(ctx context.Context, practiceID, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Send dispatches a draft order to its supplier
func (s *OrderService) Send(ctx context.Context, practiceID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Send(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order before any goods have been received
func (s *OrderService) Cancel(ctx context.Context, practiceID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete hard-deletes a draft order
func (s *OrderService) Delete(ctx context.Context, practiceID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return err
	}
	if !order.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}

	return s.orderRepo.DeleteForPractice(ctx, practiceID, orderID)
}

// GetReceiptProgress returns the per-item receipt progress for an order,
// derived from its confirmed receipts.
func (s *OrderService) GetReceiptProgress(ctx context.Context, practiceID, orderID uuid.UUID) ([]ItemProgressResponse, error) {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}

	receipts, err := s.receiptRepo.FindConfirmedByOrder(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}

	progress := procurement.RemainingForOrder(order.Lines, receipts, nil)
	responses := make([]ItemProgressResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		p := progress[line.ItemID]
		responses = append(responses, ItemProgressResponse{
			ItemID:          line.ItemID,
			ItemName:        line.ItemName,
			Unit:            line.Unit,
			Ordered:         p.Ordered,
			AlreadyReceived: p.AlreadyReceived,
			Remaining:       p.Remaining,
		})
	}
	return responses, nil
}

// GetStatusSummary returns order counts per status for dashboard widgets
func (s *OrderService) GetStatusSummary(ctx context.Context, practiceID uuid.UUID) (*OrderStatusSummary, error) {
	summary := &OrderStatusSummary{}

	counts := []struct {
		status procurement.OrderStatus
		target *int64
	}{
		{procurement.OrderStatusDraft, &summary.Draft},
		{procurement.OrderStatusSent, &summary.Sent},
		{procurement.OrderStatusPartiallyReceived, &summary.PartiallyReceived},
		{procurement.OrderStatusReceived, &summary.Received},
		{procurement.OrderStatusCancelled, &summary.Cancelled},
	}

	for _, c := range counts {
		count, err := s.orderRepo.CountByStatus(ctx, practiceID, c.status)
		if err != nil {
			return nil, err
		}
		*c.target = count
		summary.Total += count
	}

	return summary, nil
}

// buildOrderFilter converts the API filter into a domain filter
func buildOrderFilter(filter OrderListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	return domainFilter
}
