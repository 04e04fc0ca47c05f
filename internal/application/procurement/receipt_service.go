package procurement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/praxis/backend/internal/domain/inventory"
	"github.com/praxis/backend/internal/domain/procurement"
	"github.com/praxis/backend/internal/domain/shared"
)

const tracerName = "praxis/procurement"

// IdempotencyStore deduplicates retried receipt confirmations. A key is
// scoped to a practice; Reserve returns false when the key was already
// used, together with the receipt it was used for.
type IdempotencyStore interface {
	// Reserve records the key for the receipt. Returns false and the
	// previously stored receipt ID when the key was already reserved.
	Reserve(ctx context.Context, practiceID uuid.UUID, key string, receiptID uuid.UUID) (bool, uuid.UUID, error)
	// Release frees a reservation after a failed confirmation so the
	// client can retry with the same key.
	Release(ctx context.Context, practiceID uuid.UUID, key string) error
}

// GoodsReceiptService handles goods receipt operations, including the
// reconciliation that runs at confirmation time: quantity comparison against
// the linked order, discrepancy logging, stock updates and order status
// recomputation.
type GoodsReceiptService struct {
	receiptRepo     procurement.GoodsReceiptRepository
	orderRepo       procurement.OrderRepository
	discrepancyRepo procurement.DiscrepancyRepository
	stockRepo       inventory.StockItemRepository
	txScope         TransactionScope
	idempotency     IdempotencyStore
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewGoodsReceiptService creates a new GoodsReceiptService
func NewGoodsReceiptService(
	receiptRepo procurement.GoodsReceiptRepository,
	orderRepo procurement.OrderRepository,
	discrepancyRepo procurement.DiscrepancyRepository,
	stockRepo inventory.StockItemRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *GoodsReceiptService {
	return &GoodsReceiptService{
		receiptRepo:     receiptRepo,
		orderRepo:       orderRepo,
		discrepancyRepo: discrepancyRepo,
		stockRepo:       stockRepo,
		txScope:         txScope,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *GoodsReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore sets the store used to deduplicate confirmations
func (s *GoodsReceiptService) SetIdempotencyStore(store IdempotencyStore) {
	s.idempotency = store
}

func (s *GoodsReceiptService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// Create opens a new draft receipt, optionally linked to an order.
// For order-linked receipts the order must be in a receivable status.
func (s *GoodsReceiptService) Create(ctx context.Context, practiceID uuid.UUID, req CreateReceiptRequest) (*ReceiptResponse, error) {
	supplierID := req.SupplierID

	if req.OrderID != nil {
		order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, *req.OrderID)
		if err != nil {
			return nil, err
		}
		if !order.Status.CanReceive() {
			return nil, shared.NewDomainError("INVALID_STATE", "Cannot receive goods against an order in "+order.Status.String()+" status")
		}
		if supplierID == nil {
			supplierID = &order.SupplierID
		}
	}

	receipt, err := procurement.NewGoodsReceipt(practiceID, req.LocationID, req.OrderID, supplierID)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		receipt.Notes = req.Notes
	}

	for _, line := range req.Lines {
		if _, err := receipt.AddLine(line.ItemID, line.ItemName, line.Unit, line.Quantity, line.BatchNumber, line.ExpiryDate, line.Notes, line.SourceBarcode); err != nil {
			return nil, err
		}
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// CreateFromOrder opens a draft receipt pre-filled with the order's still
// outstanding quantities, so the operator only corrects what differs.
func (s *GoodsReceiptService) CreateFromOrder(ctx context.Context, practiceID, orderID, locationID uuid.UUID) (*ReceiptResponse, error) {
	order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot receive goods against an order in "+order.Status.String()+" status")
	}

	confirmed, err := s.receiptRepo.FindConfirmedByOrder(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}
	progress := procurement.RemainingForOrder(order.Lines, confirmed, nil)

	receipt, err := procurement.NewGoodsReceipt(practiceID, locationID, &orderID, &order.SupplierID)
	if err != nil {
		return nil, err
	}

	for _, line := range order.Lines {
		remaining := progress[line.ItemID].Remaining
		if remaining <= 0 {
			continue
		}
		if _, err := receipt.AddLine(line.ItemID, line.ItemName, line.Unit, remaining, "", nil, "", ""); err != nil {
			return nil, err
		}
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// GetByID retrieves a receipt by ID
func (s *GoodsReceiptService) GetByID(ctx context.Context, practiceID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForPractice(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// List retrieves receipts with filtering and pagination
func (s *GoodsReceiptService) List(ctx context.Context, practiceID uuid.UUID, filter ReceiptListFilter) ([]ReceiptResponse, int64, error) {
	domainFilter := buildReceiptFilter(filter)

	receipts, err := s.receiptRepo.FindAllForPractice(ctx, practiceID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.receiptRepo.CountForPractice(ctx, practiceID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		responses[i] = ToReceiptResponse(&receipts[i])
	}
	return responses, total, nil
}

// ListByOrder retrieves all receipts linked to an order
func (s *GoodsReceiptService) ListByOrder(ctx context.Context, practiceID, orderID uuid.UUID) ([]ReceiptResponse, error) {
	receipts, err := s.receiptRepo.FindByOrder(ctx, practiceID, orderID)
	if err != nil {
		return nil, err
	}

	responses := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		responses[i] = ToReceiptResponse(&receipts[i])
	}
	return responses, nil
}

// AddLine adds a line to a draft receipt, merging with an existing line for
// the same item
func (s *GoodsReceiptService) AddLine(ctx context.Context, practiceID, receiptID uuid.UUID, req AddReceiptLineRequest) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForPractice(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}

	if _, err := receipt.AddLine(req.ItemID, req.ItemName, req.Unit, req.Quantity, req.BatchNumber, req.ExpiryDate, req.Notes, req.SourceBarcode); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// UpdateLine updates a line on a draft receipt
func (s *GoodsReceiptService) UpdateLine(ctx context.Context, practiceID, receiptID, lineID uuid.UUID, req UpdateReceiptLineRequest) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForPractice(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}

	if err := receipt.UpdateLine(lineID, req.Quantity, req.BatchNumber, req.ExpiryDate, req.Notes); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// RemoveLine removes a line from a draft receipt
func (s *GoodsReceiptService) RemoveLine(ctx context.Context, practiceID, receiptID, lineID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForPractice(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}

	if err := receipt.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// SetLineDiscrepancy manually classifies a line as DAMAGE or SUBSTITUTION
func (s *GoodsReceiptService) SetLineDiscrepancy(ctx context.Context, practiceID, receiptID, lineID uuid.UUID, req SetLineDiscrepancyRequest) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForPractice(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}

	if err := receipt.SetManualDiscrepancy(lineID, req.Type); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Cancel discards a draft receipt without touching stock
func (s *GoodsReceiptService) Cancel(ctx context.Context, practiceID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForPractice(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}

	if err := receipt.Cancel(); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Confirm runs the goods-receipt reconciliation.
//
// The receipt state change and the stock increments commit in one database
// transaction; a failure there leaves everything untouched. Discrepancy
// logging and order status recomputation run afterwards and are best-effort:
// both are derivable from the confirmed receipts, so a crash between the
// commit and those steps loses nothing that a recomputation cannot restore.
func (s *GoodsReceiptService) Confirm(ctx context.Context, practiceID, receiptID uuid.UUID, req ConfirmReceiptRequest) (*ConfirmReceiptResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "GoodsReceiptService.Confirm",
		trace.WithAttributes(
			attribute.String("receipt.id", receiptID.String()),
		))
	defer span.End()

	if req.IdempotencyKey != "" && s.idempotency != nil {
		fresh, previousID, err := s.idempotency.Reserve(ctx, practiceID, req.IdempotencyKey, receiptID)
		if err != nil {
			return nil, err
		}
		if !fresh {
			span.SetAttributes(attribute.Bool("idempotency.replay", true))
			return s.confirmedState(ctx, practiceID, previousID)
		}
	}

	result, err := s.confirm(ctx, practiceID, receiptID, req)
	if err != nil && req.IdempotencyKey != "" && s.idempotency != nil {
		if relErr := s.idempotency.Release(ctx, practiceID, req.IdempotencyKey); relErr != nil {
			s.logger.Warn("failed to release idempotency key",
				zap.String("receipt_id", receiptID.String()),
				zap.Error(relErr),
			)
		}
	}
	return result, err
}

func (s *GoodsReceiptService) confirm(ctx context.Context, practiceID, receiptID uuid.UUID, req ConfirmReceiptRequest) (*ConfirmReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForPractice(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}

	// Quantity ledger: remaining-to-receive per item before this receipt
	var order *procurement.Order
	var expectedByItem map[uuid.UUID]int64
	if receipt.IsOrderLinked() {
		order, err = s.orderRepo.FindByIDForPractice(ctx, practiceID, *receipt.OrderID)
		if err != nil {
			return nil, err
		}
		if !order.Status.CanReceive() {
			return nil, shared.NewDomainError("INVALID_STATE", "Cannot confirm a receipt against an order in "+order.Status.String()+" status")
		}

		confirmedReceipts, err := s.receiptRepo.FindConfirmedByOrder(ctx, practiceID, *receipt.OrderID)
		if err != nil {
			return nil, err
		}
		progress := procurement.RemainingForOrder(order.Lines, confirmedReceipts, &receipt.ID)
		expectedByItem = make(map[uuid.UUID]int64, len(progress))
		for itemID, p := range progress {
			expectedByItem[itemID] = p.Remaining
		}
	}

	backorderItems := make(map[uuid.UUID]struct{}, len(req.BackorderItemIDs))
	for _, itemID := range req.BackorderItemIDs {
		backorderItems[itemID] = struct{}{}
	}

	confirmedLines, err := receipt.Confirm(expectedByItem, backorderItems)
	if err != nil {
		return nil, err
	}

	// Atomic step: receipt state change plus stock increments
	var lowStock []inventory.StockItem
	var stockEvents []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ReceiptRepo().SaveWithLock(ctx, receipt); err != nil {
			return err
		}

		for _, line := range confirmedLines {
			stock, err := repos.StockRepo().FindOrCreate(ctx, practiceID, line.ItemID, receipt.LocationID)
			if err != nil {
				return err
			}
			if err := stock.IncreaseStock(line.Quantity); err != nil {
				return err
			}
			if err := repos.StockRepo().SaveWithLock(ctx, stock); err != nil {
				return err
			}

			stockEvents = append(stockEvents, stock.GetDomainEvents()...)
			stock.ClearDomainEvents()
			if stock.IsAtOrBelowReorderPoint() {
				lowStock = append(lowStock, *stock)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, receipt.GetDomainEvents()...)
	receipt.ClearDomainEvents()
	s.publishEvents(ctx, stockEvents...)

	// Best-effort steps from here on
	discrepancies := s.logDiscrepancies(ctx, receipt, order, expectedByItem)
	orderStatus := s.recomputeOrderStatus(ctx, practiceID, order)

	response := &ConfirmReceiptResponse{
		Receipt:       ToReceiptResponse(receipt),
		Discrepancies: discrepancies,
		OrderStatus:   orderStatus,
	}
	for _, item := range lowStock {
		response.LowStockItems = append(response.LowStockItems, LowStockItemResponse{
			ItemID:       item.ItemID,
			LocationID:   item.LocationID,
			OnHand:       item.OnHand,
			ReorderPoint: item.ReorderPoint,
		})
	}
	return response, nil
}

// confirmedState rebuilds a confirmation response for an idempotent replay
func (s *GoodsReceiptService) confirmedState(ctx context.Context, practiceID, receiptID uuid.UUID) (*ConfirmReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForPractice(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}

	records, err := s.discrepancyRepo.FindByReceipt(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}

	response := &ConfirmReceiptResponse{
		Receipt:       ToReceiptResponse(receipt),
		Discrepancies: make([]DiscrepancyResponse, len(records)),
	}
	for i := range records {
		response.Discrepancies[i] = ToDiscrepancyResponse(&records[i])
	}
	if receipt.IsOrderLinked() {
		if order, err := s.orderRepo.FindByIDForPractice(ctx, practiceID, *receipt.OrderID); err == nil {
			status := order.Status.String()
			response.OrderStatus = &status
		}
	}
	return response, nil
}

// logDiscrepancies persists a record per line whose classification warrants
// operator follow-up. NONE and PENDING_BACKORDER lines are not logged: a
// backorder is an announced delivery, not a problem to chase.
func (s *GoodsReceiptService) logDiscrepancies(ctx context.Context, receipt *procurement.GoodsReceipt, order *procurement.Order, expectedByItem map[uuid.UUID]int64) []DiscrepancyResponse {
	responses := make([]DiscrepancyResponse, 0)
	for _, line := range receipt.Lines {
		switch line.Discrepancy {
		case procurement.DiscrepancyShort, procurement.DiscrepancyOver, procurement.DiscrepancyDamage, procurement.DiscrepancySubstitution:
		default:
			continue
		}

		var orderID *uuid.UUID
		var ordered int64
		if order != nil {
			orderID = &order.ID
			ordered = expectedByItem[line.ItemID]
		}

		record, err := procurement.NewDiscrepancyRecord(
			receipt.PracticeID, receipt.ID, orderID,
			line.ItemID, line.ItemName, line.Discrepancy,
			ordered, line.Quantity, line.Notes,
		)
		if err != nil {
			s.logger.Error("failed to build discrepancy record",
				zap.String("receipt_id", receipt.ID.String()),
				zap.String("item_id", line.ItemID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := s.discrepancyRepo.Save(ctx, record); err != nil {
			s.logger.Error("failed to persist discrepancy record",
				zap.String("receipt_id", receipt.ID.String()),
				zap.String("item_id", line.ItemID.String()),
				zap.String("type", line.Discrepancy.String()),
				zap.Error(err),
			)
			continue
		}
		responses = append(responses, ToDiscrepancyResponse(record))
	}
	return responses
}

// recomputeOrderStatus rereads the order's confirmed receipts and derives the
// fulfillment status. Failures are logged, not propagated: the stock movement
// has already committed and the status is recoverable.
func (s *GoodsReceiptService) recomputeOrderStatus(ctx context.Context, practiceID uuid.UUID, order *procurement.Order) *string {
	if order == nil {
		return nil
	}

	confirmedReceipts, err := s.receiptRepo.FindConfirmedByOrder(ctx, practiceID, order.ID)
	if err != nil {
		s.logger.Error("failed to load confirmed receipts for order status recomputation",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil
	}

	progress := procurement.RemainingForOrder(order.Lines, confirmedReceipts, nil)
	prevVersion := order.Version
	order.RecomputeStatusFromReceipts(progress)
	if order.Version == prevVersion {
		status := order.Status.String()
		return &status
	}

	err = s.orderRepo.SaveWithLock(ctx, order)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		// Another writer touched the order between our read and write.
		// Reload and recompute once against the fresh version.
		fresh, reloadErr := s.orderRepo.FindByIDForPractice(ctx, practiceID, order.ID)
		if reloadErr != nil {
			s.logger.Error("failed to reload order after version conflict",
				zap.String("order_id", order.ID.String()),
				zap.Error(reloadErr),
			)
			return nil
		}
		order = fresh
		prevVersion = order.Version
		order.RecomputeStatusFromReceipts(progress)
		err = nil
		if order.Version != prevVersion {
			err = s.orderRepo.SaveWithLock(ctx, order)
		}
	}
	if err != nil {
		s.logger.Error("failed to persist recomputed order status",
			zap.String("order_id", order.ID.String()),
			zap.String("status", order.Status.String()),
			zap.Error(err),
		)
		return nil
	}

	s.publishEvents(ctx, order.GetDomainEvents()...)
	order.ClearDomainEvents()

	status := order.Status.String()
	return &status
}

// GetStatusSummary returns receipt counts per status
func (s *GoodsReceiptService) GetStatusSummary(ctx context.Context, practiceID uuid.UUID) (*ReceiptStatusSummary, error) {
	summary := &ReceiptStatusSummary{}

	counts := []struct {
		status procurement.ReceiptStatus
		target *int64
	}{
		{procurement.ReceiptStatusDraft, &summary.Draft},
		{procurement.ReceiptStatusConfirmed, &summary.Confirmed},
		{procurement.ReceiptStatusCancelled, &summary.Cancelled},
	}

	for _, c := range counts {
		count, err := s.receiptRepo.CountByStatus(ctx, practiceID, c.status)
		if err != nil {
			return nil, err
		}
		*c.target = count
		summary.Total += count
	}

	return summary, nil
}

// buildReceiptFilter converts the API filter into a domain filter
func buildReceiptFilter(filter ReceiptListFilter) shared.Filter {
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
		Filters:  make(map[string]interface{}),
	}

	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.LocationID != nil {
		domainFilter.Filters["location_id"] = *filter.LocationID
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
