package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/praxis/backend/internal/domain/inventory"
	"github.com/praxis/backend/internal/domain/shared"
)

// LowStockHandler handles StockBelowReorderPoint events and pushes a
// replenishment alert towards the dashboard
type LowStockHandler struct {
	logger   *zap.Logger
	notifier LowStockNotifier
}

// LowStockNotifier is the interface for delivering low-stock alerts.
// Implementations can support different channels (in-app, email, webhook).
type LowStockNotifier interface {
	// NotifyLowStock delivers a low-stock alert
	NotifyLowStock(ctx context.Context, alert LowStockAlert) error
}

// LowStockAlert represents a low-stock notification payload
type LowStockAlert struct {
	PracticeID   string `json:"practice_id"`
	StockItemID  string `json:"stock_item_id"`
	ItemID       string `json:"item_id"`
	LocationID   string `json:"location_id"`
	OnHand       int64  `json:"on_hand"`
	ReorderPoint int64  `json:"reorder_point"`
}

// NewLowStockHandler creates a new handler for low-stock events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for delivering alerts
func (h *LowStockHandler) WithNotifier(notifier LowStockNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowReorderPoint}
}

// Handle processes a StockBelowReorderPointEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowEvent, ok := event.(*inventory.StockBelowReorderPointEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockBelowReorderPoint),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowReorderPoint, event.EventType())
	}

	h.logger.Warn("stock at or below reorder point",
		zap.String("practice_id", event.PracticeID().String()),
		zap.String("item_id", lowEvent.ItemID.String()),
		zap.String("location_id", lowEvent.LocationID.String()),
		zap.Int64("on_hand", lowEvent.OnHand),
		zap.Int64("reorder_point", lowEvent.ReorderPoint),
	)

	if h.notifier == nil {
		return nil
	}

	alert := LowStockAlert{
		PracticeID:   event.PracticeID().String(),
		StockItemID:  lowEvent.StockItemID.String(),
		ItemID:       lowEvent.ItemID.String(),
		LocationID:   lowEvent.LocationID.String(),
		OnHand:       lowEvent.OnHand,
		ReorderPoint: lowEvent.ReorderPoint,
	}

	if err := h.notifier.NotifyLowStock(ctx, alert); err != nil {
		// Notification failure must not fail the event handling
		h.logger.Error("failed to deliver low-stock alert",
			zap.String("item_id", alert.ItemID),
			zap.Error(err),
		)
	}

	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)

// LoggingLowStockNotifier is a notifier that only logs alerts.
// Useful for development and testing.
type LoggingLowStockNotifier struct {
	logger *zap.Logger
}

// NewLoggingLowStockNotifier creates a new logging notifier
func NewLoggingLowStockNotifier(logger *zap.Logger) *LoggingLowStockNotifier {
	return &LoggingLowStockNotifier{
		logger: logger,
	}
}

// NotifyLowStock logs the low-stock alert
func (n *LoggingLowStockNotifier) NotifyLowStock(_ context.Context, alert LowStockAlert) error {
	n.logger.Warn("LOW STOCK ALERT",
		zap.String("item_id", alert.ItemID),
		zap.String("location_id", alert.LocationID),
		zap.Int64("on_hand", alert.OnHand),
		zap.Int64("reorder_point", alert.ReorderPoint),
	)
	return nil
}

var _ LowStockNotifier = (*LoggingLowStockNotifier)(nil)
