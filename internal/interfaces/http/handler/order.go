package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/praxis/backend/internal/application/procurement"
)

// OrderHandler handles procurement order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *procurementapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *procurementapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers order routes on the given router group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/procurement/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/pending-receipt", h.ListPendingReceipt)
		orders.GET("/stats/summary", h.GetStatusSummary)
		orders.GET("/reference/:reference_code", h.GetByReferenceCode)
		orders.GET("/:id", h.GetByID)
		orders.PUT("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)
		orders.POST("/:id/items", h.AddItem)
		orders.PUT("/:id/items/:item_id", h.UpdateItem)
		orders.DELETE("/:id/items/:item_id", h.RemoveItem)
		orders.POST("/:id/send", h.Send)
		orders.POST("/:id/cancel", h.Cancel)
		orders.GET("/:id/progress", h.GetReceiptProgress)
	}
}

// Create creates a new procurement order in draft state
func (h *OrderHandler) Create(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	var req procurementapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), practiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID retrieves an order by its ID
func (h *OrderHandler) GetByID(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), practiceID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByReferenceCode retrieves an order by its reference code
func (h *OrderHandler) GetByReferenceCode(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	referenceCode := c.Param("reference_code")
	if referenceCode == "" {
		h.BadRequest(c, "Reference code is required")
		return
	}

	order, err := h.orderService.GetByReferenceCode(c.Request.Context(), practiceID, referenceCode)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves a paginated list of orders with optional filtering
func (h *OrderHandler) List(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	var filter procurementapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.orderService.List(c.Request.Context(), practiceID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// ListPendingReceipt retrieves orders that are waiting for goods
func (h *OrderHandler) ListPendingReceipt(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	var filter procurementapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.orderService.ListPendingReceipt(c.Request.Context(), practiceID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Update updates a draft order's header fields
func (h *OrderHandler) Update(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req procurementapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), practiceID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete deletes a draft order
func (h *OrderHandler) Delete(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), practiceID, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AddItem adds a line to a draft order
func (h *OrderHandler) AddItem(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req procurementapp.AddOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), practiceID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItem updates a line on a draft order
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req procurementapp.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateItem(c.Request.Context(), practiceID, orderID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem removes a line from a draft order
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), practiceID, orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Send transitions a draft order to the sent state
func (h *OrderHandler) Send(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Send(c.Request.Context(), practiceID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel cancels an order that has not been fully received
func (h *OrderHandler) Cancel(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req procurementapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), practiceID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetReceiptProgress returns per-item receipt progress for an order
func (h *OrderHandler) GetReceiptProgress(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	progress, err := h.orderService.GetReceiptProgress(c.Request.Context(), practiceID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, progress)
}

// GetStatusSummary returns order counts by status for the dashboard
func (h *OrderHandler) GetStatusSummary(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	summary, err := h.orderService.GetStatusSummary(c.Request.Context(), practiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
