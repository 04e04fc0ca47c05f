package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/praxis/backend/internal/application/procurement"
)

// GoodsReceiptHandler handles goods receipt API endpoints
type GoodsReceiptHandler struct {
	BaseHandler
	receiptService *procurementapp.GoodsReceiptService
}

// NewGoodsReceiptHandler creates a new GoodsReceiptHandler
func NewGoodsReceiptHandler(receiptService *procurementapp.GoodsReceiptService) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{
		receiptService: receiptService,
	}
}

// CreateFromOrderRequest represents a request to open a receipt prefilled
// from an order
type CreateFromOrderRequest struct {
	LocationID uuid.UUID `json:"location_id" binding:"required"`
}

// RegisterRoutes registers goods receipt routes on the given router group
func (h *GoodsReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/procurement/receipts")
	{
		receipts.POST("", h.Create)
		receipts.GET("", h.List)
		receipts.GET("/stats/summary", h.GetStatusSummary)
		receipts.GET("/by-order/:order_id", h.ListByOrder)
		receipts.POST("/from-order/:order_id", h.CreateFromOrder)
		receipts.GET("/:id", h.GetByID)
		receipts.POST("/:id/lines", h.AddLine)
		receipts.PUT("/:id/lines/:line_id", h.UpdateLine)
		receipts.DELETE("/:id/lines/:line_id", h.RemoveLine)
		receipts.PUT("/:id/lines/:line_id/discrepancy", h.SetLineDiscrepancy)
		receipts.POST("/:id/confirm", h.Confirm)
		receipts.POST("/:id/cancel", h.Cancel)
	}
}

// Create opens a new goods receipt in draft state
func (h *GoodsReceiptHandler) Create(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	var req procurementapp.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), practiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, receipt)
}

// CreateFromOrder opens a receipt prefilled with the order's outstanding lines
func (h *GoodsReceiptHandler) CreateFromOrder(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req CreateFromOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.CreateFromOrder(c.Request.Context(), practiceID, orderID, req.LocationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, receipt)
}

// GetByID retrieves a goods receipt by its ID
func (h *GoodsReceiptHandler) GetByID(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), practiceID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List retrieves a paginated list of goods receipts with optional filtering
func (h *GoodsReceiptHandler) List(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	var filter procurementapp.ReceiptListFilter
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

	receipts, total, err := h.receiptService.List(c.Request.Context(), practiceID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, filter.Page, filter.PageSize)
}

// ListByOrder retrieves all receipts recorded against an order
func (h *GoodsReceiptHandler) ListByOrder(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	receipts, err := h.receiptService.ListByOrder(c.Request.Context(), practiceID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipts)
}

// AddLine adds a line to a draft receipt
func (h *GoodsReceiptHandler) AddLine(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	var req procurementapp.AddReceiptLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.AddLine(c.Request.Context(), practiceID, receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// UpdateLine updates a line on a draft receipt
func (h *GoodsReceiptHandler) UpdateLine(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	var req procurementapp.UpdateReceiptLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.UpdateLine(c.Request.Context(), practiceID, receiptID, lineID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// RemoveLine removes a line from a draft receipt
func (h *GoodsReceiptHandler) RemoveLine(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	receipt, err := h.receiptService.RemoveLine(c.Request.Context(), practiceID, receiptID, lineID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// SetLineDiscrepancy manually classifies a line's discrepancy
func (h *GoodsReceiptHandler) SetLineDiscrepancy(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	var req procurementapp.SetLineDiscrepancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.SetLineDiscrepancy(c.Request.Context(), practiceID, receiptID, lineID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Confirm confirms a goods receipt, reconciling it against the order ledger
// and posting stock movements
func (h *GoodsReceiptHandler) Confirm(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	var req procurementapp.ConfirmReceiptRequest
	// Allow empty body
	_ = c.ShouldBindJSON(&req)

	if key := c.GetHeader("Idempotency-Key"); key != "" && req.IdempotencyKey == "" {
		req.IdempotencyKey = key
	}

	result, err := h.receiptService.Confirm(c.Request.Context(), practiceID, receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel cancels a draft receipt
func (h *GoodsReceiptHandler) Cancel(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receiptService.Cancel(c.Request.Context(), practiceID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// GetStatusSummary returns receipt counts by status for the dashboard
func (h *GoodsReceiptHandler) GetStatusSummary(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	summary, err := h.receiptService.GetStatusSummary(c.Request.Context(), practiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
