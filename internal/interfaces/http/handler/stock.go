package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/praxis/backend/internal/application/inventory"
)

// StockHandler handles stock item API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// RegisterRoutes registers stock item routes on the given router group
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/inventory/stock-items")
	{
		stock.GET("", h.List)
		stock.GET("/low", h.ListBelowReorderPoint)
		stock.GET("/items/:item_id/locations/:location_id", h.GetByItemAndLocation)
		stock.PUT("/items/:item_id/locations/:location_id/reorder-point", h.SetReorderPoint)
		stock.GET("/:id", h.GetByID)
	}
}

// GetByID retrieves a stock item by its ID
func (h *StockHandler) GetByID(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	stockItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	item, err := h.stockService.GetByID(c.Request.Context(), practiceID, stockItemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// GetByItemAndLocation retrieves the stock row for an item at a location
func (h *StockHandler) GetByItemAndLocation(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	item, err := h.stockService.GetByItemAndLocation(c.Request.Context(), practiceID, itemID, locationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// List retrieves a paginated list of stock items with optional filtering
func (h *StockHandler) List(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	var filter inventoryapp.StockItemListFilter
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

	items, total, err := h.stockService.List(c.Request.Context(), practiceID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListBelowReorderPoint retrieves items at or below their reorder point
func (h *StockHandler) ListBelowReorderPoint(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	items, err := h.stockService.ListBelowReorderPoint(c.Request.Context(), practiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}

// SetReorderPoint sets the low-stock threshold for an item at a location
func (h *StockHandler) SetReorderPoint(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var req inventoryapp.SetReorderPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.stockService.SetReorderPoint(c.Request.Context(), practiceID, itemID, locationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}
