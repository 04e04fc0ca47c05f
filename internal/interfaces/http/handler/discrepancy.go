package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/praxis/backend/internal/application/procurement"
)

// DiscrepancyHandler handles discrepancy record API endpoints
type DiscrepancyHandler struct {
	BaseHandler
	discrepancyService *procurementapp.DiscrepancyService
}

// NewDiscrepancyHandler creates a new DiscrepancyHandler
func NewDiscrepancyHandler(discrepancyService *procurementapp.DiscrepancyService) *DiscrepancyHandler {
	return &DiscrepancyHandler{
		discrepancyService: discrepancyService,
	}
}

// RegisterRoutes registers discrepancy routes on the given router group
func (h *DiscrepancyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	discrepancies := rg.Group("/procurement/discrepancies")
	{
		discrepancies.GET("", h.List)
		discrepancies.GET("/by-receipt/:receipt_id", h.ListByReceipt)
		discrepancies.GET("/:id", h.GetByID)
		discrepancies.POST("/:id/resolve", h.Resolve)
		discrepancies.POST("/:id/require-correction", h.RequireSupplierCorrection)
		discrepancies.POST("/:id/notes", h.AppendNote)
	}
}

// GetByID retrieves a discrepancy record by its ID
func (h *DiscrepancyHandler) GetByID(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID format")
		return
	}

	record, err := h.discrepancyService.GetByID(c.Request.Context(), practiceID, recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// List retrieves a paginated list of discrepancy records
func (h *DiscrepancyHandler) List(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	var filter procurementapp.DiscrepancyListFilter
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

	records, total, err := h.discrepancyService.List(c.Request.Context(), practiceID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// ListByReceipt retrieves all discrepancy records logged for a receipt
func (h *DiscrepancyHandler) ListByReceipt(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("receipt_id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	records, err := h.discrepancyService.ListByReceipt(c.Request.Context(), practiceID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

// Resolve marks a discrepancy record as resolved
func (h *DiscrepancyHandler) Resolve(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID format")
		return
	}

	var req procurementapp.ResolveDiscrepancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.discrepancyService.Resolve(c.Request.Context(), practiceID, recordID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// RequireSupplierCorrection escalates a record to the supplier
func (h *DiscrepancyHandler) RequireSupplierCorrection(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID format")
		return
	}

	var req procurementapp.RequireSupplierCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.discrepancyService.RequireSupplierCorrection(c.Request.Context(), practiceID, recordID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// AppendNote appends a progress note to an open record
func (h *DiscrepancyHandler) AppendNote(c *gin.Context) {
	practiceID, err := getPracticeID(c)
	if err != nil {
		h.BadRequest(c, "Invalid practice ID")
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID format")
		return
	}

	var req procurementapp.AppendDiscrepancyNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.discrepancyService.AppendNote(c.Request.Context(), practiceID, recordID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}
