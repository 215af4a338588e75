package handler

import (
	"github.com/gin-gonic/gin"
	apppos "github.com/pos/backend/internal/application/pos"
)

// SaleHandler handles checkout and sale lookup endpoints
type SaleHandler struct {
	BaseHandler
	saleService *apppos.SaleService
}

// NewSaleHandler creates a SaleHandler
func NewSaleHandler(saleService *apppos.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create finalizes a checkout for the authenticated cashier
// POST /api/v1/sales
func (h *SaleHandler) Create(c *gin.Context) {
	cashierID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req apppos.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.saleService.CreateSale(c.Request.Context(), cashierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Cancel cancels a completed sale and restocks its items
// POST /api/v1/sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req apppos.CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.saleService.CancelSale(c.Request.Context(), orderID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a sale by ID
// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber returns a sale by its order number, for receipt reprints
// GET /api/v1/sales/number/:number
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number parameter is required")
		return
	}

	resp, err := h.saleService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns sales matching the filter
// GET /api/v1/sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter apppos.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}
