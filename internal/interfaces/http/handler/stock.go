package handler

import (
	"github.com/gin-gonic/gin"
	apppos "github.com/pos/backend/internal/application/pos"
)

// StockHandler handles stock ledger and alert endpoints
type StockHandler struct {
	BaseHandler
	stockService *apppos.StockService
}

// NewStockHandler creates a StockHandler
func NewStockHandler(stockService *apppos.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Adjust records a manual stock adjustment, gated beyond the threshold
// POST /api/v1/stock/products/:id/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req apppos.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.stockService.AdjustStock(c.Request.Context(), productID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Movements returns ledger entries matching the filter
// GET /api/v1/stock/movements
func (h *StockHandler) Movements(c *gin.Context) {
	var filter apppos.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ProductHistory returns the ledger for one product, newest first
// GET /api/v1/stock/products/:id/history
func (h *StockHandler) ProductHistory(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var filter apppos.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.stockService.ProductHistory(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// Alerts returns stock alerts matching the filter
// GET /api/v1/stock/alerts
func (h *StockHandler) Alerts(c *gin.Context) {
	var filter apppos.AlertListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	alerts, total, err := h.stockService.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, alerts, total, filter.Page, filter.PageSize)
}

// ResolveAlert marks an alert as handled
// POST /api/v1/stock/alerts/:id/resolve
func (h *StockHandler) ResolveAlert(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	alertID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.stockService.ResolveAlert(c.Request.Context(), alertID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
