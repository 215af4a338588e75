package handler

import (
	"github.com/gin-gonic/gin"
	apppos "github.com/pos/backend/internal/application/pos"
)

// ProformaHandler handles quote (proforma) endpoints
type ProformaHandler struct {
	BaseHandler
	proformaService *apppos.ProformaService
}

// NewProformaHandler creates a ProformaHandler
func NewProformaHandler(proformaService *apppos.ProformaService) *ProformaHandler {
	return &ProformaHandler{proformaService: proformaService}
}

// Create creates a draft proforma with current price snapshots
// POST /api/v1/proformas
func (h *ProformaHandler) Create(c *gin.Context) {
	creatorID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req apppos.CreateProformaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.proformaService.Create(c.Request.Context(), creatorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// AddItem adds a line to a draft proforma
// POST /api/v1/proformas/:id/items
func (h *ProformaHandler) AddItem(c *gin.Context) {
	proformaID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req apppos.AddProformaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.proformaService.AddItem(c.Request.Context(), proformaID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateItem changes a line's quantity on a draft proforma
// PUT /api/v1/proformas/:id/items/:itemId
func (h *ProformaHandler) UpdateItem(c *gin.Context) {
	proformaID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req apppos.UpdateProformaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.proformaService.UpdateItemQuantity(c.Request.Context(), proformaID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem removes a line from a draft proforma
// DELETE /api/v1/proformas/:id/items/:itemId
func (h *ProformaHandler) RemoveItem(c *gin.Context) {
	proformaID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.proformaService.RemoveItem(c.Request.Context(), proformaID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels a draft proforma
// POST /api/v1/proformas/:id/cancel
func (h *ProformaHandler) Cancel(c *gin.Context) {
	proformaID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.proformaService.Cancel(c.Request.Context(), proformaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Convert converts a draft proforma into a sale at snapshot prices
// POST /api/v1/proformas/:id/convert
func (h *ProformaHandler) Convert(c *gin.Context) {
	cashierID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	proformaID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req apppos.ConvertProformaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.proformaService.Convert(c.Request.Context(), proformaID, cashierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a proforma by ID
// GET /api/v1/proformas/:id
func (h *ProformaHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.proformaService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns proformas matching the filter
// GET /api/v1/proformas
func (h *ProformaHandler) List(c *gin.Context) {
	var filter apppos.ProformaListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	proformas, total, err := h.proformaService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, proformas, total, filter.Page, filter.PageSize)
}
