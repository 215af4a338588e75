package handler

import (
	"github.com/gin-gonic/gin"
	apppos "github.com/pos/backend/internal/application/pos"
)

// RegisterHandler handles cash register session endpoints
type RegisterHandler struct {
	BaseHandler
	registerService *apppos.RegisterService
}

// NewRegisterHandler creates a RegisterHandler
func NewRegisterHandler(registerService *apppos.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// Open opens a till session for the authenticated cashier
// POST /api/v1/registers/open
func (h *RegisterHandler) Open(c *gin.Context) {
	cashierID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req apppos.OpenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.registerService.Open(c.Request.Context(), cashierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Close closes the cashier's open session against a counted amount
// POST /api/v1/registers/close
func (h *RegisterHandler) Close(c *gin.Context) {
	cashierID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req apppos.CloseRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.registerService.Close(c.Request.Context(), cashierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Current returns the cashier's open session
// GET /api/v1/registers/current
func (h *RegisterHandler) Current(c *gin.Context) {
	cashierID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.registerService.Current(c.Request.Context(), cashierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a session by ID
// GET /api/v1/registers/:id
func (h *RegisterHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.registerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns sessions matching the filter
// GET /api/v1/registers
func (h *RegisterHandler) List(c *gin.Context) {
	var filter apppos.RegisterListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	registers, total, err := h.registerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, registers, total, filter.Page, filter.PageSize)
}

// ChangeOpeningSecret rotates the shared opening secret
// POST /api/v1/registers/settings/secret
func (h *RegisterHandler) ChangeOpeningSecret(c *gin.Context) {
	var req apppos.ChangeOpeningSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.registerService.ChangeOpeningSecret(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetDefaultOpeningAmount changes the default opening float
// PUT /api/v1/registers/settings/opening-float
func (h *RegisterHandler) SetDefaultOpeningAmount(c *gin.Context) {
	var req apppos.UpdateOpeningFloatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.registerService.SetDefaultOpeningAmount(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
