package handler

import (
	"github.com/gin-gonic/gin"
	appsupervision "github.com/pos/backend/internal/application/supervision"
)

// ValidationHandler handles supervisor validation endpoints
type ValidationHandler struct {
	BaseHandler
	validationService *appsupervision.ValidationService
}

// NewValidationHandler creates a ValidationHandler
func NewValidationHandler(validationService *appsupervision.ValidationService) *ValidationHandler {
	return &ValidationHandler{validationService: validationService}
}

// Request opens a pending validation for a gated operation
// POST /api/v1/validations
func (h *ValidationHandler) Request(c *gin.Context) {
	requesterID, err := currentUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appsupervision.CreateValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.validationService.Request(c.Request.Context(), requesterID, c.ClientIP(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Decide approves or rejects a pending validation. The supervisor
// re-authenticates inside the request body, on the cashier's terminal.
// POST /api/v1/validations/:id/decide
func (h *ValidationHandler) Decide(c *gin.Context) {
	validationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req appsupervision.DecideValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.validationService.Decide(c.Request.Context(), validationID, c.ClientIP(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Check tells the till whether an operation needs supervisor approval
// GET /api/v1/validations/check
func (h *ValidationHandler) Check(c *gin.Context) {
	var req appsupervision.CheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.validationService.Check(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a validation by ID
// GET /api/v1/validations/:id
func (h *ValidationHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.validationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns validations matching the filter
// GET /api/v1/validations
func (h *ValidationHandler) List(c *gin.Context) {
	var filter appsupervision.ValidationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	validations, total, err := h.validationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, validations, total, filter.Page, filter.PageSize)
}

// GetSettings returns the gate thresholds
// GET /api/v1/validations/settings
func (h *ValidationHandler) GetSettings(c *gin.Context) {
	resp, err := h.validationService.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateSettings changes the gate thresholds
// PUT /api/v1/validations/settings
func (h *ValidationHandler) UpdateSettings(c *gin.Context) {
	var req appsupervision.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.validationService.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
