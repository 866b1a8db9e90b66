package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khushi/internal/service"
)

// ClassFeeHandler handles class fee assignment endpoints.
type ClassFeeHandler struct {
	classFeeService service.ClassFeeService
}

// NewClassFeeHandler creates a new ClassFeeHandler.
func NewClassFeeHandler(classFeeService service.ClassFeeService) *ClassFeeHandler {
	return &ClassFeeHandler{classFeeService: classFeeService}
}

// Assign handles PUT /api/v1/classes/:id/fee-assignment
func (h *ClassFeeHandler) Assign(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id", "class")
	if !ok {
		return
	}

	var req struct {
		CategoryID      uuid.UUID `json:"category_id" binding:"required"`
		ApplyToExisting bool      `json:"apply_to_existing"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "category_id is required")
		return
	}

	result, err := h.classFeeService.Assign(c.Request.Context(), &service.AssignCategoryInput{
		TenantID:        tenantID,
		ClassID:         classID,
		CategoryID:      req.CategoryID,
		AssignedBy:      userID,
		ApplyToExisting: req.ApplyToExisting,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// GetActive handles GET /api/v1/classes/:id/fee-assignment
func (h *ClassFeeHandler) GetActive(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id", "class")
	if !ok {
		return
	}

	category, err := h.classFeeService.GetActiveCategoryForClass(c.Request.Context(), tenantID, classID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, category)
}

// History handles GET /api/v1/classes/:id/fee-assignment/history
func (h *ClassFeeHandler) History(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id", "class")
	if !ok {
		return
	}

	history, err := h.classFeeService.GetHistory(c.Request.Context(), tenantID, classID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, history)
}

// Remove handles DELETE /api/v1/classes/:id/fee-assignment
func (h *ClassFeeHandler) Remove(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id", "class")
	if !ok {
		return
	}

	if err := h.classFeeService.Remove(c.Request.Context(), tenantID, classID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "fee assignment removed"})
}
