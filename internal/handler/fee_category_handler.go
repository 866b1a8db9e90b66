package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"khushi/internal/domain"
	"khushi/internal/service"
)

// FeeCategoryHandler handles fee category and snapshot endpoints.
type FeeCategoryHandler struct {
	categoryService service.FeeCategoryService
	classFeeService service.ClassFeeService
}

// NewFeeCategoryHandler creates a new FeeCategoryHandler.
func NewFeeCategoryHandler(categoryService service.FeeCategoryService, classFeeService service.ClassFeeService) *FeeCategoryHandler {
	return &FeeCategoryHandler{categoryService: categoryService, classFeeService: classFeeService}
}

type categoryRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Components  domain.FeeComponents `json:"components" binding:"required,min=1"`
}

// Create handles POST /api/v1/fee-categories
func (h *FeeCategoryHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name and at least one component are required")
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &service.CreateCategoryInput{
		TenantID:    tenantID,
		CreatedBy:   userID,
		Name:        req.Name,
		Description: req.Description,
		Components:  req.Components,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, category)
}

// List handles GET /api/v1/fee-categories?include_archived=true
func (h *FeeCategoryHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	includeArchived, _ := strconv.ParseBool(c.DefaultQuery("include_archived", "false"))

	categories, err := h.categoryService.List(c.Request.Context(), tenantID, includeArchived)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, categories)
}

// GetByID handles GET /api/v1/fee-categories/:id
func (h *FeeCategoryHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), tenantID, categoryID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, category)
}

// Update handles PATCH /api/v1/fee-categories/:id
func (h *FeeCategoryHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	var req struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Components  *domain.FeeComponents `json:"components"`
		Archived    *bool                 `json:"archived"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), &service.UpdateCategoryInput{
		TenantID:    tenantID,
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		Components:  req.Components,
		Archived:    req.Archived,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, category)
}

// Archive handles POST /api/v1/fee-categories/:id/archive
func (h *FeeCategoryHandler) Archive(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	if err := h.categoryService.Archive(c.Request.Context(), tenantID, categoryID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "fee category archived"})
}

// Unarchive handles POST /api/v1/fee-categories/:id/unarchive
func (h *FeeCategoryHandler) Unarchive(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.categoryService.Unarchive(c.Request.Context(), tenantID, categoryID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, category)
}

// Duplicate handles POST /api/v1/fee-categories/:id/duplicate
func (h *FeeCategoryHandler) Duplicate(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	category, err := h.categoryService.Duplicate(c.Request.Context(), tenantID, categoryID, req.Name, userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, category)
}

// Delete handles DELETE /api/v1/fee-categories/:id
func (h *FeeCategoryHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), tenantID, categoryID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "fee category deleted"})
}

// CreateSnapshot handles POST /api/v1/fee-categories/:id/snapshots
func (h *FeeCategoryHandler) CreateSnapshot(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	snapshot, err := h.categoryService.CreateSnapshot(c.Request.Context(), tenantID, categoryID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, snapshot)
}

// ListSnapshots handles GET /api/v1/fee-categories/:id/snapshots
func (h *FeeCategoryHandler) ListSnapshots(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	snapshots, err := h.categoryService.ListSnapshots(c.Request.Context(), tenantID, categoryID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, snapshots)
}

// GetSnapshot handles GET /api/v1/fee-snapshots/:id
func (h *FeeCategoryHandler) GetSnapshot(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	snapshotID, ok := parseIDParam(c, "id", "snapshot")
	if !ok {
		return
	}

	snapshot, err := h.categoryService.GetSnapshot(c.Request.Context(), tenantID, snapshotID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, snapshot)
}

// ListClasses handles GET /api/v1/fee-categories/:id/classes
func (h *FeeCategoryHandler) ListClasses(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "category")
	if !ok {
		return
	}

	assignments, err := h.classFeeService.ListClassesUsingCategory(c.Request.Context(), tenantID, categoryID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, assignments)
}
