package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khushi/internal/domain"
	"khushi/internal/service"
)

// ChallanHandler handles challan endpoints.
type ChallanHandler struct {
	challanService service.ChallanService
	paymentService service.PaymentService
}

// NewChallanHandler creates a new ChallanHandler.
func NewChallanHandler(challanService service.ChallanService, paymentService service.PaymentService) *ChallanHandler {
	return &ChallanHandler{challanService: challanService, paymentService: paymentService}
}

type createChallanRequest struct {
	StudentRef string    `json:"student" binding:"required"`
	ClassRef   string    `json:"class" binding:"required"`
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	DueDate    string    `json:"due_date" binding:"required"`
	IssueDate  string    `json:"issue_date"`
	Notes      string    `json:"notes"`
}

type bulkChallanRequest struct {
	ClassRef    string    `json:"class" binding:"required"`
	StudentRefs []string  `json:"students" binding:"required,min=1"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	DueDate     string    `json:"due_date" binding:"required"`
	IssueDate   string    `json:"issue_date"`
}

// parseDates parses a required due date and an optional issue date.
func parseDates(c *gin.Context, due, issue string) (time.Time, *time.Time, bool) {
	dueDate, err := time.Parse(dateLayout, due)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "due_date must be YYYY-MM-DD")
		return time.Time{}, nil, false
	}
	if issue == "" {
		return dueDate, nil, true
	}
	issueDate, err := time.Parse(dateLayout, issue)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "issue_date must be YYYY-MM-DD")
		return time.Time{}, nil, false
	}
	return dueDate, &issueDate, true
}

// Create handles POST /api/v1/challans
func (h *ChallanHandler) Create(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req createChallanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "student, class, category_id and due_date are required")
		return
	}
	dueDate, issueDate, ok := parseDates(c, req.DueDate, req.IssueDate)
	if !ok {
		return
	}

	challan, err := h.challanService.CreateFromCategory(c.Request.Context(), &service.CreateChallanInput{
		TenantID:   tenantID,
		StudentRef: req.StudentRef,
		ClassRef:   req.ClassRef,
		CategoryID: req.CategoryID,
		DueDate:    dueDate,
		IssueDate:  issueDate,
		Notes:      req.Notes,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, challan)
}

// CreateBulk handles POST /api/v1/challans/bulk. Per-student failures are
// reported in the body; the call itself succeeds.
func (h *ChallanHandler) CreateBulk(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req bulkChallanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "class, students, category_id and due_date are required")
		return
	}
	dueDate, issueDate, ok := parseDates(c, req.DueDate, req.IssueDate)
	if !ok {
		return
	}

	result, err := h.challanService.CreateBulk(c.Request.Context(), &service.BulkChallanInput{
		TenantID:    tenantID,
		ClassRef:    req.ClassRef,
		StudentRefs: req.StudentRefs,
		CategoryID:  req.CategoryID,
		DueDate:     dueDate,
		IssueDate:   issueDate,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// GetByID handles GET /api/v1/challans/:id. The payment history is included.
func (h *ChallanHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	challanID, ok := parseIDParam(c, "id", "challan")
	if !ok {
		return
	}

	result, err := h.challanService.GetWithPayments(c.Request.Context(), tenantID, challanID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// List handles GET /api/v1/challans with optional student_id, class_id,
// status (comma separated), due_from, due_to, offset and limit filters.
func (h *ChallanHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter := domain.ChallanFilter{TenantID: tenantID}
	if filter.StudentID, ok = parseOptionalUUIDQuery(c, "student_id"); !ok {
		return
	}
	if filter.ClassID, ok = parseOptionalUUIDQuery(c, "class_id"); !ok {
		return
	}
	if filter.DueFrom, ok = parseOptionalDateQuery(c, "due_from"); !ok {
		return
	}
	if filter.DueTo, ok = parseOptionalDateQuery(c, "due_to"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, domain.ChallanStatus(strings.TrimSpace(s)))
		}
	}
	filter.Offset, filter.Limit = parsePagination(c)

	challans, total, err := h.challanService.Search(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, challans, PagMeta{Total: total, Offset: filter.Offset, Limit: filter.Limit})
}

// Update handles PATCH /api/v1/challans/:id
func (h *ChallanHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	challanID, ok := parseIDParam(c, "id", "challan")
	if !ok {
		return
	}

	var req struct {
		DueDate *string               `json:"due_date"`
		Status  *domain.ChallanStatus `json:"status"`
		Notes   *string               `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	input := &service.UpdateChallanInput{
		TenantID:  tenantID,
		ChallanID: challanID,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if req.DueDate != nil {
		due, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_DATE", "due_date must be YYYY-MM-DD")
			return
		}
		input.DueDate = &due
	}

	challan, err := h.challanService.Update(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, challan)
}

// Delete handles DELETE /api/v1/challans/:id
func (h *ChallanHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	challanID, ok := parseIDParam(c, "id", "challan")
	if !ok {
		return
	}

	if err := h.challanService.Delete(c.Request.Context(), tenantID, challanID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "challan deleted"})
}

// ListPayments handles GET /api/v1/challans/:id/payments
func (h *ChallanHandler) ListPayments(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	challanID, ok := parseIDParam(c, "id", "challan")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByChallan(c.Request.Context(), tenantID, challanID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payments)
}

// ListByStudent handles GET /api/v1/students/:id/challans
func (h *ChallanHandler) ListByStudent(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id", "student")
	if !ok {
		return
	}

	challans, err := h.challanService.ListByStudent(c.Request.Context(), tenantID, studentID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, challans)
}

// ListByClass handles GET /api/v1/classes/:id/challans
func (h *ChallanHandler) ListByClass(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	classID, ok := parseIDParam(c, "id", "class")
	if !ok {
		return
	}

	challans, err := h.challanService.ListByClass(c.Request.Context(), tenantID, classID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, challans)
}
