package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khushi/internal/service"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles POST /api/v1/payments. The collector is the caller.
func (h *PaymentHandler) Record(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		ChallanID *uuid.UUID      `json:"challan_id"`
		StudentID uuid.UUID       `json:"student_id"`
		Amount    decimal.Decimal `json:"amount"`
		Method    string          `json:"method" binding:"required"`
		Reference string          `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "amount and method are required")
		return
	}
	if req.ChallanID == nil && req.StudentID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "challan_id or student_id is required")
		return
	}

	result, err := h.paymentService.Record(c.Request.Context(), &service.RecordPaymentInput{
		TenantID:   tenantID,
		ChallanID:  req.ChallanID,
		StudentID:  req.StudentID,
		Amount:     req.Amount,
		Method:     req.Method,
		Reference:  req.Reference,
		RecordedBy: userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// GetByID handles GET /api/v1/payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(c, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), tenantID, paymentID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payment)
}

// Update handles PATCH /api/v1/payments/:id
func (h *PaymentHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(c, "id", "payment")
	if !ok {
		return
	}

	var req struct {
		ChallanID *uuid.UUID       `json:"challan_id"`
		Amount    *decimal.Decimal `json:"amount"`
		Method    *string          `json:"method"`
		Reference *string          `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.paymentService.Update(c.Request.Context(), &service.UpdatePaymentInput{
		TenantID:  tenantID,
		PaymentID: paymentID,
		ChallanID: req.ChallanID,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Delete handles DELETE /api/v1/payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(c, "id", "payment")
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), tenantID, paymentID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "payment deleted"})
}

// ListMethods handles GET /api/v1/payments/methods
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	methods, err := h.paymentService.ListMethods(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, methods)
}

// ListByStudent handles GET /api/v1/students/:id/payments
func (h *PaymentHandler) ListByStudent(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id", "student")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByStudent(c.Request.Context(), tenantID, studentID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payments)
}

// StudentSummary handles GET /api/v1/students/:id/payment-summary
func (h *PaymentHandler) StudentSummary(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	studentID, ok := parseIDParam(c, "id", "student")
	if !ok {
		return
	}

	summary, err := h.paymentService.GetSummaryForStudent(c.Request.Context(), tenantID, studentID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}
