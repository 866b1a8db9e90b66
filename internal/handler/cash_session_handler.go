package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khushi/internal/domain"
	"khushi/internal/service"
)

// CashSessionHandler handles collector cash session endpoints.
type CashSessionHandler struct {
	cashService service.CashSessionService
}

// NewCashSessionHandler creates a new CashSessionHandler.
func NewCashSessionHandler(cashService service.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{cashService: cashService}
}

// targetUser resolves the user a request is about. Only admins may look at
// another collector's data.
func targetUser(c *gin.Context, callerID uuid.UUID, role domain.UserRole) (uuid.UUID, bool) {
	requested, ok := parseOptionalUUIDQuery(c, "user_id")
	if !ok {
		return uuid.Nil, false
	}
	if requested == nil || *requested == callerID {
		return callerID, true
	}
	if role != domain.RoleAdmin {
		RespondError(c, http.StatusForbidden, "FORBIDDEN", "only admins may access another user's records")
		return uuid.Nil, false
	}
	return *requested, true
}

// ownedSession loads the session named by the :id path parameter. Only its
// collector or an admin may act on it.
func (h *CashSessionHandler) ownedSession(c *gin.Context, tenantID, callerID uuid.UUID, role domain.UserRole) (*domain.CashSession, bool) {
	sessionID, ok := parseIDParam(c, "id", "session")
	if !ok {
		return nil, false
	}
	session, err := h.cashService.GetByID(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	if session.UserID != callerID && role != domain.RoleAdmin {
		RespondError(c, http.StatusForbidden, "FORBIDDEN", "only admins may access another user's session")
		return nil, false
	}
	return session, true
}

// Current handles GET /api/v1/cash-sessions/current. It opens today's
// session for the caller when none exists.
func (h *CashSessionHandler) Current(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	session, err := h.cashService.GetOrCreate(c.Request.Context(), tenantID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, session)
}

// RecordTransaction handles POST /api/v1/cash-sessions/:id/transactions
func (h *CashSessionHandler) RecordTransaction(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	session, ok := h.ownedSession(c, tenantID, userID, role)
	if !ok {
		return
	}

	var req struct {
		PaymentID *uuid.UUID      `json:"payment_id"`
		StudentID *uuid.UUID      `json:"student_id"`
		Amount    decimal.Decimal `json:"amount"`
		Method    string          `json:"method" binding:"required"`
		Reference string          `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "amount and method are required")
		return
	}

	tx, updated, err := h.cashService.RecordTransaction(c.Request.Context(), &service.RecordTransactionInput{
		TenantID:  tenantID,
		SessionID: session.ID,
		UserID:    session.UserID,
		PaymentID: req.PaymentID,
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, gin.H{"transaction": tx, "session": updated})
}

// Close handles POST /api/v1/cash-sessions/:id/close
func (h *CashSessionHandler) Close(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	session, ok := h.ownedSession(c, tenantID, userID, role)
	if !ok {
		return
	}

	var req struct {
		ClosingBalanceByMethod domain.MethodBalances `json:"closing_balance_by_method" binding:"required"`
		DiscrepancyNotes       string                `json:"discrepancy_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "closing_balance_by_method is required")
		return
	}

	result, err := h.cashService.Close(c.Request.Context(), &service.CloseSessionInput{
		TenantID:               tenantID,
		SessionID:              session.ID,
		ClosingBalanceByMethod: req.ClosingBalanceByMethod,
		DiscrepancyNotes:       req.DiscrepancyNotes,
		VerifiedBy:             userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// GetByID handles GET /api/v1/cash-sessions/:id
func (h *CashSessionHandler) GetByID(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	session, ok := h.ownedSession(c, tenantID, userID, role)
	if !ok {
		return
	}
	RespondOK(c, session)
}

// Summary handles GET /api/v1/cash-sessions/:id/summary
func (h *CashSessionHandler) Summary(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	session, ok := h.ownedSession(c, tenantID, userID, role)
	if !ok {
		return
	}

	summary, err := h.cashService.GetSummary(c.Request.Context(), tenantID, session.ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// ListTransactions handles GET /api/v1/cash-sessions/:id/transactions
func (h *CashSessionHandler) ListTransactions(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	session, ok := h.ownedSession(c, tenantID, userID, role)
	if !ok {
		return
	}

	txs, err := h.cashService.ListTransactions(c.Request.Context(), tenantID, session.ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, txs)
}

// History handles GET /api/v1/cash-sessions/history?user_id=
func (h *CashSessionHandler) History(c *gin.Context) {
	tenantID, callerID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	userID, ok := targetUser(c, callerID, role)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	sessions, total, err := h.cashService.ListHistory(c.Request.Context(), tenantID, userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, sessions, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListActive handles GET /api/v1/cash-sessions/active
func (h *CashSessionHandler) ListActive(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	sessions, err := h.cashService.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sessions)
}
