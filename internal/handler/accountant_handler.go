package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khushi/internal/domain"
	"khushi/internal/service"
)

// AccountantHandler handles collector balance and daily summary endpoints.
type AccountantHandler struct {
	accountantService service.AccountantService
}

// NewAccountantHandler creates a new AccountantHandler.
func NewAccountantHandler(accountantService service.AccountantService) *AccountantHandler {
	return &AccountantHandler{accountantService: accountantService}
}

// GetProfile handles GET /api/v1/accountant/profile?user_id=
func (h *AccountantHandler) GetProfile(c *gin.Context) {
	tenantID, callerID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	userID, ok := targetUser(c, callerID, role)
	if !ok {
		return
	}

	profile, err := h.accountantService.GetProfile(c.Request.Context(), tenantID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, profile)
}

// ListTransactions handles GET /api/v1/accountant/transactions?user_id=
func (h *AccountantHandler) ListTransactions(c *gin.Context) {
	tenantID, callerID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	userID, ok := targetUser(c, callerID, role)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	txs, total, err := h.accountantService.ListTransactions(c.Request.Context(), tenantID, userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, txs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// RecordMovement handles POST /api/v1/accountant/transactions. Admins use it
// for withdrawals (cash handed over) and corrections.
func (h *AccountantHandler) RecordMovement(c *gin.Context) {
	tenantID, callerID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		UserID      uuid.UUID            `json:"user_id" binding:"required"`
		Amount      decimal.Decimal      `json:"amount"`
		Type        domain.BalanceTxType `json:"type" binding:"required"`
		Description string               `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "user_id, amount and type are required")
		return
	}

	profile, err := h.accountantService.UpdateBalance(c.Request.Context(), &service.UpdateBalanceInput{
		TenantID:    tenantID,
		UserID:      req.UserID,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		RecordedBy:  callerID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, profile)
}

// SetOpeningBalance handles PUT /api/v1/accountant/opening-balance
func (h *AccountantHandler) SetOpeningBalance(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		UserID uuid.UUID       `json:"user_id" binding:"required"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "user_id and amount are required")
		return
	}

	profile, err := h.accountantService.SetOpeningBalance(c.Request.Context(), tenantID, req.UserID, req.Amount)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, profile)
}

// DailySummary handles GET /api/v1/accountant/daily-summary?date=&user_id=.
// Without a date the current day is summarized.
func (h *AccountantHandler) DailySummary(c *gin.Context) {
	tenantID, callerID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	userID, ok := targetUser(c, callerID, role)
	if !ok {
		return
	}
	date, ok := parseOptionalDateQuery(c, "date")
	if !ok {
		return
	}
	var day time.Time
	if date != nil {
		day = *date
	}

	summary, err := h.accountantService.GetDailySummary(c.Request.Context(), tenantID, userID, day)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// VerifySummary handles POST /api/v1/accountant/daily-summaries/:id/verify
func (h *AccountantHandler) VerifySummary(c *gin.Context) {
	tenantID, callerID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	summaryID, ok := parseIDParam(c, "id", "summary")
	if !ok {
		return
	}

	summary, err := h.accountantService.VerifyDailySummary(c.Request.Context(), tenantID, summaryID, callerID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}
