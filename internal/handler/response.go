package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// Specific sentinels are matched before the base kinds they wrap.
var errorMappings = []errorMapping{
	{domain.ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
	{domain.ErrSnapshotNotFound, http.StatusNotFound, "SNAPSHOT_NOT_FOUND"},
	{domain.ErrAssignmentNotFound, http.StatusNotFound, "ASSIGNMENT_NOT_FOUND"},
	{domain.ErrStudentNotFound, http.StatusNotFound, "STUDENT_NOT_FOUND"},
	{domain.ErrClassNotFound, http.StatusNotFound, "CLASS_NOT_FOUND"},
	{domain.ErrChallanNotFound, http.StatusNotFound, "CHALLAN_NOT_FOUND"},
	{domain.ErrPaymentNotFound, http.StatusNotFound, "PAYMENT_NOT_FOUND"},
	{domain.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
	{domain.ErrProfileNotFound, http.StatusNotFound, "PROFILE_NOT_FOUND"},
	{domain.ErrSummaryNotFound, http.StatusNotFound, "SUMMARY_NOT_FOUND"},

	{domain.ErrDuplicateCategoryName, http.StatusConflict, "DUPLICATE_CATEGORY_NAME"},
	{domain.ErrCategoryInUse, http.StatusConflict, "CATEGORY_IN_USE"},
	{domain.ErrAssignmentConflict, http.StatusConflict, "ASSIGNMENT_CONFLICT"},
	{domain.ErrChallanHasPayments, http.StatusConflict, "CHALLAN_HAS_PAYMENTS"},
	{domain.ErrConcurrentUpdate, http.StatusConflict, "CONCURRENT_UPDATE"},
	{domain.ErrSessionAlreadyClosed, http.StatusConflict, "SESSION_ALREADY_CLOSED"},
	{domain.ErrSummaryAlreadyVerified, http.StatusConflict, "SUMMARY_ALREADY_VERIFIED"},
	{domain.ErrSessionClosed, http.StatusUnprocessableEntity, "SESSION_CLOSED"},

	{domain.ErrMissingTenant, http.StatusBadRequest, "MISSING_TENANT"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{domain.ErrInvalidMethod, http.StatusBadRequest, "INVALID_METHOD"},
	{domain.ErrInvalidChallanState, http.StatusBadRequest, "INVALID_STATUS"},
	{domain.ErrInvalidBalanceType, http.StatusBadRequest, "INVALID_BALANCE_TYPE"},

	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
	{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidState, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
}

// MapDomainError translates domain errors to HTTP status codes and error
// codes. Domain error text is safe to show; anything else is masked.
func MapDomainError(err error) (status int, code, msg string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code, err.Error()
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("internal error",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	_ = c.Error(err)
	RespondError(c, status, code, msg)
}

// extractAuthContext extracts tenant ID, user ID, and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (tenantID, userID uuid.UUID, role domain.UserRole, ok bool) {
	var err error
	tenantID, err = middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, "", false
	}
	role = domain.UserRole(middleware.GetRole(c))
	return tenantID, userID, role, true
}

// parseIDParam parses a UUID path parameter, writing a 400 when malformed.
func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUIDQuery parses an optional UUID query parameter.
func parseOptionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return nil, false
	}
	return &id, true
}

// parseOptionalDateQuery parses an optional YYYY-MM-DD query parameter.
func parseOptionalDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", name+" must be YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

const dateLayout = "2006-01-02"

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
