package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"khushi/internal/domain"
	"khushi/internal/handler"
	"khushi/internal/service"
	"khushi/mocks"
)

func newPaymentHandler() (*handler.PaymentHandler, *mocks.MockPaymentService) {
	paymentSvc := new(mocks.MockPaymentService)
	return handler.NewPaymentHandler(paymentSvc), paymentSvc
}

func TestPaymentHandler_Record_CallerIsCollector(t *testing.T) {
	h, paymentSvc := newPaymentHandler()
	tenantID, userID, challanID := uuid.New(), uuid.New(), uuid.New()

	paymentSvc.On("Record", mock.Anything, mock.MatchedBy(func(in *service.RecordPaymentInput) bool {
		return in.TenantID == tenantID && in.RecordedBy == userID && *in.ChallanID == challanID &&
			in.Amount.Equal(decimal.NewFromInt(3000)) && in.Method == "cash"
	})).Return(&service.PaymentResult{Payment: &domain.Payment{ID: uuid.New()}}, nil)

	body := `{"challan_id":"` + challanID.String() + `","amount":"3000","method":"cash"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, tenantID, userID, "accountant")

	h.Record(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	paymentSvc.AssertExpectations(t)
}

func TestPaymentHandler_Record_NeedsTarget(t *testing.T) {
	h, paymentSvc := newPaymentHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{"amount":"10","method":"cash"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), uuid.New(), "accountant")

	h.Record(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	paymentSvc.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestPaymentHandler_Record_InvalidAmount(t *testing.T) {
	h, paymentSvc := newPaymentHandler()

	paymentSvc.On("Record", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidAmount)

	body := `{"student_id":"` + uuid.NewString() + `","amount":"0","method":"cash"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), uuid.New(), "accountant")

	h.Record(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AMOUNT")
}
