package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khushi/internal/domain"
)

func TestNewCashSession_FreshCollectorStartsAtZero(t *testing.T) {
	s := domain.NewCashSession(uuid.New(), uuid.New(), time.Now(), nil, time.Now())

	assert.True(t, s.OpeningBalance.IsZero())
	assert.Empty(t, s.OpeningBalanceByMethod)
	assert.True(t, s.CurrentBalance.IsZero())
	assert.Equal(t, domain.SessionStatusActive, s.Status)
}

func TestNewCashSession_CarriesForwardClosingBalances(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	prev := domain.NewCashSession(tenantID, userID, time.Now().AddDate(0, 0, -1), nil, time.Now())
	prev.Post(dec("1000"), "cash")
	prev.Post(dec("200"), "upi")
	rec := domain.Reconcile(prev.CurrentBalanceByMethod, domain.MethodBalances{"cash": dec("990"), "upi": dec("200")})
	prev.ApplyClose(rec, "short by 10", userID, time.Now())

	next := domain.NewCashSession(tenantID, userID, time.Now(), prev, time.Now())

	assert.True(t, next.OpeningBalance.Equal(dec("1190")))
	assert.True(t, next.OpeningBalanceByMethod.Get("cash").Equal(dec("990")))
	assert.True(t, next.OpeningBalanceByMethod.Get("upi").Equal(dec("200")))
	assert.True(t, next.CurrentBalanceByMethod.Get("cash").Equal(dec("990")))

	// The new session's maps are independent copies.
	next.Post(dec("5"), "cash")
	assert.True(t, prev.ClosingBalanceByMethod.Get("cash").Equal(dec("990")))
	assert.True(t, next.OpeningBalanceByMethod.Get("cash").Equal(dec("990")))
}

func TestCashSession_PostAccumulatesPerMethod(t *testing.T) {
	s := domain.NewCashSession(uuid.New(), uuid.New(), time.Now(), nil, time.Now())
	s.OpeningBalanceByMethod = domain.MethodBalances{"cash": dec("50")}
	s.CurrentBalanceByMethod = s.OpeningBalanceByMethod.Clone()
	s.CurrentBalance = dec("50")

	txs := []struct {
		amount, method string
	}{{"100", "cash"}, {"40", "upi"}, {"-20", "cash"}, {"60", "Cash"}}
	expected := map[string]decimal.Decimal{"cash": dec("50"), "upi": decimal.Zero}
	for _, tx := range txs {
		s.Post(dec(tx.amount), tx.method)
		m := domain.NormalizeMethod(tx.method)
		expected[m] = expected[m].Add(dec(tx.amount))

		for method, want := range expected {
			assert.True(t, s.CurrentBalanceByMethod.Get(method).Equal(want), "%s: got %s want %s", method, s.CurrentBalanceByMethod.Get(method), want)
		}
	}
	assert.True(t, s.CurrentBalance.Equal(dec("230")))
}

func TestReconcile(t *testing.T) {
	expected := domain.MethodBalances{"cash": dec("1000"), "upi": dec("300")}
	actual := domain.MethodBalances{"cash": dec("950"), "cheque": dec("20")}

	rec := domain.Reconcile(expected, actual)

	assert.True(t, rec.Expected.Equal(dec("1300")))
	assert.True(t, rec.Actual.Equal(dec("970")))
	assert.True(t, rec.Discrepancy.Equal(dec("-330")))
	assert.True(t, rec.DiscrepancyByMethod.Get("cash").Equal(dec("-50")))
	assert.True(t, rec.DiscrepancyByMethod.Get("upi").Equal(dec("-300")))
	assert.True(t, rec.DiscrepancyByMethod.Get("cheque").Equal(dec("20")))
}

func TestApplyClose(t *testing.T) {
	s := domain.NewCashSession(uuid.New(), uuid.New(), time.Now(), nil, time.Now())
	s.Post(dec("500"), "cash")
	verifier := uuid.New()

	s.ApplyClose(domain.Reconcile(s.CurrentBalanceByMethod, domain.MethodBalances{"cash": dec("500")}), "", verifier, time.Now())

	assert.True(t, s.IsClosed())
	require.True(t, s.ClosingBalance.Valid)
	assert.True(t, s.ClosingBalance.Decimal.Equal(dec("500")))
	assert.True(t, s.Discrepancy.Decimal.IsZero())
	require.NotNil(t, s.ClosedAt)
	assert.Equal(t, verifier, *s.VerifiedBy)
}

func TestNewCashTransaction(t *testing.T) {
	tenantID, sessionID, userID := uuid.New(), uuid.New(), uuid.New()

	tx, err := domain.NewCashTransaction(tenantID, sessionID, userID, nil, nil, dec("-25"), " UPI ", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "upi", tx.Method)

	_, err = domain.NewCashTransaction(tenantID, sessionID, userID, nil, nil, decimal.Zero, "cash", "", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = domain.NewCashTransaction(tenantID, sessionID, userID, nil, nil, dec("1"), "", "", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)
}
