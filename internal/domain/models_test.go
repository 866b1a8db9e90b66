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

func TestNewFeeCategory_Validation(t *testing.T) {
	tenantID := uuid.New()
	tests := []struct {
		name       string
		tenantID   uuid.UUID
		catName    string
		components domain.FeeComponents
	}{
		{"missing tenant", uuid.Nil, "Tuition", domain.FeeComponents{{Name: "Tuition", Amount: dec("10")}}},
		{"blank name", tenantID, "   ", domain.FeeComponents{{Name: "Tuition", Amount: dec("10")}}},
		{"no components", tenantID, "Tuition", nil},
		{"unnamed component", tenantID, "Tuition", domain.FeeComponents{{Amount: dec("10")}}},
		{"negative component", tenantID, "Tuition", domain.FeeComponents{{Name: "Refund", Amount: dec("-1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewFeeCategory(tt.tenantID, uuid.New(), tt.catName, "", tt.components)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestFeeCategory_TotalIsSumOfComponents(t *testing.T) {
	c, err := domain.NewFeeCategory(uuid.New(), uuid.New(), " Tuition ", "", domain.FeeComponents{
		{Name: "Tuition", Amount: dec("5000")},
		{Name: "Lab", Amount: dec("500.25")},
		{Name: "Waived", Amount: decimal.Zero},
	})
	require.NoError(t, err)

	assert.Equal(t, "Tuition", c.Name)
	assert.True(t, c.Total().Equal(dec("5500.25")))
	assert.True(t, domain.NewCategorySnapshot(c, time.Now()).TotalAmount.Equal(c.Total()))
}

func TestNewPayment(t *testing.T) {
	tenantID, studentID, userID := uuid.New(), uuid.New(), uuid.New()

	p, err := domain.NewPayment(tenantID, nil, studentID, dec("250"), " Cash ", " R-1 ", userID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "cash", p.Method)
	assert.Equal(t, "R-1", p.Reference)
	assert.Nil(t, p.ChallanID)

	_, err = domain.NewPayment(tenantID, nil, studentID, decimal.Zero, "cash", "", userID, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = domain.NewPayment(tenantID, nil, studentID, dec("-5"), "cash", "", userID, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = domain.NewPayment(tenantID, nil, studentID, dec("5"), "  ", "", userID, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = domain.NewPayment(uuid.Nil, nil, studentID, dec("5"), "cash", "", userID, time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewChallan_RequiresSnapshotAndDueDate(t *testing.T) {
	_, err := domain.NewChallan(uuid.New(), uuid.New(), uuid.New(), nil, time.Time{}, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	category := tuitionCategory(t)
	_, err = domain.NewChallan(category.TenantID, uuid.New(), uuid.New(),
		domain.NewCategorySnapshot(category, time.Now()), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewClassFeeAssignment(t *testing.T) {
	a, err := domain.NewClassFeeAssignment(uuid.New(), uuid.New(), uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.True(t, a.IsActive)
	assert.Nil(t, a.DeactivatedAt)

	_, err = domain.NewClassFeeAssignment(uuid.New(), uuid.Nil, uuid.New(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMethodBalances(t *testing.T) {
	var m domain.MethodBalances
	assert.True(t, m.Get("cash").IsZero())

	m = m.Add("Cash", dec("100")).Add(" cash", dec("50")).Add("UPI", dec("20"))

	assert.True(t, m.Get("CASH").Equal(dec("150")))
	assert.True(t, m.Total().Equal(dec("170")))
	assert.Equal(t, []string{"cash", "upi"}, m.Methods())

	raw, err := m.Value()
	require.NoError(t, err)
	var back domain.MethodBalances
	require.NoError(t, back.Scan(raw))
	assert.True(t, back.Get("upi").Equal(dec("20")))

	require.NoError(t, back.Scan(nil))
	assert.Empty(t, back)
	assert.Error(t, back.Scan(42))
}
