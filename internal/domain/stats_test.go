package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khushi/internal/domain"
)

func TestCollectionRate(t *testing.T) {
	assert.True(t, domain.CollectionRate(dec("50"), dec("0")).IsZero())
	assert.True(t, domain.CollectionRate(dec("1"), dec("3")).Equal(dec("33.33")))
	assert.True(t, domain.CollectionRate(dec("5500"), dec("5500")).Equal(dec("100")))
}

func TestAggregateFeeStats(t *testing.T) {
	grade1, grade2, grade3 := uuid.New(), uuid.New(), uuid.New()
	tuition := domain.FeeCategory{ID: uuid.New(), Components: domain.FeeComponents{{Name: "Tuition", Amount: dec("1000")}}}
	retiredID := uuid.New()

	paidStudent := domain.Student{ID: uuid.New(), ClassID: grade1}
	partialStudent := domain.Student{ID: uuid.New(), ClassID: grade1}
	unpaidStudent := domain.Student{ID: uuid.New(), ClassID: grade2}
	unassigned := domain.Student{ID: uuid.New(), ClassID: grade3}
	outsider := uuid.New()

	in := domain.FeeStatsInput{
		Students: []domain.Student{paidStudent, partialStudent, unpaidStudent, unassigned},
		Classes: []domain.Class{
			{ID: grade1, Name: "Grade 1"},
			{ID: grade2, Name: "Grade 2"},
			{ID: grade3, Name: "Grade 3"},
		},
		ActiveAssignments: []domain.ClassFeeAssignment{
			{ClassID: grade1, CategoryID: tuition.ID, IsActive: true},
			{ClassID: grade2, CategoryID: retiredID, IsActive: true},
		},
		Categories:      []domain.FeeCategory{tuition},
		LatestSnapshots: map[uuid.UUID]domain.CategorySnapshot{retiredID: {CategoryID: retiredID, TotalAmount: dec("800")}},
		Payments: []domain.Payment{
			{StudentID: paidStudent.ID, Amount: dec("1000"), Method: "Cash"},
			{StudentID: partialStudent.ID, Amount: dec("400"), Method: "cash "},
			{StudentID: partialStudent.ID, Amount: dec("100"), Method: "UPI"},
			{StudentID: unassigned.ID, Amount: dec("50"), Method: "cash"},
			{StudentID: outsider, Amount: dec("999"), Method: "cheque"},
		},
	}

	stats := domain.AggregateFeeStats(in)

	assert.Equal(t, 4, stats.TotalStudents)
	assert.Equal(t, 1, stats.PaidCount)
	assert.Equal(t, 1, stats.PartialCount)
	assert.Equal(t, 1, stats.UnpaidCount)
	assert.Equal(t, 1, stats.NoFeeAssignedCount)
	assert.True(t, stats.TotalExpected.Equal(dec("2800")), "expected %s", stats.TotalExpected)
	assert.True(t, stats.TotalCollected.Equal(dec("1550")), "collected %s", stats.TotalCollected)
	assert.True(t, stats.TotalOutstanding.Equal(dec("1300")), "outstanding %s", stats.TotalOutstanding)
	assert.True(t, stats.CollectionRate.Equal(dec("55.36")), "rate %s", stats.CollectionRate)

	require.Len(t, stats.ByClass, 3)
	assert.Equal(t, "Grade 1", stats.ByClass[0].ClassName)
	assert.Equal(t, 2, stats.ByClass[0].StudentCount)
	assert.True(t, stats.ByClass[0].Expected.Equal(dec("2000")))
	assert.True(t, stats.ByClass[0].CollectionRate.Equal(dec("75")))
	assert.Equal(t, "Grade 2", stats.ByClass[1].ClassName)
	assert.True(t, stats.ByClass[1].Expected.Equal(dec("800")))
	assert.True(t, stats.ByClass[2].Expected.IsZero())
	assert.True(t, stats.ByClass[2].CollectionRate.IsZero())

	require.Len(t, stats.ByMethod, 2)
	assert.Equal(t, "cash", stats.ByMethod[0].Method)
	assert.Equal(t, 3, stats.ByMethod[0].Count)
	assert.True(t, stats.ByMethod[0].Total.Equal(dec("1450")))
	assert.Equal(t, "upi", stats.ByMethod[1].Method)
}

func TestAggregateFeeStats_Empty(t *testing.T) {
	stats := domain.AggregateFeeStats(domain.FeeStatsInput{})

	assert.Zero(t, stats.TotalStudents)
	assert.True(t, stats.CollectionRate.IsZero())
	assert.Empty(t, stats.ByClass)
	assert.Empty(t, stats.ByMethod)
}
