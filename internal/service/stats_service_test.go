package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"khushi/internal/domain"
	"khushi/internal/service"
	"khushi/mocks"
)

type statsDeps struct {
	directory      *mocks.MockStudentDirectory
	assignmentRepo *mocks.MockClassFeeAssignmentRepo
	categoryRepo   *mocks.MockFeeCategoryRepo
	snapshotRepo   *mocks.MockSnapshotRepo
	paymentRepo    *mocks.MockPaymentRepo
}

func setupStatsService() (service.StatsService, *statsDeps) {
	d := &statsDeps{
		directory:      new(mocks.MockStudentDirectory),
		assignmentRepo: new(mocks.MockClassFeeAssignmentRepo),
		categoryRepo:   new(mocks.MockFeeCategoryRepo),
		snapshotRepo:   new(mocks.MockSnapshotRepo),
		paymentRepo:    new(mocks.MockPaymentRepo),
	}
	return service.NewStatsService(d.directory, d.assignmentRepo, d.categoryRepo, d.snapshotRepo, d.paymentRepo), d
}

func TestStatsService_GetFeeStats(t *testing.T) {
	svc, d := setupStatsService()
	tenantID, classID := uuid.New(), uuid.New()
	category := newCategory(tenantID, "Tuition")
	s1 := domain.Student{ID: uuid.New(), ClassID: classID}
	s2 := domain.Student{ID: uuid.New(), ClassID: classID}

	d.directory.On("ListStudents", mock.Anything, tenantID, &classID).Return([]domain.Student{s1, s2}, nil)
	d.directory.On("ListClasses", mock.Anything, tenantID).Return([]domain.Class{{ID: classID, Name: "Grade 5"}}, nil)
	d.assignmentRepo.On("ListActive", mock.Anything, tenantID).
		Return([]domain.ClassFeeAssignment{{ClassID: classID, CategoryID: category.ID, IsActive: true}}, nil)
	d.categoryRepo.On("List", mock.Anything, tenantID, true).Return([]domain.FeeCategory{*category}, nil)
	d.snapshotRepo.On("LatestByCategory", mock.Anything, tenantID).Return(map[uuid.UUID]domain.CategorySnapshot{}, nil)
	d.paymentRepo.On("ListByTenant", mock.Anything, tenantID).Return([]domain.Payment{
		{StudentID: s1.ID, Amount: amt("5500"), Method: "cash"},
	}, nil)

	stats, err := svc.GetFeeStats(context.Background(), tenantID, &classID)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 1, stats.PaidCount)
	assert.Equal(t, 1, stats.UnpaidCount)
	assert.True(t, stats.TotalExpected.Equal(amt("11000")))
	assert.True(t, stats.CollectionRate.Equal(amt("50")))
	require.Len(t, stats.ByClass, 1)
	assert.Equal(t, "Grade 5", stats.ByClass[0].ClassName)
}

func TestStatsService_GetFeeStats_SourceFailure(t *testing.T) {
	svc, d := setupStatsService()
	tenantID := uuid.New()

	d.directory.On("ListStudents", mock.Anything, tenantID, (*uuid.UUID)(nil)).Return(nil, assert.AnError)
	d.directory.On("ListClasses", mock.Anything, tenantID).Return(nil, nil).Maybe()
	d.assignmentRepo.On("ListActive", mock.Anything, tenantID).Return(nil, nil).Maybe()
	d.categoryRepo.On("List", mock.Anything, tenantID, true).Return(nil, nil).Maybe()
	d.snapshotRepo.On("LatestByCategory", mock.Anything, tenantID).Return(nil, nil).Maybe()
	d.paymentRepo.On("ListByTenant", mock.Anything, tenantID).Return(nil, nil).Maybe()

	stats, err := svc.GetFeeStats(context.Background(), tenantID, nil)

	assert.Nil(t, stats)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStatsService_GetFeeStats_MissingTenant(t *testing.T) {
	svc, _ := setupStatsService()

	_, err := svc.GetFeeStats(context.Background(), uuid.Nil, nil)

	assert.ErrorIs(t, err, domain.ErrMissingTenant)
}
