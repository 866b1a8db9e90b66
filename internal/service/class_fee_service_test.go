package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/service"
	"khushi/mocks"
)

type classFeeDeps struct {
	assignmentRepo *mocks.MockClassFeeAssignmentRepo
	categoryRepo   *mocks.MockFeeCategoryRepo
	challanRepo    *mocks.MockChallanRepo
	paymentRepo    *mocks.MockPaymentRepo
	directory      *mocks.MockStudentDirectory
	categorySvc    *mocks.MockFeeCategoryService
}

func setupClassFeeService() (service.ClassFeeService, *classFeeDeps) {
	d := &classFeeDeps{
		assignmentRepo: new(mocks.MockClassFeeAssignmentRepo),
		categoryRepo:   new(mocks.MockFeeCategoryRepo),
		challanRepo:    new(mocks.MockChallanRepo),
		paymentRepo:    new(mocks.MockPaymentRepo),
		directory:      new(mocks.MockStudentDirectory),
		categorySvc:    new(mocks.MockFeeCategoryService),
	}
	svc := service.NewClassFeeService(d.assignmentRepo, d.categoryRepo, d.challanRepo, d.paymentRepo, d.directory, d.categorySvc, 3, zap.NewNop())
	return svc, d
}

func (d *classFeeDeps) expectAssignable(tenantID, classID uuid.UUID, category *domain.FeeCategory, deactivated int) {
	d.directory.On("GetClass", mock.Anything, tenantID, classID).Return(&domain.Class{ID: classID}, nil)
	d.categoryRepo.On("GetByID", mock.Anything, tenantID, category.ID).Return(category, nil)
	d.assignmentRepo.On("Replace", mock.Anything, mock.MatchedBy(func(a *domain.ClassFeeAssignment) bool {
		return a.ClassID == classID && a.CategoryID == category.ID && a.IsActive
	})).Return(deactivated, nil)
}

func TestClassFeeService_Assign_ReplacesActive(t *testing.T) {
	svc, d := setupClassFeeService()
	tenantID, classID, adminID := uuid.New(), uuid.New(), uuid.New()
	category := newCategory(tenantID, "Tuition")
	d.expectAssignable(tenantID, classID, category, 1)

	result, err := svc.Assign(context.Background(), &service.AssignCategoryInput{
		TenantID: tenantID, ClassID: classID, CategoryID: category.ID, AssignedBy: adminID,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Deactivated)
	assert.Equal(t, adminID, result.Assignment.AssignedBy)
	assert.Nil(t, result.Backfill)
	d.categorySvc.AssertNotCalled(t, "CreateSnapshot", mock.Anything, mock.Anything, mock.Anything)
}

func TestClassFeeService_Assign_ArchivedCategory(t *testing.T) {
	svc, d := setupClassFeeService()
	tenantID, classID := uuid.New(), uuid.New()
	category := newCategory(tenantID, "Old tuition")
	category.Archived = true

	d.directory.On("GetClass", mock.Anything, tenantID, classID).Return(&domain.Class{ID: classID}, nil)
	d.categoryRepo.On("GetByID", mock.Anything, tenantID, category.ID).Return(category, nil)

	_, err := svc.Assign(context.Background(), &service.AssignCategoryInput{TenantID: tenantID, ClassID: classID, CategoryID: category.ID})

	assert.ErrorIs(t, err, domain.ErrInvalidState)
	d.assignmentRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestClassFeeService_Assign_UnknownClass(t *testing.T) {
	svc, d := setupClassFeeService()
	tenantID, classID := uuid.New(), uuid.New()

	d.directory.On("GetClass", mock.Anything, tenantID, classID).Return(nil, domain.ErrClassNotFound)

	_, err := svc.Assign(context.Background(), &service.AssignCategoryInput{TenantID: tenantID, ClassID: classID, CategoryID: uuid.New()})

	assert.ErrorIs(t, err, domain.ErrClassNotFound)
	d.categoryRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestClassFeeService_Assign_BackfillsOpenChallans(t *testing.T) {
	svc, d := setupClassFeeService()
	tenantID, classID := uuid.New(), uuid.New()
	category := newCategory(tenantID, "Tuition")
	d.expectAssignable(tenantID, classID, category, 1)

	snap := newSnapshot(tenantID)
	snap.CategoryID = category.ID
	snap.TotalAmount = amt("6000")
	snap.Components = domain.FeeComponents{{Name: "Tuition", Amount: amt("6000")}}

	unpaid := newChallan(tenantID, "5500")
	raced := newChallan(tenantID, "5500")
	raced.Status = domain.ChallanStatusPending
	// Paid meanwhile; the reload after the lost race must leave it alone.
	racedFresh := *raced
	racedFresh.Status = domain.ChallanStatusPartial
	racedFresh.PaidAmount = amt("1000")
	racedFresh.Version = 2

	d.categorySvc.On("CreateSnapshot", mock.Anything, tenantID, category.ID).Return(snap, nil)
	d.challanRepo.On("List", mock.Anything, domain.ChallanFilter{
		TenantID: tenantID,
		ClassID:  &classID,
		Statuses: []domain.ChallanStatus{domain.ChallanStatusPending, domain.ChallanStatusUnpaid},
	}).Return([]domain.Challan{*unpaid, *raced}, 2, nil)
	d.paymentRepo.On("ListByChallan", mock.Anything, tenantID, unpaid.ID).Return([]domain.Payment{}, nil)
	d.paymentRepo.On("ListByChallan", mock.Anything, tenantID, raced.ID).Return([]domain.Payment{}, nil)
	d.challanRepo.On("Reprice", mock.Anything, mock.MatchedBy(func(c *domain.Challan) bool { return c.ID == unpaid.ID }), int64(1)).Return(nil)
	d.challanRepo.On("Reprice", mock.Anything, mock.MatchedBy(func(c *domain.Challan) bool { return c.ID == raced.ID }), int64(1)).
		Return(domain.ErrStaleVersion)
	d.challanRepo.On("GetByID", mock.Anything, tenantID, raced.ID).Return(&racedFresh, nil)

	result, err := svc.Assign(context.Background(), &service.AssignCategoryInput{
		TenantID: tenantID, ClassID: classID, CategoryID: category.ID, ApplyToExisting: true,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Backfill)
	assert.Equal(t, snap.ID, result.Backfill.SnapshotID)
	assert.Equal(t, []uuid.UUID{unpaid.ID}, result.Backfill.Updated)
	assert.Empty(t, result.Backfill.Failed)
	d.challanRepo.AssertNumberOfCalls(t, "Reprice", 2)
}

func TestClassFeeService_Assign_BackfillCapsPaidAtCheaperTotal(t *testing.T) {
	svc, d := setupClassFeeService()
	tenantID, classID := uuid.New(), uuid.New()
	category := newCategory(tenantID, "Reduced")
	d.expectAssignable(tenantID, classID, category, 1)

	snap := newSnapshot(tenantID)
	snap.CategoryID = category.ID
	snap.TotalAmount = amt("1000")
	snap.Components = domain.FeeComponents{{Name: "Tuition", Amount: amt("1000")}}

	// Status was overridden to unpaid while 3000 had already been collected.
	overridden := newChallan(tenantID, "5500")
	overridden.PaidAmount = amt("3000")
	overridden.RemainingAmount = amt("2500")

	d.categorySvc.On("CreateSnapshot", mock.Anything, tenantID, category.ID).Return(snap, nil)
	d.challanRepo.On("List", mock.Anything, mock.AnythingOfType("domain.ChallanFilter")).Return([]domain.Challan{*overridden}, 1, nil)
	d.paymentRepo.On("ListByChallan", mock.Anything, tenantID, overridden.ID).Return([]domain.Payment{
		{Amount: amt("3000"), PaidAt: time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)},
	}, nil)
	d.challanRepo.On("Reprice", mock.Anything, mock.MatchedBy(func(c *domain.Challan) bool {
		return c.TotalAmount.Equal(amt("1000")) && c.PaidAmount.Equal(amt("1000")) &&
			c.RemainingAmount.IsZero() && c.Status == domain.ChallanStatusPaid
	}), int64(1)).Return(nil)

	result, err := svc.Assign(context.Background(), &service.AssignCategoryInput{
		TenantID: tenantID, ClassID: classID, CategoryID: category.ID, ApplyToExisting: true,
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{overridden.ID}, result.Backfill.Updated)
	d.challanRepo.AssertExpectations(t)
}

func TestClassFeeService_Assign_BackfillFailureKeepsAssignment(t *testing.T) {
	svc, d := setupClassFeeService()
	tenantID, classID := uuid.New(), uuid.New()
	category := newCategory(tenantID, "Tuition")
	d.expectAssignable(tenantID, classID, category, 0)

	d.categorySvc.On("CreateSnapshot", mock.Anything, tenantID, category.ID).Return(nil, assert.AnError)

	result, err := svc.Assign(context.Background(), &service.AssignCategoryInput{
		TenantID: tenantID, ClassID: classID, CategoryID: category.ID, ApplyToExisting: true,
	})

	require.NoError(t, err)
	assert.NotNil(t, result.Assignment)
	require.NotNil(t, result.Backfill)
	assert.Empty(t, result.Backfill.Updated)
	require.Len(t, result.Backfill.Failed, 1)
	assert.Equal(t, uuid.Nil, result.Backfill.Failed[0].ChallanID)
}

func TestClassFeeService_GetActiveCategoryForClass(t *testing.T) {
	svc, d := setupClassFeeService()
	tenantID, classID := uuid.New(), uuid.New()
	category := newCategory(tenantID, "Tuition")

	d.assignmentRepo.On("GetActive", mock.Anything, tenantID, classID).
		Return(&domain.ClassFeeAssignment{ClassID: classID, CategoryID: category.ID, IsActive: true}, nil)
	d.categoryRepo.On("GetByID", mock.Anything, tenantID, category.ID).Return(category, nil)

	result, err := svc.GetActiveCategoryForClass(context.Background(), tenantID, classID)

	require.NoError(t, err)
	assert.Equal(t, category.ID, result.ID)
}

func TestClassFeeService_Remove_NothingActive(t *testing.T) {
	svc, d := setupClassFeeService()
	tenantID, classID := uuid.New(), uuid.New()

	d.assignmentRepo.On("Deactivate", mock.Anything, tenantID, classID).Return(0, nil)

	err := svc.Remove(context.Background(), tenantID, classID)

	assert.ErrorIs(t, err, domain.ErrAssignmentNotFound)
}
