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

func setupChallanService() (
	service.ChallanService,
	*mocks.MockChallanRepo,
	*mocks.MockPaymentRepo,
	*mocks.MockStudentDirectory,
	*mocks.MockFeeCategoryService,
) {
	challanRepo := new(mocks.MockChallanRepo)
	paymentRepo := new(mocks.MockPaymentRepo)
	directory := new(mocks.MockStudentDirectory)
	categorySvc := new(mocks.MockFeeCategoryService)
	svc := service.NewChallanService(challanRepo, paymentRepo, directory, categorySvc, zap.NewNop())
	return svc, challanRepo, paymentRepo, directory, categorySvc
}

func newSnapshot(tenantID uuid.UUID) *domain.CategorySnapshot {
	components := tuitionComponents()
	return &domain.CategorySnapshot{
		ID:           uuid.New(),
		TenantID:     tenantID,
		CategoryID:   uuid.New(),
		CategoryName: "Tuition",
		Components:   components,
		TotalAmount:  components.Total(),
		SnapshotDate: time.Now().UTC(),
	}
}

func newChallan(tenantID uuid.UUID, total string) *domain.Challan {
	return &domain.Challan{
		ID:              uuid.New(),
		TenantID:        tenantID,
		StudentID:       uuid.New(),
		ClassID:         uuid.New(),
		SnapshotID:      uuid.New(),
		TotalAmount:     amt(total),
		PaidAmount:      amt("0"),
		RemainingAmount: amt(total),
		Status:          domain.ChallanStatusUnpaid,
		DueDate:         time.Now().AddDate(0, 1, 0),
		Version:         1,
	}
}

// --- CreateFromCategory ---

func TestChallanService_CreateFromCategory_ByNaturalKeys(t *testing.T) {
	svc, challanRepo, _, directory, categorySvc := setupChallanService()
	tenantID := uuid.New()
	student := &domain.Student{ID: uuid.New(), TenantID: tenantID, AdmissionNo: "ADM-7"}
	class := &domain.Class{ID: uuid.New(), TenantID: tenantID, Name: "Grade 4"}
	snap := newSnapshot(tenantID)
	due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	directory.On("GetStudentByAdmissionNo", mock.Anything, tenantID, "ADM-7").Return(student, nil)
	directory.On("GetClassByName", mock.Anything, tenantID, "Grade 4").Return(class, nil)
	categorySvc.On("CreateSnapshot", mock.Anything, tenantID, snap.CategoryID).Return(snap, nil)
	challanRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Challan")).Return(nil)

	challan, err := svc.CreateFromCategory(context.Background(), &service.CreateChallanInput{
		TenantID:   tenantID,
		StudentRef: "ADM-7",
		ClassRef:   "Grade 4",
		CategoryID: snap.CategoryID,
		DueDate:    due,
		Notes:      "first term",
	})

	require.NoError(t, err)
	assert.Equal(t, student.ID, challan.StudentID)
	assert.Equal(t, class.ID, challan.ClassID)
	assert.Equal(t, snap.ID, challan.SnapshotID)
	assert.True(t, challan.TotalAmount.Equal(amt("5500")))
	assert.True(t, challan.RemainingAmount.Equal(amt("5500")))
	assert.Equal(t, domain.ChallanStatusUnpaid, challan.Status)
	assert.Equal(t, due, challan.DueDate)
	assert.Equal(t, "first term", challan.Notes)
	directory.AssertNotCalled(t, "GetStudent", mock.Anything, mock.Anything, mock.Anything)
}

func TestChallanService_CreateFromCategory_IDFallsBackToAdmissionNo(t *testing.T) {
	svc, challanRepo, _, directory, categorySvc := setupChallanService()
	tenantID := uuid.New()
	ref := uuid.New()
	student := &domain.Student{ID: uuid.New(), AdmissionNo: ref.String()}
	class := &domain.Class{ID: uuid.New()}
	snap := newSnapshot(tenantID)

	directory.On("GetStudent", mock.Anything, tenantID, ref).Return(nil, domain.ErrStudentNotFound)
	directory.On("GetStudentByAdmissionNo", mock.Anything, tenantID, ref.String()).Return(student, nil)
	directory.On("GetClass", mock.Anything, tenantID, class.ID).Return(class, nil)
	categorySvc.On("CreateSnapshot", mock.Anything, tenantID, snap.CategoryID).Return(snap, nil)
	challanRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Challan")).Return(nil)

	challan, err := svc.CreateFromCategory(context.Background(), &service.CreateChallanInput{
		TenantID:   tenantID,
		StudentRef: ref.String(),
		ClassRef:   class.ID.String(),
		CategoryID: snap.CategoryID,
		DueDate:    time.Now(),
	})

	require.NoError(t, err)
	assert.Equal(t, student.ID, challan.StudentID)
}

func TestChallanService_CreateFromCategory_StudentNotFound(t *testing.T) {
	svc, challanRepo, _, directory, categorySvc := setupChallanService()
	tenantID := uuid.New()

	directory.On("GetStudentByAdmissionNo", mock.Anything, tenantID, "ghost").Return(nil, domain.ErrStudentNotFound)

	_, err := svc.CreateFromCategory(context.Background(), &service.CreateChallanInput{
		TenantID:   tenantID,
		StudentRef: "ghost",
		ClassRef:   "Grade 1",
		CategoryID: uuid.New(),
		DueDate:    time.Now(),
	})

	assert.ErrorIs(t, err, domain.ErrStudentNotFound)
	categorySvc.AssertNotCalled(t, "CreateSnapshot", mock.Anything, mock.Anything, mock.Anything)
	challanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- CreateBulk ---

func TestChallanService_CreateBulk_PartialSuccess(t *testing.T) {
	tests := []struct {
		name    string
		refs    []string
		missing string
		created int
	}{
		{"five with one invalid", []string{"A1", "A2", "A3", "BAD", "A5"}, "BAD", 4},
		{"three with second missing", []string{"B1", "B2", "B3"}, "B2", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, challanRepo, _, directory, categorySvc := setupChallanService()
			tenantID := uuid.New()
			class := &domain.Class{ID: uuid.New(), Name: "Grade 2"}
			snap := newSnapshot(tenantID)

			directory.On("GetClassByName", mock.Anything, tenantID, "Grade 2").Return(class, nil)
			categorySvc.On("CreateSnapshot", mock.Anything, tenantID, snap.CategoryID).Return(snap, nil).Once()
			for _, ref := range tt.refs {
				if ref == tt.missing {
					directory.On("GetStudentByAdmissionNo", mock.Anything, tenantID, ref).Return(nil, domain.ErrStudentNotFound)
					continue
				}
				directory.On("GetStudentByAdmissionNo", mock.Anything, tenantID, ref).
					Return(&domain.Student{ID: uuid.New(), AdmissionNo: ref, ClassID: class.ID}, nil)
			}
			challanRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Challan")).Return(nil)

			result, err := svc.CreateBulk(context.Background(), &service.BulkChallanInput{
				TenantID:    tenantID,
				ClassRef:    "Grade 2",
				StudentRefs: tt.refs,
				CategoryID:  snap.CategoryID,
				DueDate:     time.Now().AddDate(0, 1, 0),
			})

			require.NoError(t, err)
			assert.Len(t, result.Created, tt.created)
			require.Len(t, result.Failed, 1)
			assert.Equal(t, tt.missing, result.Failed[0].StudentRef)
			assert.NotEmpty(t, result.Failed[0].Reason)
			for _, c := range result.Created {
				assert.Equal(t, snap.ID, c.SnapshotID)
				assert.Equal(t, class.ID, c.ClassID)
			}
			challanRepo.AssertNumberOfCalls(t, "Create", tt.created)
			categorySvc.AssertNumberOfCalls(t, "CreateSnapshot", 1)
		})
	}
}

func TestChallanService_CreateBulk_ClassNotFound(t *testing.T) {
	svc, challanRepo, _, directory, categorySvc := setupChallanService()
	tenantID := uuid.New()

	directory.On("GetClassByName", mock.Anything, tenantID, "Grade 9").Return(nil, domain.ErrClassNotFound)

	result, err := svc.CreateBulk(context.Background(), &service.BulkChallanInput{
		TenantID:    tenantID,
		ClassRef:    "Grade 9",
		StudentRefs: []string{"A1"},
		CategoryID:  uuid.New(),
		DueDate:     time.Now(),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrClassNotFound)
	categorySvc.AssertNotCalled(t, "CreateSnapshot", mock.Anything, mock.Anything, mock.Anything)
	challanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChallanService_CreateBulk_RepoFailureIsPerStudent(t *testing.T) {
	svc, challanRepo, _, directory, categorySvc := setupChallanService()
	tenantID := uuid.New()
	class := &domain.Class{ID: uuid.New(), Name: "Grade 3"}
	snap := newSnapshot(tenantID)
	s1 := &domain.Student{ID: uuid.New()}
	s2 := &domain.Student{ID: uuid.New()}

	directory.On("GetClassByName", mock.Anything, tenantID, "Grade 3").Return(class, nil)
	categorySvc.On("CreateSnapshot", mock.Anything, tenantID, snap.CategoryID).Return(snap, nil)
	directory.On("GetStudentByAdmissionNo", mock.Anything, tenantID, "S1").Return(s1, nil)
	directory.On("GetStudentByAdmissionNo", mock.Anything, tenantID, "S2").Return(s2, nil)
	challanRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Challan) bool { return c.StudentID == s1.ID })).
		Return(assert.AnError)
	challanRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Challan) bool { return c.StudentID == s2.ID })).
		Return(nil)

	result, err := svc.CreateBulk(context.Background(), &service.BulkChallanInput{
		TenantID:    tenantID,
		ClassRef:    "Grade 3",
		StudentRefs: []string{"S1", "S2"},
		CategoryID:  snap.CategoryID,
		DueDate:     time.Now(),
	})

	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Equal(t, s2.ID, result.Created[0].StudentID)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "S1", result.Failed[0].StudentRef)
}

// --- Update ---

func TestChallanService_Update_StatusOverride(t *testing.T) {
	svc, challanRepo, _, _, _ := setupChallanService()
	tenantID := uuid.New()
	challan := newChallan(tenantID, "1000")
	status := domain.ChallanStatusPaid
	notes := "waived by principal"

	challanRepo.On("GetByID", mock.Anything, tenantID, challan.ID).Return(challan, nil)
	challanRepo.On("UpdateDetails", mock.Anything, challan).Return(nil)

	result, err := svc.Update(context.Background(), &service.UpdateChallanInput{
		TenantID: tenantID, ChallanID: challan.ID, Status: &status, Notes: &notes,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ChallanStatusPaid, result.Status)
	assert.Equal(t, notes, result.Notes)
	assert.True(t, result.PaidAmount.IsZero())
}

func TestChallanService_Update_InvalidStatus(t *testing.T) {
	svc, challanRepo, _, _, _ := setupChallanService()
	tenantID := uuid.New()
	challan := newChallan(tenantID, "1000")
	status := domain.ChallanStatus("settled")

	challanRepo.On("GetByID", mock.Anything, tenantID, challan.ID).Return(challan, nil)

	_, err := svc.Update(context.Background(), &service.UpdateChallanInput{TenantID: tenantID, ChallanID: challan.ID, Status: &status})

	assert.ErrorIs(t, err, domain.ErrInvalidChallanState)
	challanRepo.AssertNotCalled(t, "UpdateDetails", mock.Anything, mock.Anything)
}

// --- Delete ---

func TestChallanService_Delete_WithPayments(t *testing.T) {
	svc, challanRepo, paymentRepo, _, _ := setupChallanService()
	tenantID, challanID := uuid.New(), uuid.New()

	paymentRepo.On("CountByChallan", mock.Anything, tenantID, challanID).Return(1, nil)

	err := svc.Delete(context.Background(), tenantID, challanID)

	assert.ErrorIs(t, err, domain.ErrChallanHasPayments)
	challanRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestChallanService_Delete_NoPayments(t *testing.T) {
	svc, challanRepo, paymentRepo, _, _ := setupChallanService()
	tenantID, challanID := uuid.New(), uuid.New()

	paymentRepo.On("CountByChallan", mock.Anything, tenantID, challanID).Return(0, nil)
	challanRepo.On("Delete", mock.Anything, tenantID, challanID).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), tenantID, challanID))
	challanRepo.AssertExpectations(t)
}

// --- Queries ---

func TestChallanService_Search_RejectsUnknownStatus(t *testing.T) {
	svc, challanRepo, _, _, _ := setupChallanService()

	_, _, err := svc.Search(context.Background(), domain.ChallanFilter{
		TenantID: uuid.New(),
		Statuses: []domain.ChallanStatus{domain.ChallanStatusPaid, "bogus"},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidChallanState)
	challanRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestChallanService_GetWithPayments(t *testing.T) {
	svc, challanRepo, paymentRepo, _, _ := setupChallanService()
	tenantID := uuid.New()
	challan := newChallan(tenantID, "1000")
	payments := []domain.Payment{{ID: uuid.New(), Amount: amt("400")}}

	challanRepo.On("GetByID", mock.Anything, tenantID, challan.ID).Return(challan, nil)
	paymentRepo.On("ListByChallan", mock.Anything, tenantID, challan.ID).Return(payments, nil)

	result, err := svc.GetWithPayments(context.Background(), tenantID, challan.ID)

	require.NoError(t, err)
	assert.Equal(t, challan, result.Challan)
	assert.Len(t, result.Payments, 1)
}
