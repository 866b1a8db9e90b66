package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/service"
	"khushi/mocks"
)

func setupFeeCategoryService() (service.FeeCategoryService, *mocks.MockFeeCategoryRepo, *mocks.MockSnapshotRepo) {
	categoryRepo := new(mocks.MockFeeCategoryRepo)
	snapshotRepo := new(mocks.MockSnapshotRepo)
	svc := service.NewFeeCategoryService(categoryRepo, snapshotRepo, zap.NewNop())
	return svc, categoryRepo, snapshotRepo
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tuitionComponents() domain.FeeComponents {
	return domain.FeeComponents{
		{Name: "Tuition", Amount: amt("5000")},
		{Name: "Lab", Amount: amt("500")},
	}
}

func newCategory(tenantID uuid.UUID, name string) *domain.FeeCategory {
	return &domain.FeeCategory{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Name:       name,
		Components: tuitionComponents(),
	}
}

// --- Create ---

func TestFeeCategoryService_Create_Success(t *testing.T) {
	svc, categoryRepo, _ := setupFeeCategoryService()
	tenantID, userID := uuid.New(), uuid.New()

	categoryRepo.On("GetActiveByName", mock.Anything, tenantID, "Tuition").Return(nil, domain.ErrCategoryNotFound)
	categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FeeCategory")).Return(nil)

	result, err := svc.Create(context.Background(), &service.CreateCategoryInput{
		TenantID:   tenantID,
		CreatedBy:  userID,
		Name:       " Tuition ",
		Components: tuitionComponents(),
	})

	require.NoError(t, err)
	assert.Equal(t, "Tuition", result.Name)
	assert.Equal(t, tenantID, result.TenantID)
	assert.Equal(t, userID, result.CreatedBy)
	assert.True(t, result.Total().Equal(amt("5500")))
	categoryRepo.AssertExpectations(t)
}

func TestFeeCategoryService_Create_DuplicateName(t *testing.T) {
	svc, categoryRepo, _ := setupFeeCategoryService()
	tenantID := uuid.New()

	categoryRepo.On("GetActiveByName", mock.Anything, tenantID, "Tuition").Return(newCategory(tenantID, "Tuition"), nil)

	result, err := svc.Create(context.Background(), &service.CreateCategoryInput{
		TenantID:   tenantID,
		Name:       "Tuition",
		Components: tuitionComponents(),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrDuplicateCategoryName)
	assert.ErrorIs(t, err, domain.ErrConflict)
	categoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFeeCategoryService_Create_Invalid(t *testing.T) {
	svc, categoryRepo, _ := setupFeeCategoryService()

	_, err := svc.Create(context.Background(), &service.CreateCategoryInput{
		TenantID:   uuid.New(),
		Name:       "Tuition",
		Components: domain.FeeComponents{{Name: "Refund", Amount: amt("-10")}},
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	categoryRepo.AssertNotCalled(t, "GetActiveByName", mock.Anything, mock.Anything, mock.Anything)
}

func TestFeeCategoryService_Create_MissingTenant(t *testing.T) {
	svc, _, _ := setupFeeCategoryService()

	_, err := svc.Create(context.Background(), &service.CreateCategoryInput{Name: "Tuition", Components: tuitionComponents()})

	assert.ErrorIs(t, err, domain.ErrMissingTenant)
}

// --- Update ---

func TestFeeCategoryService_Update_RenameToTakenName(t *testing.T) {
	svc, categoryRepo, _ := setupFeeCategoryService()
	tenantID := uuid.New()
	category := newCategory(tenantID, "Tuition")
	name := "Transport"

	categoryRepo.On("GetByID", mock.Anything, tenantID, category.ID).Return(category, nil)
	categoryRepo.On("GetActiveByName", mock.Anything, tenantID, "Transport").Return(newCategory(tenantID, "Transport"), nil)

	_, err := svc.Update(context.Background(), &service.UpdateCategoryInput{TenantID: tenantID, CategoryID: category.ID, Name: &name})

	assert.ErrorIs(t, err, domain.ErrDuplicateCategoryName)
	categoryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestFeeCategoryService_Update_ComponentsOnly(t *testing.T) {
	svc, categoryRepo, _ := setupFeeCategoryService()
	tenantID := uuid.New()
	category := newCategory(tenantID, "Tuition")
	components := domain.FeeComponents{{Name: "Tuition", Amount: amt("6000")}}

	categoryRepo.On("GetByID", mock.Anything, tenantID, category.ID).Return(category, nil)
	categoryRepo.On("Update", mock.Anything, category).Return(nil)

	result, err := svc.Update(context.Background(), &service.UpdateCategoryInput{TenantID: tenantID, CategoryID: category.ID, Components: &components})

	require.NoError(t, err)
	assert.True(t, result.Total().Equal(amt("6000")))
	categoryRepo.AssertNotCalled(t, "GetActiveByName", mock.Anything, mock.Anything, mock.Anything)
	categoryRepo.AssertNotCalled(t, "SetArchived", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Archive / Unarchive ---

func TestFeeCategoryService_Unarchive_NameTaken(t *testing.T) {
	svc, categoryRepo, _ := setupFeeCategoryService()
	tenantID := uuid.New()
	archived := newCategory(tenantID, "Tuition")
	archived.Archived = true

	categoryRepo.On("GetByID", mock.Anything, tenantID, archived.ID).Return(archived, nil)
	categoryRepo.On("GetActiveByName", mock.Anything, tenantID, "Tuition").Return(newCategory(tenantID, "Tuition"), nil)

	_, err := svc.Unarchive(context.Background(), tenantID, archived.ID)

	assert.ErrorIs(t, err, domain.ErrDuplicateCategoryName)
	categoryRepo.AssertNotCalled(t, "SetArchived", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFeeCategoryService_Unarchive_Success(t *testing.T) {
	svc, categoryRepo, _ := setupFeeCategoryService()
	tenantID := uuid.New()
	archived := newCategory(tenantID, "Tuition")
	archived.Archived = true

	categoryRepo.On("GetByID", mock.Anything, tenantID, archived.ID).Return(archived, nil)
	categoryRepo.On("GetActiveByName", mock.Anything, tenantID, "Tuition").Return(nil, domain.ErrCategoryNotFound)
	categoryRepo.On("SetArchived", mock.Anything, tenantID, archived.ID, false).Return(nil)

	result, err := svc.Unarchive(context.Background(), tenantID, archived.ID)

	require.NoError(t, err)
	assert.False(t, result.Archived)
	categoryRepo.AssertExpectations(t)
}

// --- Duplicate ---

func TestFeeCategoryService_Duplicate(t *testing.T) {
	svc, categoryRepo, _ := setupFeeCategoryService()
	tenantID, userID := uuid.New(), uuid.New()
	source := newCategory(tenantID, "Tuition")
	source.Description = "Grade 1 fees"

	categoryRepo.On("GetByID", mock.Anything, tenantID, source.ID).Return(source, nil)
	categoryRepo.On("GetActiveByName", mock.Anything, tenantID, "Tuition 2025").Return(nil, domain.ErrCategoryNotFound)
	categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FeeCategory")).Return(nil)

	result, err := svc.Duplicate(context.Background(), tenantID, source.ID, "Tuition 2025", userID)

	require.NoError(t, err)
	assert.NotEqual(t, source.ID, result.ID)
	assert.Equal(t, "Tuition 2025", result.Name)
	assert.Equal(t, "Grade 1 fees", result.Description)
	assert.Equal(t, source.Components, result.Components)
	assert.Equal(t, userID, result.CreatedBy)
}

// --- Delete ---

func TestFeeCategoryService_Delete_InUse(t *testing.T) {
	svc, categoryRepo, snapshotRepo := setupFeeCategoryService()
	tenantID := uuid.New()
	category := newCategory(tenantID, "Tuition")

	categoryRepo.On("GetByID", mock.Anything, tenantID, category.ID).Return(category, nil)
	snapshotRepo.On("CountByCategory", mock.Anything, tenantID, category.ID).Return(2, nil)

	err := svc.Delete(context.Background(), tenantID, category.ID)

	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestFeeCategoryService_Delete_Unreferenced(t *testing.T) {
	svc, categoryRepo, snapshotRepo := setupFeeCategoryService()
	tenantID := uuid.New()
	category := newCategory(tenantID, "Tuition")

	categoryRepo.On("GetByID", mock.Anything, tenantID, category.ID).Return(category, nil)
	snapshotRepo.On("CountByCategory", mock.Anything, tenantID, category.ID).Return(0, nil)
	categoryRepo.On("Delete", mock.Anything, tenantID, category.ID).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), tenantID, category.ID))
	categoryRepo.AssertExpectations(t)
}

func TestFeeCategoryService_Delete_NotFound(t *testing.T) {
	svc, categoryRepo, snapshotRepo := setupFeeCategoryService()
	tenantID, categoryID := uuid.New(), uuid.New()

	categoryRepo.On("GetByID", mock.Anything, tenantID, categoryID).Return(nil, domain.ErrCategoryNotFound)

	err := svc.Delete(context.Background(), tenantID, categoryID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	snapshotRepo.AssertNotCalled(t, "CountByCategory", mock.Anything, mock.Anything, mock.Anything)
}

// --- Snapshots ---

func TestFeeCategoryService_CreateSnapshot(t *testing.T) {
	svc, categoryRepo, snapshotRepo := setupFeeCategoryService()
	tenantID := uuid.New()
	category := newCategory(tenantID, "Tuition")

	categoryRepo.On("GetByID", mock.Anything, tenantID, category.ID).Return(category, nil)
	snapshotRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CategorySnapshot")).Return(nil)

	snap, err := svc.CreateSnapshot(context.Background(), tenantID, category.ID)

	require.NoError(t, err)
	assert.Equal(t, category.ID, snap.CategoryID)
	assert.Equal(t, "Tuition", snap.CategoryName)
	assert.True(t, snap.TotalAmount.Equal(amt("5500")))

	// Later edits to the category do not reach the snapshot.
	category.Components[0].Amount = amt("9000")
	assert.True(t, snap.Components[0].Amount.Equal(amt("5000")))
}
