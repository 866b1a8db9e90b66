package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/port"
)

// CreateCategoryInput is the DTO for creating a fee category.
type CreateCategoryInput struct {
	TenantID    uuid.UUID
	CreatedBy   uuid.UUID
	Name        string
	Description string
	Components  domain.FeeComponents
}

// UpdateCategoryInput is a partial patch; nil fields are left unchanged.
type UpdateCategoryInput struct {
	TenantID    uuid.UUID
	CategoryID  uuid.UUID
	Name        *string
	Description *string
	Components  *domain.FeeComponents
	Archived    *bool
}

// FeeCategoryService defines the fee template and snapshot contract.
type FeeCategoryService interface {
	Create(ctx context.Context, input *CreateCategoryInput) (*domain.FeeCategory, error)
	GetByID(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.FeeCategory, error)
	List(ctx context.Context, tenantID uuid.UUID, includeArchived bool) ([]domain.FeeCategory, error)
	Update(ctx context.Context, input *UpdateCategoryInput) (*domain.FeeCategory, error)
	Archive(ctx context.Context, tenantID, categoryID uuid.UUID) error
	Unarchive(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.FeeCategory, error)
	Duplicate(ctx context.Context, tenantID, categoryID uuid.UUID, newName string, createdBy uuid.UUID) (*domain.FeeCategory, error)
	Delete(ctx context.Context, tenantID, categoryID uuid.UUID) error
	CreateSnapshot(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.CategorySnapshot, error)
	ListSnapshots(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.CategorySnapshot, error)
	GetSnapshot(ctx context.Context, tenantID, snapshotID uuid.UUID) (*domain.CategorySnapshot, error)
}

type feeCategoryService struct {
	categoryRepo port.FeeCategoryRepository
	snapshotRepo port.SnapshotRepository
	log          *zap.Logger
	now          func() time.Time
}

// NewFeeCategoryService creates a new FeeCategoryService implementation.
func NewFeeCategoryService(
	categoryRepo port.FeeCategoryRepository,
	snapshotRepo port.SnapshotRepository,
	log *zap.Logger,
) FeeCategoryService {
	return &feeCategoryService{
		categoryRepo: categoryRepo,
		snapshotRepo: snapshotRepo,
		log:          log.Named("feeCategoryService"),
		now:          time.Now,
	}
}

// ensureNameFree fails when an unarchived category other than selfID holds name.
func (s *feeCategoryService) ensureNameFree(ctx context.Context, tenantID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.categoryRepo.GetActiveByName(ctx, tenantID, name)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.ErrDuplicateCategoryName
	}
	return nil
}

func (s *feeCategoryService) Create(ctx context.Context, input *CreateCategoryInput) (*domain.FeeCategory, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}
	category, err := domain.NewFeeCategory(input.TenantID, input.CreatedBy, input.Name, input.Description, input.Components)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, input.TenantID, category.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.log.Info("fee category created",
		zap.Stringer("tenant_id", category.TenantID),
		zap.Stringer("category_id", category.ID),
		zap.String("total", category.Total().StringFixed(2)))
	return category, nil
}

func (s *feeCategoryService) GetByID(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.FeeCategory, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, tenantID, categoryID)
}

func (s *feeCategoryService) List(ctx context.Context, tenantID uuid.UUID, includeArchived bool) ([]domain.FeeCategory, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.categoryRepo.List(ctx, tenantID, includeArchived)
}

func (s *feeCategoryService) Update(ctx context.Context, input *UpdateCategoryInput) (*domain.FeeCategory, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, input.TenantID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	renamed := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		renamed = !strings.EqualFold(name, category.Name)
		category.Name = name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Components != nil {
		category.Components = input.Components.Clone()
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	// The name only has to be unique among active categories, so an
	// archived category being renamed needs no check until it is unarchived.
	willBeActive := !category.Archived
	if input.Archived != nil {
		willBeActive = !*input.Archived
	}
	if willBeActive && (renamed || category.Archived) {
		if err := s.ensureNameFree(ctx, input.TenantID, category.Name, category.ID); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	if input.Archived != nil && *input.Archived != category.Archived {
		if err := s.categoryRepo.SetArchived(ctx, input.TenantID, category.ID, *input.Archived); err != nil {
			return nil, err
		}
		category.Archived = *input.Archived
	}
	return category, nil
}

func (s *feeCategoryService) Archive(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	if err := s.categoryRepo.SetArchived(ctx, tenantID, categoryID, true); err != nil {
		return err
	}
	s.log.Info("fee category archived", zap.Stringer("tenant_id", tenantID), zap.Stringer("category_id", categoryID))
	return nil
}

func (s *feeCategoryService) Unarchive(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.FeeCategory, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.Archived {
		return category, nil
	}
	if err := s.ensureNameFree(ctx, tenantID, category.Name, category.ID); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.SetArchived(ctx, tenantID, categoryID, false); err != nil {
		return nil, err
	}
	category.Archived = false
	return category, nil
}

func (s *feeCategoryService) Duplicate(ctx context.Context, tenantID, categoryID uuid.UUID, newName string, createdBy uuid.UUID) (*domain.FeeCategory, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	source, err := s.categoryRepo.GetByID(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, &CreateCategoryInput{
		TenantID:    tenantID,
		CreatedBy:   createdBy,
		Name:        newName,
		Description: source.Description,
		Components:  source.Components,
	})
}

// Delete hard-deletes a category no snapshot has ever referenced.
func (s *feeCategoryService) Delete(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	if _, err := s.categoryRepo.GetByID(ctx, tenantID, categoryID); err != nil {
		return err
	}
	count, err := s.snapshotRepo.CountByCategory(ctx, tenantID, categoryID)
	if err != nil {
		return fmt.Errorf("feeCategoryService.Delete: %w", err)
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}
	return s.categoryRepo.Delete(ctx, tenantID, categoryID)
}

// CreateSnapshot freezes the category's current components and total.
func (s *feeCategoryService) CreateSnapshot(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.CategorySnapshot, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	snapshot := domain.NewCategorySnapshot(category, s.now())
	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		return nil, err
	}
	s.log.Debug("category snapshot created",
		zap.Stringer("category_id", categoryID),
		zap.Stringer("snapshot_id", snapshot.ID),
		zap.String("total", snapshot.TotalAmount.StringFixed(2)))
	return snapshot, nil
}

func (s *feeCategoryService) ListSnapshots(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.CategorySnapshot, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, tenantID, categoryID); err != nil {
		return nil, err
	}
	return s.snapshotRepo.ListByCategory(ctx, tenantID, categoryID)
}

func (s *feeCategoryService) GetSnapshot(ctx context.Context, tenantID, snapshotID uuid.UUID) (*domain.CategorySnapshot, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.snapshotRepo.GetByID(ctx, tenantID, snapshotID)
}
