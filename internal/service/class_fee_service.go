package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/port"
)

// AssignCategoryInput is the DTO for binding a fee category to a class.
type AssignCategoryInput struct {
	TenantID        uuid.UUID
	ClassID         uuid.UUID
	CategoryID      uuid.UUID
	AssignedBy      uuid.UUID
	ApplyToExisting bool
}

// BackfillFailure records a challan the backfill could not re-price.
type BackfillFailure struct {
	ChallanID uuid.UUID `json:"challan_id"`
	Reason    string    `json:"reason"`
}

// BackfillResult reports which open challans were re-priced.
type BackfillResult struct {
	SnapshotID uuid.UUID         `json:"snapshot_id"`
	Updated    []uuid.UUID       `json:"updated"`
	Failed     []BackfillFailure `json:"failed"`
}

// AssignmentResult is the outcome of an assignment. Backfill is nil unless
// existing challans were asked to follow the new category.
type AssignmentResult struct {
	Assignment  *domain.ClassFeeAssignment `json:"assignment"`
	Deactivated int                        `json:"deactivated"`
	Backfill    *BackfillResult            `json:"backfill,omitempty"`
}

// ClassFeeService defines the class-to-category assignment contract.
type ClassFeeService interface {
	Assign(ctx context.Context, input *AssignCategoryInput) (*AssignmentResult, error)
	GetActiveCategoryForClass(ctx context.Context, tenantID, classID uuid.UUID) (*domain.FeeCategory, error)
	GetHistory(ctx context.Context, tenantID, classID uuid.UUID) ([]domain.ClassFeeAssignment, error)
	ListClassesUsingCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.ClassFeeAssignment, error)
	Remove(ctx context.Context, tenantID, classID uuid.UUID) error
}

type classFeeService struct {
	assignmentRepo port.ClassFeeAssignmentRepository
	categoryRepo   port.FeeCategoryRepository
	challanRepo    port.ChallanRepository
	paymentRepo    port.PaymentRepository
	directory      port.StudentDirectory
	categorySvc    FeeCategoryService
	maxRetries     int
	log            *zap.Logger
	now            func() time.Time
}

// NewClassFeeService creates a new ClassFeeService implementation.
func NewClassFeeService(
	assignmentRepo port.ClassFeeAssignmentRepository,
	categoryRepo port.FeeCategoryRepository,
	challanRepo port.ChallanRepository,
	paymentRepo port.PaymentRepository,
	directory port.StudentDirectory,
	categorySvc FeeCategoryService,
	maxRetries int,
	log *zap.Logger,
) ClassFeeService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &classFeeService{
		assignmentRepo: assignmentRepo,
		categoryRepo:   categoryRepo,
		challanRepo:    challanRepo,
		paymentRepo:    paymentRepo,
		directory:      directory,
		categorySvc:    categorySvc,
		maxRetries:     maxRetries,
		log:            log.Named("classFeeService"),
		now:            time.Now,
	}
}

// Assign replaces the class's active assignment. With ApplyToExisting the
// class's open challans are re-priced from a fresh snapshot on a best-effort
// basis; backfill failures never undo the assignment.
func (s *classFeeService) Assign(ctx context.Context, input *AssignCategoryInput) (*AssignmentResult, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}
	if _, err := s.directory.GetClass(ctx, input.TenantID, input.ClassID); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, input.TenantID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Archived {
		return nil, fmt.Errorf("%w: archived fee category cannot be assigned", domain.ErrInvalidState)
	}

	assignment, err := domain.NewClassFeeAssignment(input.TenantID, input.ClassID, input.CategoryID, input.AssignedBy, s.now())
	if err != nil {
		return nil, err
	}
	deactivated, err := s.assignmentRepo.Replace(ctx, assignment)
	if err != nil {
		return nil, err
	}
	s.log.Info("fee category assigned",
		zap.Stringer("tenant_id", input.TenantID),
		zap.Stringer("class_id", input.ClassID),
		zap.Stringer("category_id", input.CategoryID),
		zap.Int("deactivated", deactivated))

	result := &AssignmentResult{Assignment: assignment, Deactivated: deactivated}
	if !input.ApplyToExisting {
		return result, nil
	}

	backfill, err := s.backfill(ctx, input.TenantID, input.ClassID, input.CategoryID)
	if err != nil {
		// The assignment stands; report the backfill as entirely failed.
		s.log.Warn("classFeeService.Assign: backfill aborted",
			zap.Stringer("class_id", input.ClassID),
			zap.Error(err))
		backfill = &BackfillResult{
			Updated: []uuid.UUID{},
			Failed:  []BackfillFailure{{Reason: err.Error()}},
		}
	}
	result.Backfill = backfill
	return result, nil
}

func (s *classFeeService) backfill(ctx context.Context, tenantID, classID, categoryID uuid.UUID) (*BackfillResult, error) {
	snapshot, err := s.categorySvc.CreateSnapshot(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	challans, _, err := s.challanRepo.List(ctx, domain.ChallanFilter{
		TenantID: tenantID,
		ClassID:  &classID,
		Statuses: []domain.ChallanStatus{domain.ChallanStatusPending, domain.ChallanStatusUnpaid},
	})
	if err != nil {
		return nil, err
	}

	result := &BackfillResult{SnapshotID: snapshot.ID, Updated: []uuid.UUID{}, Failed: []BackfillFailure{}}
	for i := range challans {
		challanID := challans[i].ID
		repriced, err := s.repriceOne(ctx, &challans[i], snapshot)
		if err != nil {
			s.log.Warn("classFeeService.backfill: challan skipped",
				zap.Stringer("challan_id", challanID),
				zap.Error(err))
			result.Failed = append(result.Failed, BackfillFailure{ChallanID: challanID, Reason: err.Error()})
			continue
		}
		if repriced {
			result.Updated = append(result.Updated, challanID)
		}
	}

	s.log.Info("open challans re-priced",
		zap.Stringer("class_id", classID),
		zap.Int("updated", len(result.Updated)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// repriceOne re-prices a challan under its version guard. A lost race reloads
// the challan; one that has meanwhile become partially or fully paid is left
// alone and reported as not repriced.
func (s *classFeeService) repriceOne(ctx context.Context, challan *domain.Challan, snapshot *domain.CategorySnapshot) (bool, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		if !challan.Status.IsOpen() {
			return false, nil
		}
		payments, err := s.paymentRepo.ListByChallan(ctx, challan.TenantID, challan.ID)
		if err != nil {
			return false, err
		}
		expected := challan.Version
		challan.Reprice(snapshot, payments)
		err = s.challanRepo.Reprice(ctx, challan, expected)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, domain.ErrStaleVersion) {
			return false, err
		}
		fresh, err := s.challanRepo.GetByID(ctx, challan.TenantID, challan.ID)
		if err != nil {
			return false, err
		}
		*challan = *fresh
	}
	return false, domain.ErrConcurrentUpdate
}

func (s *classFeeService) GetActiveCategoryForClass(ctx context.Context, tenantID, classID uuid.UUID) (*domain.FeeCategory, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	assignment, err := s.assignmentRepo.GetActive(ctx, tenantID, classID)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, tenantID, assignment.CategoryID)
}

func (s *classFeeService) GetHistory(ctx context.Context, tenantID, classID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListHistory(ctx, tenantID, classID)
}

func (s *classFeeService) ListClassesUsingCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListActiveByCategory(ctx, tenantID, categoryID)
}

// Remove deactivates the class's assignment without a replacement.
func (s *classFeeService) Remove(ctx context.Context, tenantID, classID uuid.UUID) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	n, err := s.assignmentRepo.Deactivate(ctx, tenantID, classID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAssignmentNotFound
	}
	s.log.Info("fee assignment removed", zap.Stringer("tenant_id", tenantID), zap.Stringer("class_id", classID))
	return nil
}
