package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/port"
)

// CreateChallanInput is the DTO for billing one student. StudentRef and
// ClassRef accept an id or a natural key (admission number, class name).
type CreateChallanInput struct {
	TenantID   uuid.UUID
	StudentRef string
	ClassRef   string
	CategoryID uuid.UUID
	DueDate    time.Time
	IssueDate  *time.Time
	Notes      string
}

// BulkChallanInput is the DTO for billing several students of one class.
type BulkChallanInput struct {
	TenantID    uuid.UUID
	ClassRef    string
	StudentRefs []string
	CategoryID  uuid.UUID
	DueDate     time.Time
	IssueDate   *time.Time
}

// BulkChallanFailure records why one student of a batch was skipped.
type BulkChallanFailure struct {
	StudentRef string `json:"student_ref"`
	Reason     string `json:"reason"`
}

// BulkChallanResult is a partial-success result: Created holds every challan
// that was persisted, Failed every student that was skipped.
type BulkChallanResult struct {
	Created []domain.Challan     `json:"created"`
	Failed  []BulkChallanFailure `json:"failed"`
}

// UpdateChallanInput patches the directly settable challan fields.
type UpdateChallanInput struct {
	TenantID  uuid.UUID
	ChallanID uuid.UUID
	DueDate   *time.Time
	Status    *domain.ChallanStatus
	Notes     *string
}

// ChallanWithPayments is a challan together with its payment history.
type ChallanWithPayments struct {
	Challan  *domain.Challan  `json:"challan"`
	Payments []domain.Payment `json:"payments"`
}

// ChallanService defines the bill generation and query contract.
type ChallanService interface {
	CreateFromCategory(ctx context.Context, input *CreateChallanInput) (*domain.Challan, error)
	CreateBulk(ctx context.Context, input *BulkChallanInput) (*BulkChallanResult, error)
	GetByID(ctx context.Context, tenantID, challanID uuid.UUID) (*domain.Challan, error)
	GetWithPayments(ctx context.Context, tenantID, challanID uuid.UUID) (*ChallanWithPayments, error)
	ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]domain.Challan, error)
	ListByClass(ctx context.Context, tenantID, classID uuid.UUID) ([]domain.Challan, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status domain.ChallanStatus) ([]domain.Challan, error)
	Search(ctx context.Context, filter domain.ChallanFilter) ([]domain.Challan, int, error)
	Update(ctx context.Context, input *UpdateChallanInput) (*domain.Challan, error)
	Delete(ctx context.Context, tenantID, challanID uuid.UUID) error
}

type challanService struct {
	challanRepo port.ChallanRepository
	paymentRepo port.PaymentRepository
	directory   port.StudentDirectory
	categorySvc FeeCategoryService
	log         *zap.Logger
}

// NewChallanService creates a new ChallanService implementation.
func NewChallanService(
	challanRepo port.ChallanRepository,
	paymentRepo port.PaymentRepository,
	directory port.StudentDirectory,
	categorySvc FeeCategoryService,
	log *zap.Logger,
) ChallanService {
	return &challanService{
		challanRepo: challanRepo,
		paymentRepo: paymentRepo,
		directory:   directory,
		categorySvc: categorySvc,
		log:         log.Named("challanService"),
	}
}

func issueDateOf(issueDate *time.Time) time.Time {
	if issueDate == nil {
		return time.Time{}
	}
	return *issueDate
}

// CreateFromCategory resolves the student and class, snapshots the category
// and persists an unpaid challan priced from the snapshot.
func (s *challanService) CreateFromCategory(ctx context.Context, input *CreateChallanInput) (*domain.Challan, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}
	student, err := resolveStudent(ctx, s.directory, input.TenantID, input.StudentRef)
	if err != nil {
		return nil, err
	}
	class, err := resolveClass(ctx, s.directory, input.TenantID, input.ClassRef)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.categorySvc.CreateSnapshot(ctx, input.TenantID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	challan, err := domain.NewChallan(input.TenantID, student.ID, class.ID, snapshot, issueDateOf(input.IssueDate), input.DueDate)
	if err != nil {
		return nil, err
	}
	challan.Notes = input.Notes
	if err := s.challanRepo.Create(ctx, challan); err != nil {
		return nil, err
	}

	s.log.Info("challan created",
		zap.Stringer("tenant_id", input.TenantID),
		zap.Stringer("challan_id", challan.ID),
		zap.Stringer("student_id", student.ID),
		zap.String("total", challan.TotalAmount.StringFixed(2)))
	return challan, nil
}

// CreateBulk bills every listed student against one shared snapshot. A
// student that cannot be billed is recorded in Failed and the batch goes on.
// A missing class or category fails the whole call since nothing can be billed.
func (s *challanService) CreateBulk(ctx context.Context, input *BulkChallanInput) (*BulkChallanResult, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}
	class, err := resolveClass(ctx, s.directory, input.TenantID, input.ClassRef)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.categorySvc.CreateSnapshot(ctx, input.TenantID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	result := &BulkChallanResult{
		Created: make([]domain.Challan, 0, len(input.StudentRefs)),
		Failed:  []BulkChallanFailure{},
	}
	issueDate := issueDateOf(input.IssueDate)
	for _, ref := range input.StudentRefs {
		challan, err := s.createForStudent(ctx, input.TenantID, ref, class.ID, snapshot, issueDate, input.DueDate)
		if err != nil {
			s.log.Warn("challanService.CreateBulk: student skipped",
				zap.Stringer("tenant_id", input.TenantID),
				zap.String("student_ref", ref),
				zap.Error(err))
			result.Failed = append(result.Failed, BulkChallanFailure{StudentRef: ref, Reason: err.Error()})
			continue
		}
		result.Created = append(result.Created, *challan)
	}

	s.log.Info("bulk challans created",
		zap.Stringer("tenant_id", input.TenantID),
		zap.Stringer("class_id", class.ID),
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

func (s *challanService) createForStudent(ctx context.Context, tenantID uuid.UUID, ref string, classID uuid.UUID,
	snapshot *domain.CategorySnapshot, issueDate, dueDate time.Time) (*domain.Challan, error) {
	student, err := resolveStudent(ctx, s.directory, tenantID, ref)
	if err != nil {
		return nil, err
	}
	challan, err := domain.NewChallan(tenantID, student.ID, classID, snapshot, issueDate, dueDate)
	if err != nil {
		return nil, err
	}
	if err := s.challanRepo.Create(ctx, challan); err != nil {
		return nil, err
	}
	return challan, nil
}

func (s *challanService) GetByID(ctx context.Context, tenantID, challanID uuid.UUID) (*domain.Challan, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.challanRepo.GetByID(ctx, tenantID, challanID)
}

func (s *challanService) GetWithPayments(ctx context.Context, tenantID, challanID uuid.UUID) (*ChallanWithPayments, error) {
	challan, err := s.GetByID(ctx, tenantID, challanID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByChallan(ctx, tenantID, challanID)
	if err != nil {
		return nil, fmt.Errorf("challanService.GetWithPayments: %w", err)
	}
	return &ChallanWithPayments{Challan: challan, Payments: payments}, nil
}

func (s *challanService) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]domain.Challan, error) {
	challans, _, err := s.Search(ctx, domain.ChallanFilter{TenantID: tenantID, StudentID: &studentID})
	return challans, err
}

func (s *challanService) ListByClass(ctx context.Context, tenantID, classID uuid.UUID) ([]domain.Challan, error) {
	challans, _, err := s.Search(ctx, domain.ChallanFilter{TenantID: tenantID, ClassID: &classID})
	return challans, err
}

func (s *challanService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status domain.ChallanStatus) ([]domain.Challan, error) {
	if !domain.ValidChallanStatuses[status] {
		return nil, domain.ErrInvalidChallanState
	}
	challans, _, err := s.Search(ctx, domain.ChallanFilter{TenantID: tenantID, Statuses: []domain.ChallanStatus{status}})
	return challans, err
}

func (s *challanService) Search(ctx context.Context, filter domain.ChallanFilter) ([]domain.Challan, int, error) {
	if err := requireTenant(filter.TenantID); err != nil {
		return nil, 0, err
	}
	for _, st := range filter.Statuses {
		if !domain.ValidChallanStatuses[st] {
			return nil, 0, domain.ErrInvalidChallanState
		}
	}
	return s.challanRepo.List(ctx, filter)
}

// Update applies a manual patch. A status set here is an override that the
// next payment event replaces with the derived status.
func (s *challanService) Update(ctx context.Context, input *UpdateChallanInput) (*domain.Challan, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}
	challan, err := s.challanRepo.GetByID(ctx, input.TenantID, input.ChallanID)
	if err != nil {
		return nil, err
	}
	if input.DueDate != nil {
		if input.DueDate.IsZero() {
			return nil, fmt.Errorf("%w: due_date must be set", domain.ErrValidation)
		}
		challan.DueDate = input.DueDate.UTC()
	}
	if input.Status != nil {
		if !domain.ValidChallanStatuses[*input.Status] {
			return nil, domain.ErrInvalidChallanState
		}
		challan.Status = *input.Status
	}
	if input.Notes != nil {
		challan.Notes = *input.Notes
	}
	if err := s.challanRepo.UpdateDetails(ctx, challan); err != nil {
		return nil, err
	}
	return challan, nil
}

// Delete removes a challan that has no payments.
func (s *challanService) Delete(ctx context.Context, tenantID, challanID uuid.UUID) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	count, err := s.paymentRepo.CountByChallan(ctx, tenantID, challanID)
	if err != nil {
		return fmt.Errorf("challanService.Delete: %w", err)
	}
	if count > 0 {
		return domain.ErrChallanHasPayments
	}
	if err := s.challanRepo.Delete(ctx, tenantID, challanID); err != nil {
		return err
	}
	s.log.Info("challan deleted", zap.Stringer("tenant_id", tenantID), zap.Stringer("challan_id", challanID))
	return nil
}
