package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"khushi/internal/domain"
	"khushi/internal/port"
)

// StatsService provides read-only fee statistics.
type StatsService interface {
	// GetFeeStats rolls up expected and collected fees for the tenant, or for
	// one class when classID is set.
	GetFeeStats(ctx context.Context, tenantID uuid.UUID, classID *uuid.UUID) (*domain.FeeStats, error)
}

type statsService struct {
	directory      port.StudentDirectory
	assignmentRepo port.ClassFeeAssignmentRepository
	categoryRepo   port.FeeCategoryRepository
	snapshotRepo   port.SnapshotRepository
	paymentRepo    port.PaymentRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(
	directory port.StudentDirectory,
	assignmentRepo port.ClassFeeAssignmentRepository,
	categoryRepo port.FeeCategoryRepository,
	snapshotRepo port.SnapshotRepository,
	paymentRepo port.PaymentRepository,
) StatsService {
	return &statsService{
		directory:      directory,
		assignmentRepo: assignmentRepo,
		categoryRepo:   categoryRepo,
		snapshotRepo:   snapshotRepo,
		paymentRepo:    paymentRepo,
	}
}

func (s *statsService) GetFeeStats(ctx context.Context, tenantID uuid.UUID, classID *uuid.UUID) (*domain.FeeStats, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	var in domain.FeeStatsInput
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Students, err = s.directory.ListStudents(gctx, tenantID, classID)
		return err
	})
	g.Go(func() (err error) {
		in.Classes, err = s.directory.ListClasses(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		in.ActiveAssignments, err = s.assignmentRepo.ListActive(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		// Archived categories still price the classes they are assigned to.
		in.Categories, err = s.categoryRepo.List(gctx, tenantID, true)
		return err
	})
	g.Go(func() (err error) {
		in.LatestSnapshots, err = s.snapshotRepo.LatestByCategory(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		in.Payments, err = s.paymentRepo.ListByTenant(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("statsService.GetFeeStats: %w", err)
	}

	return domain.AggregateFeeStats(in), nil
}
