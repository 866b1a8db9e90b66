package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"khushi/internal/domain"
	"khushi/internal/port"
)

type studentDirectoryRepo struct {
	db *sqlx.DB
}

// NewStudentDirectoryRepo creates a StudentDirectory over the students and
// classes tables mirrored from school administration.
func NewStudentDirectoryRepo(db *sqlx.DB) port.StudentDirectory {
	return &studentDirectoryRepo{db: db}
}

const studentColumns = "id, tenant_id, class_id, admission_no, full_name"

func (r *studentDirectoryRepo) GetStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*domain.Student, error) {
	var s domain.Student
	err := r.db.GetContext(ctx, &s,
		"SELECT "+studentColumns+" FROM students WHERE id = $1 AND tenant_id = $2", studentID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("studentDirectoryRepo.GetStudent: %w", err)
	}
	return &s, nil
}

func (r *studentDirectoryRepo) GetStudentByAdmissionNo(ctx context.Context, tenantID uuid.UUID, admissionNo string) (*domain.Student, error) {
	var s domain.Student
	err := r.db.GetContext(ctx, &s,
		"SELECT "+studentColumns+" FROM students WHERE tenant_id = $1 AND admission_no = $2", tenantID, admissionNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("studentDirectoryRepo.GetStudentByAdmissionNo: %w", err)
	}
	return &s, nil
}

func (r *studentDirectoryRepo) GetClass(ctx context.Context, tenantID, classID uuid.UUID) (*domain.Class, error) {
	var c domain.Class
	err := r.db.GetContext(ctx, &c,
		"SELECT id, tenant_id, name FROM classes WHERE id = $1 AND tenant_id = $2", classID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClassNotFound
		}
		return nil, fmt.Errorf("studentDirectoryRepo.GetClass: %w", err)
	}
	return &c, nil
}

func (r *studentDirectoryRepo) GetClassByName(ctx context.Context, tenantID uuid.UUID, name string) (*domain.Class, error) {
	var c domain.Class
	err := r.db.GetContext(ctx, &c,
		"SELECT id, tenant_id, name FROM classes WHERE tenant_id = $1 AND lower(name) = lower($2)", tenantID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClassNotFound
		}
		return nil, fmt.Errorf("studentDirectoryRepo.GetClassByName: %w", err)
	}
	return &c, nil
}

func (r *studentDirectoryRepo) ListStudents(ctx context.Context, tenantID uuid.UUID, classID *uuid.UUID) ([]domain.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE tenant_id = $1"
	args := []interface{}{tenantID}
	if classID != nil {
		query += " AND class_id = $2"
		args = append(args, *classID)
	}
	query += " ORDER BY full_name"

	var students []domain.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("studentDirectoryRepo.ListStudents: %w", err)
	}
	return students, nil
}

func (r *studentDirectoryRepo) ListClasses(ctx context.Context, tenantID uuid.UUID) ([]domain.Class, error) {
	var classes []domain.Class
	err := r.db.SelectContext(ctx, &classes,
		"SELECT id, tenant_id, name FROM classes WHERE tenant_id = $1 ORDER BY name", tenantID)
	if err != nil {
		return nil, fmt.Errorf("studentDirectoryRepo.ListClasses: %w", err)
	}
	return classes, nil
}
