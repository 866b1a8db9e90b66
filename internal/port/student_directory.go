package port

import (
	"context"

	"github.com/google/uuid"

	"khushi/internal/domain"
)

// StudentDirectory is the read-only view of the student and class records
// owned by the school administration collaborator.
type StudentDirectory interface {
	GetStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*domain.Student, error)
	GetStudentByAdmissionNo(ctx context.Context, tenantID uuid.UUID, admissionNo string) (*domain.Student, error)
	GetClass(ctx context.Context, tenantID, classID uuid.UUID) (*domain.Class, error)
	GetClassByName(ctx context.Context, tenantID uuid.UUID, name string) (*domain.Class, error)
	ListStudents(ctx context.Context, tenantID uuid.UUID, classID *uuid.UUID) ([]domain.Student, error)
	ListClasses(ctx context.Context, tenantID uuid.UUID) ([]domain.Class, error)
}
