package service

import (
	"context"

	"github.com/google/uuid"

	"khushi/internal/domain"
	"khushi/internal/port"
)

// resolveStudent looks ref up as an id first and falls back to the admission
// number. An unresolvable ref is domain.ErrStudentNotFound.
func resolveStudent(ctx context.Context, dir port.StudentDirectory, tenantID uuid.UUID, ref string) (*domain.Student, error) {
	ref = refOrEmpty(ref)
	if ref == "" {
		return nil, domain.ErrStudentNotFound
	}
	if id, err := uuid.Parse(ref); err == nil {
		student, err := dir.GetStudent(ctx, tenantID, id)
		if err == nil {
			return student, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	student, err := dir.GetStudentByAdmissionNo(ctx, tenantID, ref)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// resolveClass looks ref up as an id first and falls back to the class name.
func resolveClass(ctx context.Context, dir port.StudentDirectory, tenantID uuid.UUID, ref string) (*domain.Class, error) {
	ref = refOrEmpty(ref)
	if ref == "" {
		return nil, domain.ErrClassNotFound
	}
	if id, err := uuid.Parse(ref); err == nil {
		class, err := dir.GetClass(ctx, tenantID, id)
		if err == nil {
			return class, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	class, err := dir.GetClassByName(ctx, tenantID, ref)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}
