package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"khushi/internal/domain"
)

func requireTenant(tenantID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return domain.ErrMissingTenant
	}
	return nil
}

// isNotFound reports whether err is any not-found kind.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// refOrEmpty trims a caller-supplied reference (id or natural key).
func refOrEmpty(ref string) string {
	return strings.TrimSpace(ref)
}
