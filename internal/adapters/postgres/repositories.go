package postgres

import (
	"context"
	"errors"

	"github.com/caretrack/strokeregistry/internal/domain"
	"gorm.io/gorm"
)

// Repositories bundles the identity-store implementations for injection
// through application.Dependencies.
type Repositories struct {
	Users         *userRepository
	LoginAttempts *loginAttemptRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         &userRepository{db: db},
		LoginAttempts: &loginAttemptRepository{db: db},
	}
}

// translateError maps driver-level failures to the domain taxonomy. Context
// expiry means the store did not answer inside the caller's deadline, which
// the caller sees as a retryable outage rather than driver internals.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.ErrStorageUnavailable
	case errors.Is(err, gorm.ErrInvalidDB):
		return domain.ErrStorageUnavailable
	default:
		return err
	}
}
