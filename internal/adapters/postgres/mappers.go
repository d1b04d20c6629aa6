package postgres

import (
	"errors"
	"strings"

	"github.com/caretrack/strokeregistry/internal/domain"
	"gorm.io/gorm"
)

func toDomainUser(row userModel) domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
		CreatedAt:    row.CreatedAt,
		LastLoginAt:  row.LastLoginAt,
	}
}

func toDomainLoginAttempt(row loginAttemptModel) domain.LoginAttempt {
	addr := ""
	if row.RemoteAddr != nil {
		addr = *row.RemoteAddr
	}
	return domain.LoginAttempt{
		ID:          row.ID,
		Username:    row.Username,
		Succeeded:   row.Succeeded,
		Reason:      row.Reason,
		RemoteAddr:  addr,
		AttemptedAt: row.AttemptedAt,
	}
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
