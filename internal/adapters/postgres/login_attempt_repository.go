package postgres

import (
	"context"

	"github.com/caretrack/strokeregistry/internal/domain"
	"gorm.io/gorm"
)

type loginAttemptRepository struct {
	db *gorm.DB
}

func (r *loginAttemptRepository) Insert(ctx context.Context, attempt domain.LoginAttempt) error {
	rec := loginAttemptModel{
		Username:    attempt.Username,
		Succeeded:   attempt.Succeeded,
		Reason:      attempt.Reason,
		RemoteAddr:  nullableString(attempt.RemoteAddr),
		AttemptedAt: attempt.AttemptedAt,
	}
	return translateError(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *loginAttemptRepository) ListRecent(ctx context.Context, limit int) ([]domain.LoginAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []loginAttemptModel
	if err := r.db.WithContext(ctx).Order("attempted_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	result := make([]domain.LoginAttempt, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainLoginAttempt(row))
	}
	return result, nil
}
