package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// ListUsers returns all identities without credential material. Admin-only;
// the transport enforces the role before calling in.
func (s *Service) ListUsers(ctx context.Context) ([]domain.Identity, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	users, err := s.users.List(sctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}

	identities := make([]domain.Identity, 0, len(users))
	for _, u := range users {
		identities = append(identities, domain.Identity{
			ID:       u.ID,
			Username: u.Username,
			Role:     u.Role,
		})
	}
	return identities, nil
}

// ChangeUserRole updates a user's stored role. Live sessions keep the role
// they were issued with; the change lands at the target's next login.
func (s *Service) ChangeUserRole(ctx context.Context, actor domain.Identity, userID int64, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	target, err := s.users.GetByID(sctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateRole(sctx, userID, role); err != nil {
		return err
	}

	s.emit(domain.AuditRoleChanged, domain.AuditOutcomeSuccess, actorName(actor), target.Username, map[string]string{
		"user_id": strconv.FormatInt(userID, 10),
		"role":    string(role),
	})
	return nil
}

// RecentLoginAttempts exposes the newest authentication outcomes for the
// admin activity panel.
func (s *Service) RecentLoginAttempts(ctx context.Context, limit int) ([]domain.LoginAttempt, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	return s.loginAttempts.ListRecent(sctx, limit)
}

// BootstrapAdmin seeds the first admin account when the identity store is
// empty. Safe to call on every startup: it does nothing once any user
// exists, and a racing creation that lands first just wins.
func (s *Service) BootstrapAdmin(ctx context.Context, username, email, password string) error {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()

	count, err := s.users.Count(sctx)
	if err != nil {
		return fmt.Errorf("count identities: %w", err)
	}
	if count > 0 {
		return nil
	}

	normalized, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	normalizedEmail, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.users.Create(sctx, domain.User{
		Username:     normalized,
		Email:        normalizedEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    s.nowFn(),
	})
	if errors.Is(err, domain.ErrConflict) {
		return nil
	}
	return err
}
