package application

import (
	"context"
	"fmt"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// Authorize resolves a session token to the identity and role snapshotted at
// login. A session idle for longer than the timeout is treated as absent and
// evicted lazily; at exactly the threshold it is still valid. Valid sessions
// get their activity time refreshed (sliding expiry), capped by the optional
// absolute lifetime. The role is the issuance-time snapshot: a role change
// takes effect at the next login, not retroactively.
func (s *Service) Authorize(ctx context.Context, token string, requiredRole domain.Role) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrNoSession
	}

	session, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return domain.Identity{}, domain.ErrNoSession
	}

	now := s.nowFn()
	expired := now.Sub(session.LastActivityAt) > s.cfg.IdleTimeout
	if s.cfg.AbsoluteLifetime > 0 && now.Sub(session.CreatedAt) > s.cfg.AbsoluteLifetime {
		expired = true
	}
	if expired {
		_ = s.sessions.Delete(ctx, token)
		return domain.Identity{}, domain.ErrSessionExpired
	}

	if err := s.sessions.Touch(ctx, token, now); err != nil {
		appLogger().WarnContext(ctx, "failed to refresh session activity",
			"operation", "authorize",
			"outcome", "warning",
			"error", err,
		)
	}

	if requiredRole == domain.RoleAdmin && session.Role != domain.RoleAdmin {
		s.emit(domain.AuditAuthorizationDenied, domain.AuditOutcomeDenied, session.Username, "", map[string]string{
			"required_role": string(requiredRole),
		})
		return domain.Identity{}, domain.ErrInsufficientRole
	}

	return domain.Identity{
		ID:       session.UserID,
		Username: session.Username,
		Role:     session.Role,
	}, nil
}

// Logout removes the session unconditionally. Idempotent: an absent or
// already-expired token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
