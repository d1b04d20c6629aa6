package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// Authenticate runs the full login flow: rate limiter first, then the
// credential store, then the hasher. Unknown usernames and wrong passwords
// are indistinguishable to the caller; both surface ErrInvalidCredentials.
// A throttled attempt is rejected before any credential work happens.
func (s *Service) Authenticate(ctx context.Context, req AuthenticateRequest) (AuthenticateResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return AuthenticateResponse{}, domain.ErrInvalidCredentials
	}

	allowed, err := s.limiter.CheckAndRecord(ctx, username)
	if err != nil {
		// A broken limiter must not lock everyone out; log and continue.
		appLogger().WarnContext(ctx, "attempt limiter unavailable",
			"operation", "authenticate",
			"outcome", "warning",
			"error", err,
		)
		allowed = true
	}
	if !allowed {
		s.recordAttempt(ctx, username, false, "rate_limited", req.RemoteAddr)
		s.emit(domain.AuditRateLimited, domain.AuditOutcomeDenied, domain.AuditActorAnonymous, username, nil)
		return AuthenticateResponse{}, domain.ErrRateLimited
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	user, err := s.users.GetByUsername(sctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordAttempt(ctx, username, false, "unknown_username", req.RemoteAddr)
			s.emit(domain.AuditLoginFailure, domain.AuditOutcomeDenied, domain.AuditActorAnonymous, username, nil)
			return AuthenticateResponse{}, domain.ErrInvalidCredentials
		}
		return AuthenticateResponse{}, fmt.Errorf("load identity: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.recordAttempt(ctx, username, false, "invalid_password", req.RemoteAddr)
		s.emit(domain.AuditLoginFailure, domain.AuditOutcomeDenied, domain.AuditActorAnonymous, username, nil)
		return AuthenticateResponse{}, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, username); err != nil {
		appLogger().WarnContext(ctx, "attempt limiter reset failed",
			"operation", "authenticate",
			"outcome", "warning",
			"error", err,
		)
	}

	token, err := s.tokens.NewToken()
	if err != nil {
		return AuthenticateResponse{}, fmt.Errorf("issue session token: %w", err)
	}

	now := s.nowFn()
	session := domain.Session{
		Token:          token,
		UserID:         user.ID,
		Username:       user.Username,
		Role:           user.Role,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return AuthenticateResponse{}, fmt.Errorf("store session: %w", err)
	}

	if err := s.users.RecordLogin(sctx, user.ID, now); err != nil {
		appLogger().WarnContext(ctx, "failed to stamp last login",
			"operation", "authenticate",
			"outcome", "warning",
			"error", err,
		)
	}

	s.recordAttempt(ctx, username, true, "", req.RemoteAddr)
	s.emit(domain.AuditLoginSuccess, domain.AuditOutcomeSuccess, user.Username, "", nil)

	return AuthenticateResponse{
		Token: token,
		Identity: domain.Identity{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

// Register creates a new standard-role identity. Username and email are
// sanitized before validation; the password never is. Duplicate detection
// belongs to the store's unique indexes, so a conflict here is authoritative
// even under racing registrations.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (domain.Identity, error) {
	username, err := normalizeUsername(req.Username)
	if err != nil {
		return domain.Identity{}, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return domain.Identity{}, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	user, err := s.users.Create(sctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleStandard,
		CreatedAt:    s.nowFn(),
	})
	if err != nil {
		return domain.Identity{}, err
	}

	s.emit(domain.AuditRegistration, domain.AuditOutcomeSuccess, user.Username, "", nil)
	return domain.Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
