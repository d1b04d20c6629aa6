package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/caretrack/strokeregistry/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	ctx := context.Background()
	now := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	session := domain.Session{
		Token:          "tok-1",
		UserID:         7,
		Username:       "alice",
		Role:           domain.RoleStandard,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := s.Put(ctx, session); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := s.Get(ctx, "tok-1")
	if err != nil || !ok {
		t.Fatalf("expected stored session, ok=%v err=%v", ok, err)
	}
	if got != session {
		t.Fatalf("unexpected session: %+v", got)
	}

	later := now.Add(30 * time.Minute)
	if err := s.Touch(ctx, "tok-1", later); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	got, _, _ = s.Get(ctx, "tok-1")
	if !got.LastActivityAt.Equal(later) {
		t.Fatalf("touch did not update activity: %v", got.LastActivityAt)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("touch must not move creation time")
	}

	if err := s.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "tok-1"); ok {
		t.Fatalf("deleted session should be absent")
	}

	// Absent tokens are no-ops, not errors.
	if err := s.Touch(ctx, "missing", later); err != nil {
		t.Fatalf("touch on missing token: %v", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete on missing token: %v", err)
	}
}

func TestSessionStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewSessionStore()
	ctx := context.Background()
	now := time.Now().UTC()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := fmt.Sprintf("tok-%d", n)
			_ = s.Put(ctx, domain.Session{Token: token, CreatedAt: now, LastActivityAt: now})
			_ = s.Touch(ctx, token, now.Add(time.Minute))
			_, _, _ = s.Get(ctx, token)
			_ = s.Delete(ctx, token)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		if _, ok, _ := s.Get(ctx, fmt.Sprintf("tok-%d", i)); ok {
			t.Fatalf("token tok-%d should be deleted", i)
		}
	}
}
