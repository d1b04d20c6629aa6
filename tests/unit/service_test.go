package unit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/caretrack/strokeregistry/internal/adapters/memory"
	"github.com/caretrack/strokeregistry/internal/application"
	"github.com/caretrack/strokeregistry/internal/domain"
	"github.com/caretrack/strokeregistry/internal/ports"
)

func TestRegisterLoginLogout(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	identity, err := f.service.Register(ctx, application.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "SecurePass123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if identity.ID == 0 {
		t.Fatalf("register returned empty user id")
	}
	if identity.Role != domain.RoleStandard {
		t.Fatalf("expected standard role, got %s", identity.Role)
	}

	loginRes, err := f.service.Authenticate(ctx, application.AuthenticateRequest{
		Username: "alice",
		Password: "SecurePass123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loginRes.Token == "" {
		t.Fatalf("login token should not be empty")
	}

	got, err := f.service.Authorize(ctx, loginRes.Token, domain.RoleStandard)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("expected alice, got %s", got.Username)
	}

	if err := f.service.Logout(ctx, loginRes.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := f.service.Authorize(ctx, loginRes.Token, domain.RoleStandard); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected no session after logout, got %v", err)
	}
	// Logout is idempotent.
	if err := f.service.Logout(ctx, loginRes.Token); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}
}

func TestRegisterDuplicateUsernameConflict(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.Register(ctx, application.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := f.service.Register(ctx, application.RegisterRequest{
		Username: "alice",
		Email:    "alice2@example.com",
		Password: "SecurePass123",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate username, got %v", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.Register(ctx, application.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, unknownErr := f.service.Authenticate(ctx, application.AuthenticateRequest{
		Username: "nobody",
		Password: "SecurePass123",
	})
	_, wrongErr := f.service.Authenticate(ctx, application.AuthenticateRequest{
		Username: "alice",
		Password: "WrongPass123",
	})
	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown username, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("denial messages must be indistinguishable: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginRateLimiting(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.Register(ctx, application.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		_, err := f.service.Authenticate(ctx, application.AuthenticateRequest{
			Username: "alice",
			Password: "WrongPass123",
		})
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected invalid credentials, got %v", i+1, err)
		}
	}

	// Sixth attempt inside the window is throttled even with the right password.
	_, err := f.service.Authenticate(ctx, application.AuthenticateRequest{
		Username: "alice",
		Password: "SecurePass123",
	})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected rate limited on sixth attempt, got %v", err)
	}

	// Other usernames are unaffected.
	if _, err := f.service.Register(ctx, application.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("register bob failed: %v", err)
	}
	if _, err := f.service.Authenticate(ctx, application.AuthenticateRequest{
		Username: "bob",
		Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("bob login should not be throttled: %v", err)
	}

	// A fresh window admits alice again, and success resets the counter.
	f.clock.Advance(61 * time.Second)
	if _, err := f.service.Authenticate(ctx, application.AuthenticateRequest{
		Username: "alice",
		Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("login after window should succeed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := f.service.Authenticate(ctx, application.AuthenticateRequest{
			Username: "alice",
			Password: "WrongPass123",
		}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("post-reset attempt %d: expected invalid credentials, got %v", i+1, err)
		}
	}
}

func TestLoginProceedsWhenLimiterUnavailable(t *testing.T) {
	t.Parallel()

	// Throttling is an availability guard, not an authorization control: a
	// broken limiter backend must not lock every account out. Credential
	// checks still run in full.
	f := newFixtureWithLimiter(defaultTestConfig(), failingLimiter{})
	ctx := context.Background()
	token := f.login(t, "alice", "SecurePass123")

	if _, err := f.service.Authorize(ctx, token, domain.RoleStandard); err != nil {
		t.Fatalf("session from limiter-down login should work: %v", err)
	}
	if _, err := f.service.Authenticate(ctx, application.AuthenticateRequest{
		Username: "alice",
		Password: "WrongPass123",
	}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password must still be rejected, got %v", err)
	}
}

func TestAuthorizeIdleExpiryBoundary(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	token := f.login(t, "alice", "SecurePass123")

	// Exactly at the idle threshold the session is still valid.
	f.clock.Advance(2 * time.Hour)
	if _, err := f.service.Authorize(ctx, token, domain.RoleStandard); err != nil {
		t.Fatalf("authorize at exact threshold should pass: %v", err)
	}

	// The passing validate refreshed activity, so another full window works.
	f.clock.Advance(2 * time.Hour)
	if _, err := f.service.Authorize(ctx, token, domain.RoleStandard); err != nil {
		t.Fatalf("sliding expiry should keep active session alive: %v", err)
	}

	// One instant past the threshold the session is gone and stays gone.
	f.clock.Advance(2*time.Hour + time.Nanosecond)
	if _, err := f.service.Authorize(ctx, token, domain.RoleStandard); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if _, err := f.service.Authorize(ctx, token, domain.RoleStandard); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expired session should be evicted, got %v", err)
	}
}

func TestAuthorizeAbsoluteLifetimeCap(t *testing.T) {
	t.Parallel()

	cfg := defaultTestConfig()
	cfg.AbsoluteLifetime = 5 * time.Hour
	f := newFixtureWithConfig(cfg)
	ctx := context.Background()
	token := f.login(t, "alice", "SecurePass123")

	// Keep the session active well inside the idle window.
	for i := 0; i < 5; i++ {
		f.clock.Advance(time.Hour)
		_, err := f.service.Authorize(ctx, token, domain.RoleStandard)
		if i < 4 && err != nil {
			t.Fatalf("authorize %d failed: %v", i+1, err)
		}
		if i == 4 && err != nil {
			t.Fatalf("authorize at exact absolute cap should pass: %v", err)
		}
	}

	f.clock.Advance(time.Nanosecond)
	if _, err := f.service.Authorize(ctx, token, domain.RoleStandard); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected absolute lifetime expiry, got %v", err)
	}
}

func TestAuthorizeRoleEnforcement(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	token := f.login(t, "alice", "SecurePass123")

	if _, err := f.service.Authorize(ctx, token, domain.RoleAdmin); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected insufficient role, got %v", err)
	}
	// Denial does not kill the session.
	if _, err := f.service.Authorize(ctx, token, domain.RoleStandard); err != nil {
		t.Fatalf("session should survive a role denial: %v", err)
	}
	if !f.audit.has(domain.AuditAuthorizationDenied) {
		t.Fatalf("expected authorization_denied audit event")
	}

	if _, err := f.service.Authorize(ctx, "", domain.RoleStandard); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected no session for empty token, got %v", err)
	}
	if _, err := f.service.Authorize(ctx, "bogus-token", domain.RoleStandard); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected no session for unknown token, got %v", err)
	}
}

func TestRoleChangeAppliesAtNextLogin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	token := f.login(t, "alice", "SecurePass123")

	alice, err := f.users.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("load alice: %v", err)
	}
	admin := domain.Identity{ID: 99, Username: "root", Role: domain.RoleAdmin}
	if err := f.service.ChangeUserRole(ctx, admin, alice.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("change role failed: %v", err)
	}
	if !f.audit.has(domain.AuditRoleChanged) {
		t.Fatalf("expected role_changed audit event")
	}

	// The live session keeps its issuance-time snapshot.
	if _, err := f.service.Authorize(ctx, token, domain.RoleAdmin); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("live session must keep its role snapshot, got %v", err)
	}

	loginRes, err := f.service.Authenticate(ctx, application.AuthenticateRequest{
		Username: "alice",
		Password: "SecurePass123",
	})
	if err != nil {
		t.Fatalf("relogin failed: %v", err)
	}
	if _, err := f.service.Authorize(ctx, loginRes.Token, domain.RoleAdmin); err != nil {
		t.Fatalf("new session should carry the new role: %v", err)
	}
}

func TestPatientLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	actor := domain.Identity{ID: 1, Username: "alice", Role: domain.RoleStandard}

	created, err := f.service.CreatePatient(ctx, actor, validPatientInput("101"))
	if err != nil {
		t.Fatalf("create patient failed: %v", err)
	}
	if created.ID != 101 || created.CreatedBy != "alice" {
		t.Fatalf("unexpected created record: %+v", created)
	}

	if _, err := f.service.CreatePatient(ctx, actor, validPatientInput("101")); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate clinical id, got %v", err)
	}

	got, err := f.service.GetPatient(ctx, 101)
	if err != nil {
		t.Fatalf("get patient failed: %v", err)
	}
	if got.Gender != "Male" {
		t.Fatalf("unexpected gender %q", got.Gender)
	}

	update := validPatientInput("101")
	update.SmokingStatus = "smokes"
	updated, err := f.service.UpdatePatient(ctx, actor, 101, update)
	if err != nil {
		t.Fatalf("update patient failed: %v", err)
	}
	if updated.SmokingStatus != "smokes" || updated.UpdatedBy != "alice" {
		t.Fatalf("unexpected updated record: %+v", updated)
	}

	if err := f.service.DeletePatient(ctx, actor, 101); err != nil {
		t.Fatalf("delete patient failed: %v", err)
	}
	if err := f.service.DeletePatient(ctx, actor, 101); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for repeated delete, got %v", err)
	}

	for _, kind := range []string{domain.AuditPatientCreated, domain.AuditPatientUpdated, domain.AuditPatientDeleted} {
		if !f.audit.has(kind) {
			t.Fatalf("expected %s audit event", kind)
		}
	}
}

func TestCreatePatientValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	actor := domain.Identity{ID: 1, Username: "alice", Role: domain.RoleStandard}

	tooOld := validPatientInput("102")
	tooOld.Age = "150"
	_, err := f.service.CreatePatient(ctx, actor, tooOld)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "age" {
		t.Fatalf("expected age validation error, got %v", err)
	}

	unknownBMI := validPatientInput("103")
	unknownBMI.BMI = "unknown"
	created, err := f.service.CreatePatient(ctx, actor, unknownBMI)
	if err != nil {
		t.Fatalf("create with unknown bmi failed: %v", err)
	}
	if created.BMI != nil {
		t.Fatalf("unknown bmi must be stored as nil, got %v", *created.BMI)
	}
	if created.BMIString() != domain.BMIUnknown {
		t.Fatalf("unknown bmi must render as sentinel, got %q", created.BMIString())
	}
}

func TestListPatientsPaging(t *testing.T) {
	t.Parallel()

	cfg := defaultTestConfig()
	cfg.PageSize = 2
	f := newFixtureWithConfig(cfg)
	ctx := context.Background()
	actor := domain.Identity{ID: 1, Username: "alice", Role: domain.RoleStandard}

	for _, id := range []string{"5", "3", "1", "4", "2"} {
		if _, err := f.service.CreatePatient(ctx, actor, validPatientInput(id)); err != nil {
			t.Fatalf("seed patient %s: %v", id, err)
		}
	}

	page1, err := f.service.ListPatients(ctx, application.ListPatientsRequest{Page: 1})
	if err != nil {
		t.Fatalf("list page 1 failed: %v", err)
	}
	if page1.TotalCount != 5 || page1.TotalPages != 3 {
		t.Fatalf("unexpected totals: count=%d pages=%d", page1.TotalCount, page1.TotalPages)
	}
	if len(page1.Patients) != 2 || page1.Patients[0].ID != 1 || page1.Patients[1].ID != 2 {
		t.Fatalf("page 1 must be ids 1,2 ascending: %+v", page1.Patients)
	}

	// Same inputs, same page.
	again, err := f.service.ListPatients(ctx, application.ListPatientsRequest{Page: 1})
	if err != nil {
		t.Fatalf("repeat list failed: %v", err)
	}
	if len(again.Patients) != 2 || again.Patients[0].ID != page1.Patients[0].ID {
		t.Fatalf("paging must be deterministic")
	}

	beyond, err := f.service.ListPatients(ctx, application.ListPatientsRequest{Page: 9})
	if err != nil {
		t.Fatalf("out-of-range page must not error: %v", err)
	}
	if len(beyond.Patients) != 0 || beyond.TotalCount != 5 {
		t.Fatalf("out-of-range page must be empty with true total: %+v", beyond)
	}

	stroke := 1
	filtered, err := f.service.ListPatients(ctx, application.ListPatientsRequest{Stroke: &stroke, Page: 1})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if filtered.TotalCount != 0 {
		t.Fatalf("no seeded patient has stroke=1, got %d", filtered.TotalCount)
	}
}

func TestDashboardAndAnalytics(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	actor := domain.Identity{ID: 1, Username: "alice", Role: domain.RoleStandard}

	strokeCase := validPatientInput("7")
	strokeCase.Stroke = "1"
	if _, err := f.service.CreatePatient(ctx, actor, strokeCase); err != nil {
		t.Fatalf("seed stroke case: %v", err)
	}
	if _, err := f.service.CreatePatient(ctx, actor, validPatientInput("8")); err != nil {
		t.Fatalf("seed non-stroke case: %v", err)
	}

	dash, err := f.service.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if dash.Stats.TotalPatients != 2 || dash.Stats.StrokeCases != 1 || dash.Stats.NonStrokeCases != 1 {
		t.Fatalf("unexpected stats: %+v", dash.Stats)
	}
	if len(dash.Recent) != 2 {
		t.Fatalf("expected 2 recent patients, got %d", len(dash.Recent))
	}

	analytics, err := f.service.Analytics(ctx)
	if err != nil {
		t.Fatalf("analytics failed: %v", err)
	}
	if len(analytics.Report.GenderDistribution) == 0 {
		t.Fatalf("expected gender distribution")
	}
}

func validPatientInput(id string) domain.PatientInput {
	return domain.PatientInput{
		ID:              id,
		Gender:          "Male",
		Age:             "67",
		Hypertension:    "0",
		HeartDisease:    "1",
		EverMarried:     "Yes",
		WorkType:        "Private",
		ResidenceType:   "Urban",
		AvgGlucoseLevel: "228.69",
		BMI:             "36.6",
		SmokingStatus:   "formerly smoked",
		Stroke:          "0",
	}
}

func newFixture() *fixture {
	return newFixtureWithConfig(defaultTestConfig())
}

func defaultTestConfig() application.Config {
	return application.Config{
		IdleTimeout:    2 * time.Hour,
		StorageTimeout: 5 * time.Second,
		PageSize:       20,
	}
}

func newFixtureWithConfig(cfg application.Config) *fixture {
	return newFixtureWithLimiter(cfg, nil)
}

func newFixtureWithLimiter(cfg application.Config, limiter ports.AttemptLimiter) *fixture {
	clock := &fakeClock{now: time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)}
	users := &fakeUsers{byUsername: map[string]domain.User{}, byID: map[int64]domain.User{}}
	patients := &fakePatients{records: map[int]domain.Patient{}}
	audit := &auditCapture{}
	if limiter == nil {
		limiter = memory.NewAttemptLimiterWithClock(5, time.Minute, clock.Now)
	}

	svc := application.NewService(application.Dependencies{
		Config:        cfg,
		Users:         users,
		LoginAttempts: &fakeLoginAttempts{},
		Patients:      patients,
		Sessions:      memory.NewSessionStore(),
		Limiter:       limiter,
		Hasher:        &fakeHasher{},
		Tokens:        &fakeTokens{},
		Audit:         audit,
		Now:           clock.Now,
	})

	return &fixture{
		service:  svc,
		users:    users,
		patients: patients,
		audit:    audit,
		clock:    clock,
	}
}

type fixture struct {
	service  *application.Service
	users    *fakeUsers
	patients *fakePatients
	audit    *auditCapture
	clock    *fakeClock
}

// login registers the user when needed and returns a fresh session token.
func (f *fixture) login(t *testing.T, username, password string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := f.users.GetByUsername(ctx, username); errors.Is(err, domain.ErrNotFound) {
		if _, err := f.service.Register(ctx, application.RegisterRequest{
			Username: username,
			Email:    username + "@example.com",
			Password: password,
		}); err != nil {
			t.Fatalf("register %s failed: %v", username, err)
		}
	}
	res, err := f.service.Authenticate(ctx, application.AuthenticateRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login %s failed: %v", username, err)
	}
	return res.Token
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// failingLimiter simulates an unreachable throttling backend.
type failingLimiter struct{}

func (failingLimiter) CheckAndRecord(context.Context, string) (bool, error) {
	return false, errors.New("limiter backend unreachable")
}

func (failingLimiter) Reset(context.Context, string) error {
	return errors.New("limiter backend unreachable")
}

type fakeUsers struct {
	mu         sync.Mutex
	byUsername map[string]domain.User
	byID       map[int64]domain.User
	nextID     int64
}

func (f *fakeUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUsername[user.Username]; ok {
		return domain.User{}, domain.ErrConflict
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.byUsername[user.Username] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) RecordLogin(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastLoginAt = &at
	f.byID[id] = u
	f.byUsername[u.Username] = u
	return nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id int64, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	f.byID[id] = u
	f.byUsername[u.Username] = u
	return nil
}

func (f *fakeUsers) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

type fakeLoginAttempts struct {
	mu       sync.Mutex
	attempts []domain.LoginAttempt
}

func (f *fakeLoginAttempts) Insert(_ context.Context, attempt domain.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeLoginAttempts) ListRecent(_ context.Context, limit int) ([]domain.LoginAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.attempts) {
		limit = len(f.attempts)
	}
	out := make([]domain.LoginAttempt, limit)
	for i := 0; i < limit; i++ {
		out[i] = f.attempts[len(f.attempts)-1-i]
	}
	return out, nil
}

type fakePatients struct {
	mu      sync.Mutex
	records map[int]domain.Patient
}

func (f *fakePatients) Create(_ context.Context, patient domain.Patient, actor string, at time.Time) (domain.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[patient.ID]; ok {
		return domain.Patient{}, domain.ErrConflict
	}
	patient.CreatedAt = at
	patient.UpdatedAt = at
	patient.CreatedBy = actor
	patient.UpdatedBy = actor
	f.records[patient.ID] = patient
	return patient, nil
}

func (f *fakePatients) Update(_ context.Context, id int, patient domain.Patient, actor string, at time.Time) (domain.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.records[id]
	if !ok {
		return domain.Patient{}, domain.ErrNotFound
	}
	patient.ID = id
	patient.CreatedAt = existing.CreatedAt
	patient.CreatedBy = existing.CreatedBy
	patient.UpdatedAt = at
	patient.UpdatedBy = actor
	f.records[id] = patient
	return patient, nil
}

func (f *fakePatients) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakePatients) Get(_ context.Context, id int) (domain.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.records[id]
	if !ok {
		return domain.Patient{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePatients) List(_ context.Context, filter ports.PatientFilter, page, pageSize int) (ports.PatientPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]domain.Patient, 0, len(f.records))
	for _, p := range f.records {
		if filter.Stroke != nil && p.Stroke != *filter.Stroke {
			continue
		}
		if filter.Gender != "" && p.Gender != filter.Gender {
			continue
		}
		if filter.Query != "" && !matchesQuery(p, filter.Query) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return ports.PatientPage{
		Patients:   matched[start:end],
		Page:       page,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

func matchesQuery(p domain.Patient, query string) bool {
	if id, err := strconv.Atoi(query); err == nil {
		return p.ID == id
	}
	q := strings.ToLower(query)
	for _, field := range []string{p.Gender, p.WorkType, p.SmokingStatus} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (f *fakePatients) Recent(_ context.Context, limit int) ([]domain.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Patient, 0, len(f.records))
	for _, p := range f.records {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePatients) Stats(_ context.Context) (domain.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := domain.DashboardStats{}
	var ageSum float64
	for _, p := range f.records {
		stats.TotalPatients++
		ageSum += p.Age
		if p.Stroke == 1 {
			stats.StrokeCases++
		} else {
			stats.NonStrokeCases++
		}
	}
	if stats.TotalPatients > 0 {
		stats.AverageAge = ageSum / float64(stats.TotalPatients)
	}
	return stats, nil
}

func (f *fakePatients) Analytics(_ context.Context) (domain.AnalyticsReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byGender := map[string]int64{}
	for _, p := range f.records {
		byGender[p.Gender]++
	}
	report := domain.AnalyticsReport{}
	for gender, count := range byGender {
		report.GenderDistribution = append(report.GenderDistribution, domain.GenderCount{Gender: gender, Count: count})
	}
	return report, nil
}

type fakeHasher struct{}

func (f *fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (f *fakeHasher) Verify(password, digest string) bool { return digest == "hash:"+password }

type fakeTokens struct {
	mu   sync.Mutex
	next int
}

func (f *fakeTokens) NewToken() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return fmt.Sprintf("token-%d", f.next), nil
}

type auditCapture struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *auditCapture) Record(event domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *auditCapture) has(kind string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
