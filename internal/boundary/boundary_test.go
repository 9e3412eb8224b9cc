package boundary

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func testConfig(dir string) config.Config {
	return config.Config{
		Store: config.StoreConfig{
			Driver:        persistence.DriverSQLite,
			DataDir:       dir,
			FileName:      "tickets.db",
			AdminEmail:    config.DefaultAdminEmail,
			AdminName:     "Administrator",
			AdminPassword: "admin123",
			AdminDept:     "IT",
		},
		Auth: config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5},
	}
}

func build(t *testing.T, store *persistence.Store, cfg config.Config) *Boundary {
	t.Helper()
	logger := zaptest.NewLogger(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return start.Add(time.Duration(tick) * time.Second)
	}
	authSvc := service.NewAuthService(cfg, repository.NewUserRepository(store), nil)
	ticketSvc := service.NewTicketService(repository.NewTicketRepository(store), nil, logger, service.WithClock(clock))
	return New(authSvc, ticketSvc, logger, nil)
}

func newBoundary(t *testing.T) *Boundary {
	t.Helper()
	cfg := testConfig(t.TempDir())
	store := persistence.NewStore(cfg, zaptest.NewLogger(t))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return build(t, store, cfg)
}

func TestSeedAdminLogin(t *testing.T) {
	b := newBoundary(t)
	user := b.Login(context.Background(), LoginRequest{Email: config.DefaultAdminEmail, Password: "admin123"})
	if user == nil || !user.IsAdmin() {
		t.Fatalf("Login(seed admin) = %+v", user)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	b := newBoundary(t)

	res := b.Register(ctx, RegisterRequest{Name: "Ann", Email: "ann@corp.test", Password: "pw", Department: "HR"})
	if !res.Success || res.ID == nil {
		t.Fatalf("Register() = %+v", res)
	}

	dup := b.Register(ctx, RegisterRequest{Name: "Ann2", Email: "ann@corp.test", Password: "x", Department: "HR"})
	if dup.Success || dup.Code != apperrors.CodeConflict || dup.Message != "email already registered" {
		t.Errorf("duplicate Register() = %+v", dup)
	}

	user := b.Login(ctx, LoginRequest{Email: "ann@corp.test", Password: "pw"})
	if user == nil || user.ID != *res.ID || user.Role != domain.RoleUser {
		t.Fatalf("Login() = %+v", user)
	}
	if b.Login(ctx, LoginRequest{Email: "ann@corp.test", Password: "nope"}) != nil {
		t.Error("wrong password should yield nil")
	}
	if b.Login(ctx, LoginRequest{Email: "ghost@corp.test", Password: "pw"}) != nil {
		t.Error("unknown email should yield nil")
	}
}

func TestTicketFlow(t *testing.T) {
	ctx := context.Background()
	b := newBoundary(t)
	session := &Session{UserID: 2, Role: domain.RoleUser}

	first := b.CreateTicket(ctx, session, CreateTicketRequest{Name: "Ann", Department: "HR", Issue: "Laptop CRASH", Priority: "Low"})
	second := b.CreateTicket(ctx, nil, CreateTicketRequest{Name: "Kiosk", Department: "Lobby", Issue: "screen is slow"})
	if !first.Success || !second.Success {
		t.Fatalf("CreateTicket() = %+v, %+v", first, second)
	}

	all := b.FetchTickets(ctx, nil)
	if len(all) != 2 || all[0].ID != *second.ID || all[1].ID != *first.ID {
		t.Fatalf("FetchTickets(nil) = %+v", all)
	}
	if all[1].Priority != domain.TicketPriorityHigh || all[0].Priority != domain.TicketPriorityMedium {
		t.Errorf("priorities = %s, %s", all[1].Priority, all[0].Priority)
	}
	if all[0].UserID.Valid {
		t.Error("ticket without session should have null user_id")
	}
	if all[1].CreatedAt != "2024-01-01T00:00:01.000Z" {
		t.Errorf("CreatedAt = %q", all[1].CreatedAt)
	}

	own := b.FetchTickets(ctx, &session.UserID)
	if len(own) != 1 || own[0].ID != *first.ID {
		t.Errorf("FetchTickets(own) = %+v", own)
	}

	if res := b.UpdateStatus(ctx, UpdateStatusRequest{ID: *first.ID, Status: "In Progress"}); !res.Success {
		t.Fatalf("UpdateStatus() = %+v", res)
	}
	if got := b.FetchTickets(ctx, &session.UserID)[0].Status; got != domain.TicketStatusInProgress {
		t.Errorf("status = %q", got)
	}

	if res := b.UpdateStatus(ctx, UpdateStatusRequest{ID: 999, Status: "Solved"}); !res.Success {
		t.Errorf("UpdateStatus(unknown id) = %+v, want success", res)
	}
	bad := b.UpdateStatus(ctx, UpdateStatusRequest{ID: *first.ID, Status: "solved"})
	if bad.Success || bad.Code != apperrors.CodeValidation {
		t.Errorf("UpdateStatus(bad status) = %+v", bad)
	}
}

func TestUninitializedStoreIsNormalized(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t.TempDir())
	b := build(t, persistence.NewStore(cfg, zaptest.NewLogger(t)), cfg)

	res := b.Register(ctx, RegisterRequest{Email: "a@b.c", Password: "pw"})
	if res.Success || res.Code != apperrors.CodeUninitialized {
		t.Errorf("Register() = %+v", res)
	}
	if b.Login(ctx, LoginRequest{Email: "a@b.c", Password: "pw"}) != nil {
		t.Error("Login() should be nil")
	}
	if c := b.CreateTicket(ctx, nil, CreateTicketRequest{Issue: "x"}); c.Success || c.Code != apperrors.CodeUninitialized {
		t.Errorf("CreateTicket() = %+v", c)
	}
	if list := b.FetchTickets(ctx, nil); list == nil || len(list) != 0 {
		t.Errorf("FetchTickets() = %v, want empty slice", list)
	}
	if u := b.UpdateStatus(ctx, UpdateStatusRequest{ID: 1, Status: "Solved"}); u.Success {
		t.Errorf("UpdateStatus() = %+v", u)
	}
}
