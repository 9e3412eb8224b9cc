package http

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/boundary"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
)

func newTestApp(t *testing.T) (*fiber.App, *observability.Metrics) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cfg := config.Config{
		App: config.AppConfig{Name: "support-desk-test", Version: "test"},
		Store: config.StoreConfig{
			Driver:        persistence.DriverSQLite,
			DataDir:       t.TempDir(),
			FileName:      "tickets.db",
			AdminEmail:    config.DefaultAdminEmail,
			AdminName:     "Administrator",
			AdminPassword: "admin123",
			AdminDept:     "IT",
		},
		Auth: config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5},
	}

	store := persistence.NewStore(cfg, logger)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	metrics := observability.NewMetrics()
	users := repository.NewUserRepository(store)
	authSvc := service.NewAuthService(cfg, users, nil)
	ticketSvc := service.NewTicketService(repository.NewTicketRepository(store), nil, logger)
	desk := boundary.New(authSvc, ticketSvc, logger, metrics)

	app := NewApp(cfg.App)
	RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, nil, ""),
		Users:          handlers.NewUsersHandler(desk),
		Tickets:        handlers.NewTicketsHandler(desk),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc.Tokens(), users),
	})
	return app, metrics
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	status, body := do(t, app, nethttp.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	if status != nethttp.StatusOK {
		t.Fatalf("login %s: %d %s", email, status, body)
	}
	var resp struct {
		Data dto.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if strings.Contains(body, "admin123") {
		t.Error("login response must not include the password")
	}
	return resp.Data.Auth.Token
}

func TestHealthLive(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, nethttp.MethodGet, "/health/live", "", "")
	if status != nethttp.StatusOK || !strings.Contains(body, "alive") {
		t.Fatalf("live = %d %s", status, body)
	}
	status, body = do(t, app, nethttp.MethodGet, "/health/ready", "", "")
	if status != nethttp.StatusOK || !strings.Contains(body, `"store":"ok"`) {
		t.Fatalf("ready = %d %s", status, body)
	}
}

func TestRegisterLoginAndTickets(t *testing.T) {
	app, metrics := newTestApp(t)

	status, body := do(t, app, nethttp.MethodPost, "/auth/register", "", `{"name":"Ann","email":"ann@corp.test","password":"pw","department":"HR"}`)
	if status != nethttp.StatusCreated || !strings.Contains(body, `"success":true`) {
		t.Fatalf("register = %d %s", status, body)
	}
	status, body = do(t, app, nethttp.MethodPost, "/auth/register", "", `{"name":"Ann","email":"ann@corp.test","password":"pw","department":"HR"}`)
	if status != nethttp.StatusConflict || !strings.Contains(body, "email already registered") {
		t.Fatalf("duplicate register = %d %s", status, body)
	}

	status, _ = do(t, app, nethttp.MethodPost, "/auth/login", "", `{"email":"ann@corp.test","password":"bad"}`)
	if status != nethttp.StatusUnauthorized {
		t.Fatalf("bad login = %d", status)
	}

	userToken := login(t, app, "ann@corp.test", "pw")
	adminToken := login(t, app, config.DefaultAdminEmail, "admin123")

	status, body = do(t, app, nethttp.MethodPost, "/tickets", userToken, `{"issue":"VPN is down","priority":"Low"}`)
	if status != nethttp.StatusCreated {
		t.Fatalf("create = %d %s", status, body)
	}

	status, body = do(t, app, nethttp.MethodGet, "/tickets", userToken, "")
	if status != nethttp.StatusOK {
		t.Fatalf("list = %d %s", status, body)
	}
	var list dto.TicketListResponse
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Data) != 1 || list.Data[0].Priority != "High" || list.Data[0].Name != "Ann" || list.Data[0].Department != "HR" {
		t.Fatalf("tickets = %+v", list.Data)
	}
	id := list.Data[0].ID

	path := "/tickets/" + itoa(id) + "/status"
	status, _ = do(t, app, nethttp.MethodPatch, path, userToken, `{"status":"Solved"}`)
	if status != nethttp.StatusForbidden {
		t.Fatalf("user update = %d, want 403", status)
	}
	status, body = do(t, app, nethttp.MethodPatch, path, adminToken, `{"status":"Closed"}`)
	if status != nethttp.StatusBadRequest {
		t.Fatalf("invalid status = %d %s", status, body)
	}
	status, body = do(t, app, nethttp.MethodPatch, path, adminToken, `{"status":"Solved"}`)
	if status != nethttp.StatusOK {
		t.Fatalf("admin update = %d %s", status, body)
	}

	status, body = do(t, app, nethttp.MethodGet, "/tickets?user_id=9999", adminToken, "")
	if status != nethttp.StatusOK || !strings.Contains(body, `"data":[]`) {
		t.Fatalf("admin filtered list = %d %s", status, body)
	}
	status, body = do(t, app, nethttp.MethodGet, "/tickets", adminToken, "")
	if status != nethttp.StatusOK || !strings.Contains(body, `"status":"Solved"`) {
		t.Fatalf("admin list = %d %s", status, body)
	}

	if len(metrics.Snapshot().Requests) == 0 {
		t.Error("expected request metrics")
	}
}

func TestTicketsRequireToken(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, nethttp.MethodGet, "/tickets", "", "")
	if status != nethttp.StatusUnauthorized || !strings.Contains(body, `"code":"UNAUTHORIZED"`) {
		t.Fatalf("unauthenticated list = %d %s", status, body)
	}
	status, _ = do(t, app, nethttp.MethodGet, "/tickets", "garbage", "")
	if status != nethttp.StatusUnauthorized {
		t.Fatalf("bad token = %d", status)
	}
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, nethttp.MethodGet, "/nope", "", "")
	if status != nethttp.StatusNotFound || !strings.Contains(body, `"code":"NOT_FOUND"`) {
		t.Fatalf("unknown route = %d %s", status, body)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
