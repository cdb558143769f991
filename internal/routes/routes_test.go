package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wastezero/wastezero/internal/config"
	"github.com/wastezero/wastezero/internal/logging"
	"github.com/wastezero/wastezero/internal/middleware"
	"github.com/wastezero/wastezero/internal/profile"
	"github.com/wastezero/wastezero/internal/storage"
)

type testApp struct {
	app   *fiber.App
	kv    storage.Storage
	slept []time.Duration
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	cfg := config.Default()
	cfg.AppEnv = "test"
	cfg.StorageDriver = config.DriverMemory
	cfg.LoginRateLimit = 3

	ta := &testApp{app: fiber.New(), kv: storage.NewMemory()}
	err := Setup(ta.app, Deps{
		Cfg:          cfg,
		Storage:      ta.kv,
		Cache:        cache,
		Logger:       logging.Discard(),
		Sleep:        func(d time.Duration) { ta.slept = append(ta.slept, d) },
		StoreOptions: []profile.Option{profile.WithHashCost(bcrypt.MinCost)},
	})
	require.NoError(t, err)
	return ta
}

func (ta *testApp) do(t *testing.T, method, path, body string, headers ...string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestLoginEndToEnd(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, fiber.MethodPost, "/api/v1/login", `{"username":"ab","password":"abcdef"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "success", body["state"])
	require.Equal(t, "/", body["redirect"])
	require.Equal(t, "Logged in", body["notice"])
	require.Equal(t, []time.Duration{400 * time.Millisecond}, ta.slept)
}

func TestLoginValidationErrors(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, fiber.MethodPost, "/api/v1/login", `{"username":"a","password":"abc"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	require.Equal(t, "idle", body["state"])
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Username is required", errs["username"])
	require.Equal(t, "Password must be at least 6 characters", errs["password"])
}

func TestLoginRateLimited(t *testing.T) {
	ta := newTestApp(t)

	for i := 0; i < 3; i++ {
		status, _ := ta.do(t, fiber.MethodPost, "/api/v1/login", `{"username":"ab","password":"abcdef"}`)
		require.Equal(t, fiber.StatusOK, status)
	}
	status, _ := ta.do(t, fiber.MethodPost, "/api/v1/login", `{"username":"ab","password":"abcdef"}`)
	require.Equal(t, fiber.StatusTooManyRequests, status)
}

func TestRegisterMismatchEndToEnd(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, fiber.MethodPost, "/api/v1/register",
		`{"name":"Ada Lovelace","email":"ada@example.com","username":"ada","password":"secret1","confirm":"secret2"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	require.Equal(t, "Passwords do not match", errs["confirm"])

	_, err := ta.kv.Get(context.Background(), "profile")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = ta.kv.Get(context.Background(), "password")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRegisterThenEditProfileAndPassword(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, fiber.MethodPost, "/api/v1/register",
		`{"name":"Ada Lovelace","email":"ada@example.com","username":"ada","password":"secret1","confirm":"secret1","role":"NGO"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "/login", body["redirect"])

	status, body = ta.do(t, fiber.MethodGet, "/api/v1/profile", "")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "Ada Lovelace", body["name"])
	require.Equal(t, "NGO", body["role"])
	require.Equal(t, []any{}, body["skills"])

	status, _ = ta.do(t, fiber.MethodPut, "/api/v1/profile",
		`{"name":"Ada L.","email":"ada@example.org","skills":"teamwork, recycling ,"}`)
	require.Equal(t, fiber.StatusOK, status)

	_, body = ta.do(t, fiber.MethodGet, "/api/v1/profile", "")
	require.Equal(t, "Ada L.", body["name"])
	require.Equal(t, "teamwork, recycling", body["skills_display"])
	require.Equal(t, "NGO", body["role"])

	status, body = ta.do(t, fiber.MethodPost, "/api/v1/profile/password", `{"current":"wrong1","new":"better1","confirm":"better1"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "failed", body["state"])
	require.Equal(t, "Current password is incorrect", body["notice"])

	status, body = ta.do(t, fiber.MethodPost, "/api/v1/profile/password", `{"current":"secret1","new":"better1","confirm":"better1"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "Password changed", body["notice"])
}

func TestLongPasswordsEndToEnd(t *testing.T) {
	ta := newTestApp(t)
	first := strings.Repeat("x", 90)
	second := strings.Repeat("y", 100)

	status, body := ta.do(t, fiber.MethodPost, "/api/v1/register",
		`{"name":"Ada Lovelace","email":"ada@example.com","username":"ada","password":"`+first+`","confirm":"`+first+`"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	require.Equal(t, "success", body["state"])

	status, body = ta.do(t, fiber.MethodPost, "/api/v1/profile/password",
		`{"current":"`+first+`","new":"`+second+`","confirm":"`+second+`"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	require.Equal(t, "Password changed", body["notice"])

	status, body = ta.do(t, fiber.MethodPost, "/api/v1/profile/password",
		`{"current":"`+first+`","new":"another1","confirm":"another1"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "Current password is incorrect", body["notice"])
}

func TestThemeRoutes(t *testing.T) {
	ta := newTestApp(t)

	_, body := ta.do(t, fiber.MethodGet, "/api/v1/theme", "")
	require.Equal(t, "", body["theme"])

	status, _ := ta.do(t, fiber.MethodPut, "/api/v1/theme", `{"theme":"sepia"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = ta.do(t, fiber.MethodPut, "/api/v1/theme", `{"theme":"dark"}`)
	require.Equal(t, fiber.StatusOK, status)

	_, body = ta.do(t, fiber.MethodGet, "/api/v1/theme", "")
	require.Equal(t, "dark", body["theme"])
}

func TestRegisterReplayedWithIdempotencyKey(t *testing.T) {
	ta := newTestApp(t)
	payload := `{"name":"Ada Lovelace","email":"ada@example.com","username":"ada","password":"secret1","confirm":"secret1"}`

	status, first := ta.do(t, fiber.MethodPost, "/api/v1/register", payload, middleware.IdempotencyKeyHeader, "reg-1")
	require.Equal(t, fiber.StatusOK, status)
	status, second := ta.do(t, fiber.MethodPost, "/api/v1/register", payload, middleware.IdempotencyKeyHeader, "reg-1")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, first, second)

	require.Len(t, ta.slept, 1)
}

func TestHealthz(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, fiber.MethodGet, "/healthz", "")
	require.Equal(t, fiber.StatusOK, status)
	st := body["status"].(map[string]any)
	require.Equal(t, "ok", st["storage"])
	require.Equal(t, "ok", st["redis"])
}

func TestSetupRequiresStorage(t *testing.T) {
	err := Setup(fiber.New(), Deps{Logger: logging.Discard()})
	require.Error(t, err)
}
