package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	processed int
	err       error
	calls     int
}

func (s *fakeSweeper) Sweep(ctx context.Context) (int, error) {
	s.calls++
	return s.processed, s.err
}

func do(t *testing.T, handler http.Handler, method string, path string, auth string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestCron_Authorized(t *testing.T) {
	sweeper := &fakeSweeper{processed: 3}
	router := NewRouter(Options{Sweeper: sweeper, CronSecret: "s3cret"})

	rec, body := do(t, router, http.MethodPost, "/api/cron", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["processed"])
	assert.Equal(t, 1, sweeper.calls)
}

func TestCron_Unauthorized(t *testing.T) {
	sweeper := &fakeSweeper{}
	router := NewRouter(Options{Sweeper: sweeper, CronSecret: "s3cret"})

	for _, auth := range []string{"", "Bearer wrong", "s3cret", "Basic s3cret"} {
		rec, body := do(t, router, http.MethodPost, "/api/cron", auth)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, auth)
		assert.Equal(t, "Unauthorized", body["error"])
	}
	assert.Zero(t, sweeper.calls)
}

func TestCron_EmptySecretRejectsEverything(t *testing.T) {
	sweeper := &fakeSweeper{}
	router := NewRouter(Options{Sweeper: sweeper})

	rec, _ := do(t, router, http.MethodPost, "/api/cron", "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, sweeper.calls)
}

func TestCron_SweepFailure(t *testing.T) {
	router := NewRouter(Options{Sweeper: &fakeSweeper{err: errors.New("db locked")}, CronSecret: "s3cret"})

	rec, body := do(t, router, http.MethodPost, "/api/cron", "Bearer s3cret")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["error"])
}

func TestHealthAndMetrics(t *testing.T) {
	router := NewRouter(Options{Sweeper: &fakeSweeper{}})

	rec, _ := do(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, _ = do(t, router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestWebhookIsMountedOnlyWhenConfigured(t *testing.T) {
	router := NewRouter(Options{Sweeper: &fakeSweeper{}})
	rec, _ := do(t, router, http.MethodPost, "/api/webhook", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	called := false
	router = NewRouter(Options{
		Sweeper: &fakeSweeper{},
		Webhook: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }),
	})
	rec, _ = do(t, router, http.MethodPost, "/api/webhook", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRecover(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec, body := do(t, handler, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["error"])
}
