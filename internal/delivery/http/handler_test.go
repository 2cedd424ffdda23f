package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playsafe-labs/breakgate/config"
	"github.com/playsafe-labs/breakgate/internal/scheduler"
	"github.com/playsafe-labs/breakgate/pkg/logger"
)

type stubPlatform struct {
	ready bool
	shows int
}

func (p *stubPlatform) IsNaturalTimerReady() bool         { return p.ready }
func (p *stubPlatform) SecondsUntilNaturalTimer() float64 { return 0 }
func (p *stubPlatform) Show(ctx context.Context) error    { p.shows++; return nil }
func (p *stubPlatform) ForceReady()                       { p.ready = true }
func (p *stubPlatform) ResetToFullInterval()              { p.ready = false }

func newTestRouter(t *testing.T) (http.Handler, *scheduler.Scheduler) {
	t.Helper()

	cfg := config.BreakConfig{
		NaturalInterval:   30 * time.Minute,
		CountdownDuration: 3 * time.Second,
		CooldownWindow:    5 * time.Second,
		TickInterval:      time.Second,
		ManualFrequency:   2,
		AllowedZones:      []string{"lobby"},
	}

	l := logger.InitializeTestZapLogger()
	sched := scheduler.New(cfg, &stubPlatform{}, nil, nil, l)
	sched.OnZoneChanged(context.Background(), "lobby")

	return NewHTTPHandler(sched, l).Router(), sched
}

func doRequest(t *testing.T, router http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestGetStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/break/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status scheduler.Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.False(t, status.IsRunning)
	assert.Equal(t, "lobby", status.CurrentZone)
	assert.True(t, status.ZoneAllowed)
	assert.Equal(t, int64(0), status.BlockCount)
}

func TestBlockUnblockFlow(t *testing.T) {
	router, sched := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodPost, "/api/v1/break/block")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["blocked"])

	_, body = doRequest(t, router, http.MethodPost, "/api/v1/break/block")
	assert.Equal(t, true, body["blocked"])

	_, body = doRequest(t, router, http.MethodPost, "/api/v1/break/unblock")
	assert.Equal(t, true, body["blocked"])

	_, body = doRequest(t, router, http.MethodPost, "/api/v1/break/unblock")
	assert.Equal(t, false, body["blocked"])
	assert.False(t, sched.IsAdmissionBlocked())
}

func TestForceResetBlocks(t *testing.T) {
	router, sched := newTestRouter(t)

	for i := 0; i < 3; i++ {
		doRequest(t, router, http.MethodPost, "/api/v1/break/block")
	}
	require.True(t, sched.IsAdmissionBlocked())

	rec, body := doRequest(t, router, http.MethodPost, "/api/v1/break/blocks/reset")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["blocked"])
	assert.False(t, sched.IsAdmissionBlocked())
}

func TestManualTriggerFrequency(t *testing.T) {
	router, _ := newTestRouter(t)

	_, body := doRequest(t, router, http.MethodGet, "/api/v1/break/trigger/peek")
	assert.Equal(t, false, body["would_fire"])

	rec, body := doRequest(t, router, http.MethodPost, "/api/v1/break/trigger")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["admitted"])

	_, body = doRequest(t, router, http.MethodGet, "/api/v1/break/trigger/peek")
	assert.Equal(t, true, body["would_fire"])

	_, body = doRequest(t, router, http.MethodPost, "/api/v1/break/trigger")
	assert.Equal(t, true, body["admitted"])
}

func TestManualTriggerConflictWhileShowing(t *testing.T) {
	router, sched := newTestRouter(t)

	_, body := doRequest(t, router, http.MethodPost, "/api/v1/break/trigger")
	require.Equal(t, false, body["admitted"])
	_, body = doRequest(t, router, http.MethodPost, "/api/v1/break/trigger")
	require.Equal(t, true, body["admitted"])
	sched.OnOpened(context.Background())

	rec, body := doRequest(t, router, http.MethodPost, "/api/v1/break/trigger")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "A break is already showing", body["error"])
}
