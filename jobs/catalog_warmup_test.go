package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/odyssey-erp/catalogview/internal/jobs"
)

type stubWarmer struct {
	count int
	err   error
	calls int
}

func (s *stubWarmer) Warm(ctx context.Context) (int, error) {
	s.calls++
	return s.count, s.err
}

func TestCatalogWarmupJobWarmsCache(t *testing.T) {
	warmer := &stubWarmer{count: 30}
	job := NewCatalogWarmupJob(warmer, slog.Default(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewCatalogWarmupTask(CatalogWarmupPayload{Reason: "manual"})
	require.NoError(t, err)
	assert.Equal(t, TaskCatalogWarmup, task.Type())

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 1, warmer.calls)

	var payload CatalogWarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "manual", payload.Reason)
}

func TestCatalogWarmupJobPropagatesFailure(t *testing.T) {
	warmer := &stubWarmer{err: errors.New("upstream down")}
	job := NewCatalogWarmupJob(warmer, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskCatalogWarmup, nil))
	assert.EqualError(t, err, "upstream down")
}

func TestCatalogWarmupJobSkipsMalformedPayload(t *testing.T) {
	warmer := &stubWarmer{}
	job := NewCatalogWarmupJob(warmer, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskCatalogWarmup, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, warmer.calls)

	var unconfigured *CatalogWarmupJob
	assert.Error(t, unconfigured.Handle(context.Background(), asynq.NewTask(TaskCatalogWarmup, nil)))
}

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, slog.Default()).MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0,"active":0,"scheduled":0,"retry":0,"failed":0}`, rr.Body.String())
}
