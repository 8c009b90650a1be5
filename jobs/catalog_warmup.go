package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/catalogview/internal/jobs"
)

// Warmer fetches the catalog from its source and stores it in the shared cache.
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// CatalogWarmupJob keeps the Redis snapshot fresh so web processes start warm.
type CatalogWarmupJob struct {
	Catalog Warmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewCatalogWarmupJob wires dependencies for the warmup handler.
func NewCatalogWarmupJob(catalog Warmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *CatalogWarmupJob {
	return &CatalogWarmupJob{Catalog: catalog, Logger: logger, Metrics: metrics}
}

// Handle processes catalog warmup tasks.
func (j *CatalogWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Catalog == nil {
		return errors.New("catalog warmup: handler not configured")
	}
	var payload CatalogWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Reason == "" {
		payload.Reason = "schedule"
	}

	run := j.Metrics.Start(TaskCatalogWarmup)
	logger := j.logger().With(slog.String("reason", payload.Reason))
	logger.Info("starting catalog warmup")
	started := time.Now()

	count, err := j.Catalog.Warm(ctx)
	if err != nil {
		logger.Error("catalog warmup", slog.Any("error", err))
		return run.Finish(0, err)
	}
	logger.Info("completed catalog warmup", slog.Int("products", count), slog.Duration("duration", time.Since(started)))
	return run.Finish(count, nil)
}

func (j *CatalogWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
