package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogWarmup refreshes the shared catalog snapshot cache.
	TaskCatalogWarmup = "catalog:warmup"
)

// CatalogWarmupPayload describes why a warmup was requested.
type CatalogWarmupPayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewCatalogWarmupTask constructs an Asynq task. Duplicate warmups queued
// within the unique window collapse into one.
func NewCatalogWarmupTask(payload CatalogWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogWarmup, data, asynq.MaxRetry(3), asynq.Timeout(time.Minute)), nil
}
