package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
)

// warmupDedupWindow absorbs repeated manual warmups.
const warmupDedupWindow = time.Minute

// Client enqueues tasks from processes that do not run the worker.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an asynq-backed Client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	return &Client{client: asynq.NewClient(redisOpts)}, nil
}

// EnqueueCatalogWarmup enqueues a catalog warmup. While an earlier warmup is
// still unique in the queue, asynq.ErrDuplicateTask is returned.
func (c *Client) EnqueueCatalogWarmup(ctx context.Context, reason string) (*asynq.TaskInfo, error) {
	task, err := NewCatalogWarmupTask(CatalogWarmupPayload{Reason: reason, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.Unique(warmupDedupWindow))
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
