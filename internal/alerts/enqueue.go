package alerts

import (
	"context"
	"log"

	"github.com/hibiken/asynq"
)

// Enqueuer schedules notification tasks.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task) error
}

// Client enqueues tasks on Redis through asynq.
type Client struct {
	client *asynq.Client
}

// NewClient connects to Redis at addr.
func NewClient(addr string) *Client {
	return &Client{client: asynq.NewClient(asynq.RedisClientOpt{Addr: addr})}
}

// Enqueue schedules task.
func (c *Client) Enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	log.Printf("[notify] queued %s id=%s queue=%s", task.Type(), info.ID, info.Queue)
	return nil
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// NopEnqueuer drops tasks. It is used when Redis is not configured.
type NopEnqueuer struct{}

// Enqueue logs and discards task.
func (NopEnqueuer) Enqueue(_ context.Context, task *asynq.Task) error {
	log.Printf("[notify] redis not configured, dropping %s", task.Type())
	return nil
}

// Send enqueues a freshly built task. Notifications are best effort, so
// failures are logged rather than returned.
func Send(ctx context.Context, enq Enqueuer, task *asynq.Task, buildErr error) {
	if buildErr != nil {
		log.Printf("[notify][ERROR] build task: %v", buildErr)
		return
	}
	if enq == nil {
		return
	}
	if err := enq.Enqueue(ctx, task); err != nil {
		log.Printf("[notify][ERROR] enqueue %s: %v", task.Type(), err)
	}
}
