// internal/consumer/push_consumer.go
package consumer

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"los-bridge/internal/common/errors"
	"los-bridge/internal/common/logger"
	"los-bridge/internal/common/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PushRequest is the queue envelope the portal enqueues when an application
// reaches a qualifying status.
type PushRequest struct {
	RequestID     string `json:"requestId"`
	ApplicationID string `json:"applicationId"`
	EnqueuedAt    string `json:"enqueuedAt,omitempty"`
}

// Pusher runs one delivery attempt for an application.
type Pusher interface {
	Push(ctx context.Context, applicationID string) error
}

// Consumer drains the push request queue and hands each request to the bridge
// service. Failed pushes are not re-queued: the outcome is already recorded on
// the application, and retrying is the portal's decision.
type Consumer struct {
	rdb     *redis.Client
	queue   string
	workers int
	pusher  Pusher
	logger  logger.Logger
	obs     *observability.Observability
}

type Options struct {
	Redis   *redis.Client
	Queue   string
	Workers int
	Pusher  Pusher
	Logger  logger.Logger
	Obs     *observability.Observability
}

func New(opts Options) *Consumer {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	return &Consumer{
		rdb:     opts.Redis,
		queue:   opts.Queue,
		workers: workers,
		pusher:  opts.Pusher,
		logger:  log.WithFields(map[string]interface{}{"queue": opts.Queue}),
		obs:     opts.Obs,
	}
}

// Run blocks until ctx is cancelled, processing requests on the configured
// number of worker goroutines.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("push consumer starting", map[string]interface{}{
		"workers": c.workers,
	})

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.loop(ctx, id)
		}(i)
	}
	wg.Wait()

	c.logger.Info("push consumer stopped", nil)
}

func (c *Consumer) loop(ctx context.Context, workerID int) {
	log := c.logger.WithFields(map[string]interface{}{"worker": workerID})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Short BLPOP timeout so shutdown is noticed promptly.
		res, err := c.rdb.BLPop(ctx, time.Second, c.queue).Result()
		if err != nil {
			if stderrors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Error("queue read failed", map[string]interface{}{
				"error": err.Error(),
			})
			time.Sleep(time.Second)
			continue
		}
		if len(res) < 2 {
			continue
		}

		c.handle(ctx, res[1], log)
	}
}

func (c *Consumer) handle(ctx context.Context, raw string, log logger.Logger) {
	req, err := decodeRequest(raw)
	if err != nil {
		// Malformed envelopes are dropped, not re-queued: they can never succeed.
		log.Error("dropping invalid push request", map[string]interface{}{
			"error":   err.Error(),
			"payload": raw,
		})
		return
	}

	log = log.WithFields(map[string]interface{}{
		"requestId":     req.RequestID,
		"applicationId": req.ApplicationID,
	})
	log.Info("processing push request", nil)

	start := time.Now()
	pushErr := c.pusher.Push(ctx, req.ApplicationID)
	duration := time.Since(start)

	status := "sent"
	if pushErr != nil {
		status = "failed"
	}
	if c.obs != nil {
		c.obs.RecordPushProcessed(ctx, status)
		c.obs.RecordPushDuration(ctx, duration, status)
	}

	if pushErr != nil {
		log.Error("push request failed", map[string]interface{}{
			"errorCode": errors.CodeOf(pushErr),
			"retryable": errors.IsRetryable(pushErr),
			"duration":  duration.String(),
			"error":     pushErr.Error(),
		})
		return
	}

	log.Info("push request completed", map[string]interface{}{
		"duration": duration.String(),
	})
}

func decodeRequest(raw string) (*PushRequest, error) {
	var req PushRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, errors.NewInvalidPushRequestError(err.Error())
	}
	if req.ApplicationID == "" {
		return nil, errors.NewInvalidPushRequestError("applicationId is required")
	}
	return &req, nil
}

// Enqueue adds one push request to the queue, filling in a request id and
// enqueue timestamp when the caller left them empty. Returns the request id.
func Enqueue(ctx context.Context, rdb *redis.Client, queue string, req PushRequest) (string, error) {
	if req.ApplicationID == "" {
		return "", errors.NewInvalidPushRequestError("applicationId is required")
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.EnqueuedAt == "" {
		req.EnqueuedAt = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	if err := rdb.RPush(ctx, queue, payload).Err(); err != nil {
		return "", err
	}
	return req.RequestID, nil
}
