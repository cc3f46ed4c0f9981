package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned when Enqueue runs before Start.
	ErrNotStarted = errors.New("queue not started")
	// ErrQueueFull is returned when the buffer has no room; callers never block on it.
	ErrQueueFull = errors.New("queue full")
	// ErrStopped is returned once Stop has been called.
	ErrStopped = errors.New("queue stopped")
)

// Job is a unit of background work.
type Job struct {
	ID         string
	Kind       string
	Payload    interface{}
	Attempt    int
	EnqueuedAt time.Time
}

// Handler processes a job. A returned error schedules a retry.
type Handler func(context.Context, Job) error

// QueueConfig configures the worker pool.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue is an in-memory worker pool with bounded buffering and linear retry backoff.
type Queue struct {
	name    string
	handler Handler
	cfg     QueueConfig
	logger  *zap.SugaredLogger

	jobs     chan Job
	ctx      context.Context
	cancel   context.CancelFunc
	workers  sync.WaitGroup
	retries  sync.WaitGroup
	mu       sync.RWMutex
	started  bool
	stopping bool
}

// NewQueue builds a queue; zero config values fall back to small defaults.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		name:    name,
		handler: handler,
		cfg:     cfg,
		logger:  cfg.Logger.Sugar().With("queue", name),
		jobs:    make(chan Job, cfg.BufferSize),
	}
}

// Start launches the workers. Further calls are no-ops.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.cfg.Workers; i++ {
		q.workers.Add(1)
		go q.work()
	}
	q.started = true
	q.logger.Infow("queue started", "workers", q.cfg.Workers, "buffer", q.cfg.BufferSize)
}

// Enqueue adds a job without blocking.
func (q *Queue) Enqueue(job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.started {
		return fmt.Errorf("%s: %w", q.name, ErrNotStarted)
	}
	if q.stopping {
		return fmt.Errorf("%s: %w", q.name, ErrStopped)
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return fmt.Errorf("%s: %w", q.name, ErrQueueFull)
	}
}

// Stop rejects new jobs, lets workers finish what is buffered and waits until
// they exit or ctx expires. Pending retries are abandoned.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.started || q.stopping {
		q.mu.Unlock()
		return nil
	}
	q.stopping = true
	q.mu.Unlock()

	q.cancel()
	q.retries.Wait()
	close(q.jobs)

	done := make(chan struct{})
	go func() {
		q.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		q.logger.Infow("queue stopped")
		return nil
	case <-ctx.Done():
		q.logger.Warnw("queue stop timed out", "pending", len(q.jobs))
		return ctx.Err()
	}
}

func (q *Queue) work() {
	defer q.workers.Done()
	for job := range q.jobs {
		// Handlers get a fresh context so buffered jobs still complete during shutdown.
		if err := q.handler(context.Background(), job); err != nil {
			q.retry(job, err)
		}
	}
}

func (q *Queue) retry(job Job, err error) {
	job.Attempt++
	if job.Attempt > q.cfg.MaxRetries {
		q.logger.Errorw("job dropped after retries", "job_id", job.ID, "kind", job.Kind, "attempts", job.Attempt, "error", err)
		return
	}
	q.logger.Warnw("job failed, retrying", "job_id", job.ID, "kind", job.Kind, "attempt", job.Attempt, "error", err)

	q.mu.RLock()
	if q.stopping {
		q.mu.RUnlock()
		q.logger.Errorw("job dropped during shutdown", "job_id", job.ID, "kind", job.Kind, "error", err)
		return
	}
	q.retries.Add(1)
	q.mu.RUnlock()

	go func() {
		defer q.retries.Done()
		timer := time.NewTimer(time.Duration(job.Attempt) * q.cfg.RetryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
			q.logger.Errorw("job dropped during shutdown", "job_id", job.ID, "kind", job.Kind)
		case <-timer.C:
			if err := q.Enqueue(job); err != nil {
				q.logger.Errorw("failed to requeue job", "job_id", job.ID, "error", err)
			}
		}
	}()
}
