// Package scheduler runs the background jobs of the worker command using
// gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/ticketry/internal/shared/biztime"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// BatchJob processes one batch per call and returns the number of items
// it handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) { return f(ctx) }

const defaultExpiryInterval = time.Minute

type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	s, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: s,
		logger:    log,
	}, nil
}

// RegisterOrderExpiryJob expires pending orders past their deadline. The job
// starts immediately and never overlaps itself. A batch that comes back full
// is followed by the next one within the same run.
func (m *SchedulerManager) RegisterOrderExpiryJob(job BatchJob, interval time.Duration, batchSize int) error {
	if interval <= 0 {
		interval = defaultExpiryInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.processExpiredOrders(ctx, job, batchSize)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("order", "expire"),
		gocron.WithName("order-expiry"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered order expiry job", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) processExpiredOrders(ctx context.Context, job BatchJob, batchSize int) {
	start := biztime.NowUTC()
	total := 0
	for {
		n, err := job.Execute(ctx)
		total += n
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Errorw("failed to expire orders", "error", err, "expired", total)
			return
		}
		if batchSize <= 0 || n < batchSize || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		m.logger.Infow("expired pending orders", "count", total, "duration", time.Since(start))
	} else {
		m.logger.Debugw("no pending orders to expire")
	}
}

func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if m.started {
		return
	}
	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "jobs", len(m.scheduler.Jobs()))
}

// Shutdown waits for running jobs to finish.
func (m *SchedulerManager) Shutdown() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Errorw("failed to shut down scheduler", "error", err)
		return err
	}
	m.started = false
	m.logger.Infow("scheduler stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}
