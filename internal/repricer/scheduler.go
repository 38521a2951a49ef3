package repricer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/config"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/metrics"
)

const jobName = "catalog_cycle"

type cycleRunner interface {
	Run(ctx context.Context, force bool) error
}

type cycleLock interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(scope string) string
}

// Scheduler drives the cycle on a fixed interval. A redis lock keeps
// multiple instances from running the cycle concurrently; a failed run is
// retried sooner than the regular cadence.
type Scheduler struct {
	job     cycleRunner
	lock    cycleLock
	logg    *logger.Logger
	metrics *metrics.RepricerMetrics

	interval   time.Duration
	coldStart  time.Duration
	retryDelay time.Duration
	lockTTL    time.Duration
	owner      string
}

// NewScheduler builds the cycle scheduler from config.
func NewScheduler(job cycleRunner, lock cycleLock, cfg config.RepricerConfig, logg *logger.Logger, m *metrics.RepricerMetrics) *Scheduler {
	return &Scheduler{
		job:        job,
		lock:       lock,
		logg:       logg,
		metrics:    m,
		interval:   cfg.Interval,
		coldStart:  cfg.ColdStartDelay,
		retryDelay: cfg.RetryDelay,
		lockTTL:    cfg.LockTTL,
		owner:      uuid.NewString(),
	}
}

// Start blocks until ctx is cancelled, running the cycle after the
// cold-start delay and then on every tick.
func (s *Scheduler) Start(ctx context.Context) {
	delay := s.coldStart
	if delay <= 0 {
		delay = time.Second
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		next := s.interval
		if err := s.runOnce(ctx); err != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "catalog cycle failed, scheduling retry", err)
			}
			if s.retryDelay > 0 && s.retryDelay < next {
				next = s.retryDelay
			}
		}
		timer.Reset(next)
	}
}

// runOnce runs a single guarded cycle. When another instance holds the
// lock the tick is skipped silently.
func (s *Scheduler) runOnce(ctx context.Context) error {
	release, acquired, err := s.acquire(ctx)
	if err != nil && s.logg != nil {
		// Lock backend down: run anyway, the in-process SYNCING flag still
		// guards this instance.
		s.logg.Warn(ctx, "cycle lock unavailable, proceeding unguarded")
	}
	if err == nil && !acquired {
		return nil
	}
	defer release()

	start := time.Now()
	runErr := s.job.Run(ctx, false)
	s.metrics.ObserveDuration(jobName, time.Since(start))
	if runErr != nil {
		s.metrics.IncFailure(jobName)
		return runErr
	}
	s.metrics.IncSuccess(jobName)
	return nil
}

func (s *Scheduler) acquire(ctx context.Context) (func(), bool, error) {
	noop := func() {}
	if s.lock == nil {
		return noop, true, nil
	}
	key := s.lock.LockKey(jobName)
	ttl := s.lockTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	acquired, err := s.lock.SetNX(ctx, key, s.owner, ttl)
	if err != nil {
		return noop, true, err
	}
	if !acquired {
		return noop, false, nil
	}
	return func() {
		if err := s.lock.Del(context.WithoutCancel(ctx), key); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to release cycle lock")
		}
	}, true, nil
}
