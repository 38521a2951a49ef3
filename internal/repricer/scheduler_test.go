package repricer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/config"
)

type countingRunner struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (c *countingRunner) Run(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs++
	return c.err
}

func (c *countingRunner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

type fakeLock struct {
	mu       sync.Mutex
	acquired bool
	held     bool
	err      error
	releases int
}

func (f *fakeLock) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.held {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	return nil
}

func (f *fakeLock) LockKey(scope string) string { return "dm:lock:" + scope }

func testConfig() config.RepricerConfig {
	return config.RepricerConfig{
		Interval:       time.Hour,
		ColdStartDelay: time.Millisecond,
		RetryDelay:     time.Minute,
		LockTTL:        10 * time.Minute,
	}
}

func TestRunOnce_acquiresAndReleasesLock(t *testing.T) {
	runner := &countingRunner{}
	lock := &fakeLock{}
	sched := NewScheduler(runner, lock, testConfig(), nil, nil)

	if err := sched.runOnce(context.Background()); err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	if runner.count() != 1 {
		t.Fatalf("runs %d, want 1", runner.count())
	}
	if !lock.acquired || lock.releases != 1 {
		t.Fatalf("lock lifecycle: %+v", lock)
	}
}

func TestRunOnce_heldLockSkips(t *testing.T) {
	runner := &countingRunner{}
	lock := &fakeLock{held: true}
	sched := NewScheduler(runner, lock, testConfig(), nil, nil)

	if err := sched.runOnce(context.Background()); err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	if runner.count() != 0 {
		t.Fatal("held lock must skip the cycle")
	}
}

func TestRunOnce_lockBackendDownRunsUnguarded(t *testing.T) {
	runner := &countingRunner{}
	lock := &fakeLock{err: errors.New("redis down")}
	sched := NewScheduler(runner, lock, testConfig(), nil, nil)

	if err := sched.runOnce(context.Background()); err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	if runner.count() != 1 {
		t.Fatal("a dead lock backend must not stop the cycle")
	}
}

func TestRunOnce_propagatesJobError(t *testing.T) {
	runner := &countingRunner{err: errors.New("cycle exploded")}
	sched := NewScheduler(runner, nil, testConfig(), nil, nil)

	if err := sched.runOnce(context.Background()); err == nil {
		t.Fatal("job error must surface")
	}
}

func TestStart_runsAfterColdStartAndStopsOnCancel(t *testing.T) {
	runner := &countingRunner{}
	sched := NewScheduler(runner, nil, testConfig(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for runner.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("cycle never ran after cold start")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}
