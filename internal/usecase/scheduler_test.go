package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ChangelogDigest/internal/domain"
)

type fakeDriver struct {
	job      func(time.Time)
	started  bool
	stopped  bool
	startErr error
}

func (f *fakeDriver) Start(_ context.Context, job func(time.Time)) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.job = job
	f.started = true
	return nil
}

func (f *fakeDriver) Stop(context.Context) error {
	f.stopped = true
	return nil
}

func TestSchedulerRegistersAndRunsJob(t *testing.T) {
	t.Parallel()

	f := newFixture(entry("https://example.org/a", domain.CategoryRelease))
	driver := &fakeDriver{}
	sched := NewScheduler(driver, f.pipeline(), nil)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !driver.started || driver.job == nil {
		t.Fatal("job not registered with the driver")
	}

	driver.job(runTime)
	if len(f.sender.sent) != 1 {
		t.Fatal("triggered job should run the pipeline")
	}

	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !driver.stopped {
		t.Fatal("driver not stopped")
	}
}

func TestSchedulerStartError(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{startErr: errors.New("bad spec")}
	sched := NewScheduler(driver, newFixture().pipeline(), nil)

	if err := sched.Start(context.Background()); err == nil {
		t.Fatal("expected start error to surface")
	}
}

func TestSchedulerNilDriver(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(nil, nil, nil)
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start with nil driver: %v", err)
	}
	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("Stop with nil driver: %v", err)
	}
}
