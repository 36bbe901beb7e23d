package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/robfig/cron/v3"

	pkgLog "context-gateway/pkg/log"
)

// Job is one periodic task. Spec uses the standard cron syntax or descriptors
// such as "@every 6h".
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context)
}

// Scheduler runs periodic jobs. Overlapping runs of the same job are skipped.
type Scheduler struct {
	l      pkgLog.Logger
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped scheduler.
func New(l pkgLog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{l: l}
	return &Scheduler{
		l:      l,
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job. An empty spec disables it.
func (s *Scheduler) Add(job Job) error {
	if job.Spec == "" {
		s.l.Infof(s.ctx, "internal.scheduler.Add: job %s disabled", job.Name)
		return nil
	}
	if job.Run == nil {
		return errors.New("job has no Run func")
	}

	_, err := s.cron.AddFunc(job.Spec, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("scheduler.Add %s: %w", job.Name, err)
	}
	s.l.Infof(s.ctx, "internal.scheduler.Add: job %s scheduled %q", job.Name, job.Spec)
	return nil
}

func (s *Scheduler) run(job Job) {
	ctx := pkgLog.WithFields(s.ctx, "job", job.Name)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.l.Errorf(ctx, "internal.scheduler.run: job panicked: %v\n%s", r, debug.Stack())
		}
	}()

	job.Run(ctx)
	s.l.Debugf(ctx, "internal.scheduler.run: finished in %s", time.Since(start))
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs, cancels the jobs' context and waits for running
// jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts Logger to cron.Logger.
type cronLogger struct {
	l pkgLog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugf(context.Background(), "internal.scheduler.cron: %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorf(context.Background(), "internal.scheduler.cron: %s: %v %v", msg, err, keysAndValues)
}
