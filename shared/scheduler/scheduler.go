package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"video-analyzer/shared/monitoring"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work run on a schedule
type Job interface {
	Name() string
	RunOnce(ctx context.Context) error
}

// Scheduler runs a job on a cron schedule and records each outcome
type Scheduler struct {
	schedule string
	monitor  *monitoring.Monitor
	job      Job
	cron     *cron.Cron
}

func New(schedule string, job Job, monitor *monitoring.Monitor) *Scheduler {
	if monitor == nil {
		monitor = monitoring.NewMonitor()
	}

	return &Scheduler{
		schedule: schedule,
		monitor:  monitor,
		job:      job,
		// Prevent overlapping runs
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start registers the job and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			log.Printf("Error running scheduled job for %s: %v", s.job.Name(), err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	log.Printf("Scheduler started for %s with schedule: %s", s.job.Name(), s.schedule)
	s.cron.Start()

	<-ctx.Done()
	log.Printf("Scheduler stopped for %s", s.job.Name())
	<-s.cron.Stop().Done()
	return ctx.Err()
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	startTime := time.Now()
	jobName := s.job.Name()

	log.Printf("Starting %s run...", jobName)

	if err := s.job.RunOnce(ctx); err != nil {
		s.monitor.RecordFailure(fmt.Errorf("%s failed: %w", jobName, err), time.Since(startTime))
		return fmt.Errorf("%s run failed: %w", jobName, err)
	}

	s.monitor.RecordSuccess(jobName, time.Since(startTime))
	return nil
}
