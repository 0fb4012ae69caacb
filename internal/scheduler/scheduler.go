package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/bikeshare-dashboard/internal/log"
)

// Reloader is the part of the rental service the scheduler drives.
type Reloader interface {
	Reload(ctx context.Context) (bool, error)
}

// Scheduler periodically reloads the dataset.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Reloader
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. An interval <= 0 disables reloading.
func New(interval, timeout time.Duration, service Reloader) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		timeout:   timeout,
	}
}

// Enabled reports whether Start will schedule a job.
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Start schedules the periodic reload job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		log.Info("scheduler: reload interval not set; dataset will not be reloaded")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Infof("scheduler: reloading dataset every %s", s.interval)
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	changed, err := s.service.Reload(ctx)
	if err != nil {
		log.Errorf("scheduler: reload failed, keeping current table: %v", err)
		return
	}
	if changed {
		log.Info("scheduler: dataset changed and was reloaded")
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
