package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-notification-service/internal/logger"
	"github.com/i474232898/weather-notification-service/internal/notification"
)

// defaultInterval is used when a non-positive interval is configured.
const defaultInterval = time.Minute

// Job is one periodic unit of work.
type Job interface {
	Run(ctx context.Context) (notification.Report, error)
}

// Scheduler runs the notification scan on a fixed interval.
//
// Runs are not serialised: if a scan outlasts the interval the next one starts
// alongside it.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       Job
	interval  time.Duration
	log       *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Scheduler.
func New(interval time.Duration, job Job) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		job:       job,
		interval:  interval,
		log:       logger.GetLogger("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the job, runs it once immediately and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.log.Infow("scheduler started", "interval", s.interval)
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	report, err := s.job.Run(s.ctx)
	if err != nil {
		s.log.Errorw("scheduled scan failed", "run_id", report.RunID, "error", err)
	}
}

// Stop stops the scheduler and cancels any scan in flight.
func (s *Scheduler) Stop() {
	s.cancel()
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.log.Info("scheduler stopped")
}
