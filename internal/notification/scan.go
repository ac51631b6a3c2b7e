package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-notification-service/internal/logger"
	"github.com/i474232898/weather-notification-service/internal/observability"
	"github.com/i474232898/weather-notification-service/internal/store"
	"github.com/i474232898/weather-notification-service/internal/weather"
)

// Stage names the step of a per-user scan that failed.
type Stage string

const (
	StageDecode  Stage = "decode"
	StageFetch   Stage = "fetch"
	StagePayload Stage = "payload"
	StagePersist Stage = "persist"
	StagePublish Stage = "publish"
)

// UserLister returns the users the scan should visit.
type UserLister interface {
	WithLocation(ctx context.Context) ([]store.User, error)
}

// Writer persists notifications.
type Writer interface {
	Create(ctx context.Context, n *store.Notification) error
}

// Fetcher returns a current-weather payload. weather.Provider satisfies it.
type Fetcher interface {
	Current(ctx context.Context, c weather.Coordinates) (json.RawMessage, error)
}

// Publisher announces created notifications to other systems.
type Publisher interface {
	Publish(ctx context.Context, n store.Notification) error
}

// Failure is one user's failed iteration.
type Failure struct {
	UserID uint
	Stage  Stage
	Err    error
}

// Report summarises a scan run.
type Report struct {
	RunID    string
	Scanned  int
	Notified int
	Failures []Failure
}

// Scanner walks every located user, fetches their current weather and records
// a notification when one-hour rainfall reaches the threshold.
type Scanner struct {
	users     UserLister
	writer    Writer
	fetcher   Fetcher
	publisher Publisher
	threshold float64
	metrics   *observability.Metrics
	log       *zap.SugaredLogger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithPublisher publishes every created notification.
func WithPublisher(p Publisher) Option {
	return func(s *Scanner) {
		s.publisher = p
	}
}

func NewScanner(users UserLister, writer Writer, fetcher Fetcher, thresholdMM float64, metrics *observability.Metrics, opts ...Option) *Scanner {
	s := &Scanner{
		users:     users,
		writer:    writer,
		fetcher:   fetcher,
		threshold: thresholdMM,
		metrics:   metrics,
		log:       logger.GetLogger("scan"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one scan. Failures for a single user are logged, counted and
// reported without aborting the run; only failing to list users aborts it.
func (s *Scanner) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	log := s.log.With("run_id", report.RunID)
	start := time.Now()

	users, err := s.users.WithLocation(ctx)
	if err != nil {
		s.metrics.ScanRuns.WithLabelValues("failed").Inc()
		log.Errorw("scan aborted: listing users failed", "error", err)
		return report, fmt.Errorf("list users: %w", err)
	}

	log.Infow("scan started", "users", len(users))
	for i := range users {
		u := &users[i]
		if !u.HasLocation() {
			continue
		}
		report.Scanned++

		notified, failure := s.scanUser(ctx, u)
		if notified {
			report.Notified++
		}
		if failure != nil {
			report.Failures = append(report.Failures, *failure)
			s.metrics.ScanUserFailures.WithLabelValues(string(failure.Stage)).Inc()
			log.Warnw("scan failed for user", "user_id", failure.UserID, "stage", failure.Stage, "error", failure.Err)
		}
	}

	s.metrics.ScanRuns.WithLabelValues("completed").Inc()
	s.metrics.ScanDuration.Observe(time.Since(start).Seconds())
	log.Infow("scan completed",
		"scanned", report.Scanned,
		"notified", report.Notified,
		"failures", len(report.Failures),
		"duration", time.Since(start),
	)
	return report, nil
}

func (s *Scanner) scanUser(ctx context.Context, u *store.User) (bool, *Failure) {
	fail := func(stage Stage, err error) *Failure {
		return &Failure{UserID: u.ID, Stage: stage, Err: err}
	}

	coords, err := weather.ParseLocation(*u.Location)
	if err != nil {
		return false, fail(StageDecode, err)
	}

	payload, err := s.fetcher.Current(ctx, coords)
	if err != nil {
		return false, fail(StageFetch, err)
	}

	reading, err := weather.ReadCurrent(payload)
	if err != nil {
		return false, fail(StagePayload, err)
	}
	if reading.Rain.OneHour < s.threshold {
		return false, nil
	}

	n := &store.Notification{
		UserID:   u.ID,
		Message:  "Heavy rain at " + reading.Name,
		IsRead:   false,
		Location: reading.Name,
	}
	if err := s.writer.Create(ctx, n); err != nil {
		return false, fail(StagePersist, err)
	}
	s.metrics.NotificationsCreated.Inc()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, *n); err != nil {
			return true, fail(StagePublish, err)
		}
	}
	return true, nil
}
