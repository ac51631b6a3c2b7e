package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-notification-service/internal/notification"
)

type countingJob struct {
	runs int32
}

func (j *countingJob) Run(context.Context) (notification.Report, error) {
	atomic.AddInt32(&j.runs, 1)
	return notification.Report{}, nil
}

type blockingJob struct {
	started   chan struct{}
	cancelled chan struct{}
}

func (j *blockingJob) Run(ctx context.Context) (notification.Report, error) {
	close(j.started)
	<-ctx.Done()
	close(j.cancelled)
	return notification.Report{}, ctx.Err()
}

func TestSchedulerRunsJobRepeatedly(t *testing.T) {
	job := &countingJob{}
	s := New(50*time.Millisecond, job)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&job.runs) >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerStopCancelsRunningJob(t *testing.T) {
	job := &blockingJob{started: make(chan struct{}), cancelled: make(chan struct{})}
	s := New(time.Hour, job)
	require.NoError(t, s.Start())

	// The first run starts immediately and blocks until Stop.
	select {
	case <-job.started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not start")
	}
	s.Stop()

	select {
	case <-job.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("running job was not cancelled")
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	s := New(0, &countingJob{})
	assert.Equal(t, defaultInterval, s.interval)
}
