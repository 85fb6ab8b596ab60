package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Invalid(t *testing.T) {
	_, err := New("not a cron", "UTC", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "invalid cron expression")

	_, err = New("0 18 * * 1-5", "Mars/Olympus", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "unknown timezone")
}

func TestScheduler_NextWeekdayEvening(t *testing.T) {
	s, err := New("0 18 * * 1-5", "Asia/Ho_Chi_Minh", func(context.Context) error { return nil })
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	next := s.Next()
	require.False(t, next.IsZero())
	local := next.In(time.FixedZone("ICT", 7*3600))
	assert.Equal(t, 18, local.Hour())
	assert.Equal(t, 0, local.Minute())
	assert.NotEqual(t, time.Saturday, local.Weekday())
	assert.NotEqual(t, time.Sunday, local.Weekday())
}

func TestScheduler_TriggerSkipsOverlap(t *testing.T) {
	var runs atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})
	s, err := New("@daily", "UTC", func(ctx context.Context) error {
		runs.Add(1)
		close(started)
		<-release
		return errors.New("done")
	})
	require.NoError(t, err)

	go s.trigger()
	<-started
	s.trigger() // overlaps with the blocked run
	close(release)

	assert.Eventually(t, func() bool { return s.running.TryLock() }, time.Second, 10*time.Millisecond)
	s.running.Unlock()
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RecoversJobPanic(t *testing.T) {
	var runs atomic.Int32
	s, err := New("@daily", "UTC", func(context.Context) error {
		runs.Add(1)
		panic("boom")
	})
	require.NoError(t, err)

	job := s.c.Entry(s.entry).WrappedJob
	require.NotNil(t, job)
	assert.NotPanics(t, job.Run)
	assert.NotPanics(t, job.Run, "the overlap guard is released after a panic")
	assert.Equal(t, int32(2), runs.Load())
}

func TestFields(t *testing.T) {
	got := fields([]interface{}{"entry", 1, 7, "x", "dangling"})
	assert.Equal(t, map[string]interface{}{"entry": 1, "7": "x"}, got)
}
