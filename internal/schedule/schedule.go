// Package schedule runs the digest on a cron expression in the digest's
// timezone.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultJobTimeout bounds one scheduled digest run.
const DefaultJobTimeout = 15 * time.Minute

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler triggers a Job on a standard five-field cron expression. Runs
// never overlap: a tick that fires while the previous run is still going is
// skipped.
type Scheduler struct {
	c       *cron.Cron
	entry   cron.EntryID
	job     Job
	timeout time.Duration
	running sync.Mutex
}

// New parses the cron expression expr in the named timezone. Descriptors
// such as @daily are accepted too.
func New(expr, timezone string, job Job) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	logger := cronLogger{}
	s := &Scheduler{
		c: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(parser),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		job:     job,
		timeout: DefaultJobTimeout,
	}
	id, err := s.c.AddFunc(expr, s.trigger)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	s.entry = id
	return s, nil
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() {
	s.c.Start()
	log.Info().Time("next", s.Next()).Msg("Digest scheduler started")
}

// Stop stops scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
	log.Info().Msg("Digest scheduler stopped")
}

// Next is the time of the next run, zero before Start.
func (s *Scheduler) Next() time.Time {
	return s.c.Entry(s.entry).Next
}

func (s *Scheduler) trigger() {
	if !s.running.TryLock() {
		log.Warn().Msg("Previous digest still running, skipping this tick")
		return
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	if err := s.job(ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled digest failed")
		return
	}
	log.Info().Dur("elapsed", time.Since(started)).Msg("Scheduled digest finished")
}

// cronLogger routes cron's own messages, including recovered job panics,
// to the global zerolog logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(fields(keysAndValues)).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(fields(keysAndValues)).Msg("cron: " + msg)
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		out[key] = keysAndValues[i+1]
	}
	return out
}
