package activity

import (
	"context"
	"errors"
	"time"

	"jira-digest/internal/timerange"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options tune a collection run.
type Options struct {
	// Concurrency bounds in-flight requests per phase; <= 0 uses DefaultConcurrency.
	Concurrency int
	// BaseURL is used to build issue and comment links.
	BaseURL string
}

// Result is the merged action stream of a run plus its bookkeeping.
type Result struct {
	Actions    []Action
	Discovered int
	Failed     []*DetailFetchError
}

// FailedCount is the number of issues left out because their detail fetch failed.
func (r *Result) FailedCount() int { return len(r.Failed) }

// Collect discovers the issues of projectKey updated in r, fetches their
// details with bounded concurrency and returns every in-window action in
// chronological order.
//
// Discovery failures abort the run. A failed detail fetch drops that issue
// only; it is logged and reported in Result.Failed.
func Collect(ctx context.Context, r timerange.TimeRange, projectKey string, client Tracker, opts Options) (*Result, error) {
	started := time.Now()

	discovered, err := Discover(ctx, client, NewLimiter(opts.Concurrency), projectKey, r)
	if err != nil {
		return nil, err
	}

	details := make([]*IssueDetail, len(discovered))
	failures := make([]*DetailFetchError, len(discovered))
	limiter := NewLimiter(opts.Concurrency)

	g, gctx := errgroup.WithContext(ctx)
	for i, issue := range discovered {
		g.Go(func() error {
			err := limiter.Do(gctx, func(ctx context.Context) error {
				detail, err := FetchDetail(ctx, client, issue.Key)
				if err != nil {
					failures[i] = &DetailFetchError{Key: issue.Key, Err: err}
					return nil
				}
				details[i] = detail
				return nil
			})
			// Only a cancelled wait for a slot reaches here.
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Discovered: len(discovered)}
	extractor := Extractor{Range: r, BaseURL: opts.BaseURL}
	for i := range discovered {
		if f := failures[i]; f != nil {
			if errors.Is(f.Err, context.Canceled) {
				return nil, f.Err
			}
			log.Warn().Err(f.Err).Str("issue", f.Key).Msg("Skipping issue, detail fetch failed")
			result.Failed = append(result.Failed, f)
			continue
		}
		result.Actions = append(result.Actions, extractor.Extract(details[i])...)
	}
	SortChronologically(result.Actions)

	log.Info().
		Str("project", projectKey).
		Str("date", r.Label()).
		Int("discovered", result.Discovered).
		Int("failed", result.FailedCount()).
		Int("actions", len(result.Actions)).
		Dur("elapsed", time.Since(started)).
		Msg("Collected activity")
	return result, nil
}
