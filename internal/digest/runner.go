// Package digest runs the daily per-person Jira activity digest: it
// collects and groups the day's actions, summarises each person and keeps
// the last-action history up to date.
package digest

import (
	"context"
	"errors"

	"jira-digest/internal/activity"
	"jira-digest/internal/history"
	"jira-digest/internal/jira"
	"jira-digest/internal/llm"
	"jira-digest/internal/logging"
	"jira-digest/internal/summary"
	"jira-digest/internal/timerange"

	"github.com/rs/zerolog"
)

// ErrMissingProject is returned when neither the options nor the
// configuration name a project.
var ErrMissingProject = errors.New("missing project key: pass --project or set JIRA_PROJECT_KEY")

// Settings are the long-lived parameters of a Runner.
type Settings struct {
	BaseURL        string
	DefaultProject string
	Timezone       string
	Concurrency    int
	Include        []string
	Exclude        []string
	// Roster lists people reported even on days without actions.
	Roster     []string
	RequireLLM bool
}

// Options select what a single run reports.
type Options struct {
	Date    string // yyyy-mm-dd; empty means today
	Project string
	SkipLLM bool
	// RequireLLM overrides Settings.RequireLLM when set.
	RequireLLM *bool
}

// Runner wires the collection engine to summaries and history.
type Runner struct {
	Tracker    activity.Tracker
	Summarizer llm.Summarizer // nil disables the language model
	History    *history.Store // nil disables last-action tracking
	Settings   Settings
}

// Run produces the digest of one day.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	ctx, runID := logging.StartRun(ctx)
	logger := zerolog.Ctx(ctx)

	project := opts.Project
	if project == "" {
		project = r.Settings.DefaultProject
	}
	if project == "" {
		return nil, ErrMissingProject
	}

	rng, err := timerange.Resolve(opts.Date, r.Settings.Timezone)
	if err != nil {
		return nil, err
	}
	date := rng.Label()
	logger.Info().Str("project", project).Str("date", date).Msg("Collecting Jira actions")

	result, err := activity.Collect(ctx, rng, project, r.Tracker, activity.Options{
		Concurrency: r.Settings.Concurrency,
		BaseURL:     r.Settings.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	groups := FilterGroups(activity.GroupActionsByActor(result.Actions), r.Settings.Include, r.Settings.Exclude)
	logger.Info().Int("users", len(groups)).Int("actions", len(result.Actions)).Msg("Grouped actions by actor")

	report := &Report{
		Project:    project,
		Date:       date,
		Timezone:   r.Settings.Timezone,
		RunID:      runID,
		Discovered: result.Discovered,
		Users:      make([]UserReport, 0, len(groups)),
	}
	for _, f := range result.Failed {
		report.FailedIssues = append(report.FailedIssues, f.Key)
	}

	summarizer := r.Summarizer
	if opts.SkipLLM {
		summarizer = nil
	}
	required := r.Settings.RequireLLM
	if opts.RequireLLM != nil {
		required = *opts.RequireLLM
	}
	if opts.SkipLLM {
		required = false
	}

	for _, g := range groups {
		logger.Info().Str("actor", g.Actor.Name).Int("actions", len(g.Actions)).Bool("llm", summarizer != nil).Msg("Summarizing actor")
		headline, err := llm.SummarizeWithFallback(ctx, summarizer, g, date, rng.Location, required)
		if err != nil {
			return nil, err
		}
		report.Users = append(report.Users, UserReport{
			Actor:     g.Actor,
			Stats:     g.Stats,
			Actions:   g.Actions,
			Summary:   summary.Compose(headline, g),
			IssuesURL: jira.IssueSearchURL(r.Settings.BaseURL, g.IssueKeys()),
		})
	}

	if r.History != nil {
		if err := r.History.Update(project, groups, date); err != nil {
			logger.Warn().Err(err).Msg("Failed to update action history")
		}
		report.Idle = r.idleUsers(project, date, groups)
	}

	logger.Info().Str("project", project).Str("date", date).Int("users", len(report.Users)).Int("idle", len(report.Idle)).Msg("Digest ready")
	return report, nil
}

// idleUsers lists roster members that have no group today, with the
// business days elapsed since their last recorded action.
func (r *Runner) idleUsers(project, date string, groups []activity.ActorGroup) []UserReport {
	var idle []UserReport
	for _, name := range r.Settings.Roster {
		if isActive(name, groups) {
			continue
		}
		u := UserReport{
			Actor:   activity.ActorRef{ID: name, Name: name},
			Actions: []activity.Action{},
		}
		if last := r.History.LastActionDate(project, name, name); last != "" {
			days := history.BusinessDaysSince(last, date)
			u.LastActionDate = last
			u.DaysSinceLastAction = &days
		}
		idle = append(idle, u)
	}
	return idle
}

func isActive(token string, groups []activity.ActorGroup) bool {
	for _, g := range groups {
		if Matches(g.Actor, token) {
			return true
		}
	}
	return false
}
