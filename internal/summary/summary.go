// Package summary renders the deterministic text blocks of a person's day:
// the local summary used when no language model is available, the per-issue
// status tracking and the totals line.
package summary

import (
	"fmt"
	"slices"
	"strings"

	"jira-digest/internal/activity"
)

const (
	maxCreatedListed     = 6
	maxTransitionGroups  = 6
	maxIssuesPerGroup    = 5
	maxIssueSnippets     = 5
	snippetDescriptionTo = 180
)

// issueEntry accumulates what one actor did to one issue.
type issueEntry struct {
	ref            activity.IssueRef
	comments       int
	worklogs       int
	worklogSeconds int
}

// issuesInOrder indexes the group's actions by issue, first-seen order.
func issuesInOrder(g activity.ActorGroup) []*issueEntry {
	var order []*issueEntry
	byKey := make(map[string]*issueEntry)
	for _, a := range g.Actions {
		e, ok := byKey[a.Issue.Key]
		if !ok {
			e = &issueEntry{ref: a.Issue}
			byKey[a.Issue.Key] = e
			order = append(order, e)
		}
		switch d := a.Details.(type) {
		case activity.CommentDetails:
			e.comments++
		case activity.WorklogDetails:
			e.worklogs++
			e.worklogSeconds += d.TimeSpentSeconds
		}
	}
	return order
}

// Local builds the fallback summary of a person's day.
func Local(g activity.ActorGroup) string {
	var created []activity.IssueRef
	type transitionGroup struct {
		label  string
		issues []activity.IssueRef
	}
	var groups []*transitionGroup
	byLabel := make(map[string]*transitionGroup)

	for _, a := range g.Actions {
		switch d := a.Details.(type) {
		case activity.CreatedDetails:
			created = append(created, a.Issue)
		case activity.StatusChangeDetails:
			label := orDash(d.From) + " -> " + orDash(d.To)
			tg, ok := byLabel[label]
			if !ok {
				tg = &transitionGroup{label: label}
				byLabel[label] = tg
				groups = append(groups, tg)
			}
			if !slices.ContainsFunc(tg.issues, func(r activity.IssueRef) bool { return r.Key == a.Issue.Key }) {
				tg.issues = append(tg.issues, a.Issue)
			}
		}
	}

	var lines []string
	if len(created) > 0 {
		lines = append(lines, "- Created: "+listIssues(created, maxCreatedListed))
	}

	slices.SortStableFunc(groups, func(a, b *transitionGroup) int {
		return len(b.issues) - len(a.issues)
	})
	for i, tg := range groups {
		if i == maxTransitionGroups {
			lines = append(lines, fmt.Sprintf("- +%d other status transitions", len(groups)-maxTransitionGroups))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", tg.label, listIssues(tg.issues, maxIssuesPerGroup)))
	}

	if g.Stats.Comments > 0 {
		lines = append(lines, fmt.Sprintf("- Comments: %d", g.Stats.Comments))
	}
	if g.Stats.Worklogs > 0 {
		lines = append(lines, fmt.Sprintf("- Worklogs: %d (%s)", g.Stats.Worklogs, FormatDuration(g.Stats.WorklogSeconds)))
	}
	if len(lines) == 0 {
		lines = append(lines, "- No notable activity today.")
	}
	return "Daily summary:\n" + strings.Join(lines, "\n")
}

// IssueSnippets lists the first issues the person touched with their
// summary and a short description.
func IssueSnippets(g activity.ActorGroup) string {
	var lines []string
	for _, e := range issuesInOrder(g) {
		if len(lines) == maxIssueSnippets {
			break
		}
		line := fmt.Sprintf("- %s: %s", e.ref.Key, e.ref.Summary)
		if e.ref.Description != "" {
			line += " | " + activity.Truncate(e.ref.Description, snippetDescriptionTo)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// StatusTracking renders one line per issue: its status chain, comment count
// and logged time.
func StatusTracking(g activity.ActorGroup) string {
	var lines []string
	for _, e := range issuesInOrder(g) {
		parts := []string{strings.TrimSpace(e.ref.Key + ": " + e.ref.Summary)}
		if chain := g.StatusChain(e.ref.Key); len(chain) > 0 {
			status := "Status: " + chain.String()
			if steps := chain.Steps(); steps > 0 {
				status += fmt.Sprintf(" (%d steps)", steps)
			}
			parts = append(parts, status)
		}
		if e.comments > 0 {
			parts = append(parts, fmt.Sprintf("Comments: %d", e.comments))
		}
		if e.worklogs > 0 {
			parts = append(parts, fmt.Sprintf("Worklog: %d (%s)", e.worklogs, FormatDuration(e.worklogSeconds)))
		}
		lines = append(lines, "- "+strings.Join(parts, " | "))
	}
	if len(lines) == 0 {
		return "- No status changes."
	}
	return strings.Join(lines, "\n")
}

// Totals is the one-line count of a person's actions.
func Totals(s activity.Stats) string {
	return fmt.Sprintf("Totals: created %d; status-change %d; comments %d; worklogs %d",
		s.Created, s.StatusChangeIssueCount, s.Comments, s.Worklogs)
}

// Compose joins the headline summary with the deterministic blocks into the
// text attached to a person in the report.
func Compose(headline string, g activity.ActorGroup) string {
	var b strings.Builder
	b.WriteString(headline)
	if snippets := IssueSnippets(g); snippets != "" {
		b.WriteString("\n\nIssue details:\n")
		b.WriteString(snippets)
	}
	b.WriteString("\n\n")
	b.WriteString(StatusTracking(g))
	b.WriteString("\n")
	b.WriteString(Totals(g.Stats))
	return b.String()
}

// FormatDuration renders seconds rounded to the minute as 1h30m, 2h, 45m or 0m.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := (seconds + 30) / 60
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

func listIssues(issues []activity.IssueRef, limit int) string {
	var shown []string
	for i, r := range issues {
		if i == limit {
			break
		}
		if r.Summary != "" {
			shown = append(shown, fmt.Sprintf("%s (%s)", r.Key, r.Summary))
		} else {
			shown = append(shown, r.Key)
		}
	}
	out := strings.Join(shown, ", ")
	if rest := len(issues) - len(shown); rest > 0 {
		out += fmt.Sprintf(" +%d more", rest)
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
