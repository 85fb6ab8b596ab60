// Package report renders a digest for people: terminal text, JSON, a static
// HTML page and the actor list used to build include/exclude filters.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"jira-digest/internal/activity"
	"jira-digest/internal/digest"
	"jira-digest/internal/summary"
)

// RenderText writes the human readable digest.
func RenderText(w io.Writer, r *digest.Report) error {
	p := &printer{w: w}
	p.printf("Jira action summary for project %s on %s (timezone %s)\n", r.Project, r.Date, r.Timezone)
	if len(r.FailedIssues) > 0 {
		p.printf("Warning: %d of %d issues could not be loaded and are missing from this report.\n", len(r.FailedIssues), r.Discovered)
	}
	if len(r.Users) == 0 {
		p.printf("No activity today.\n")
	}

	for _, u := range r.Users {
		p.printf("\n%s (%d actions)\n", u.Actor.Name, len(u.Actions))
		if u.Summary != "" {
			p.printf("%s\n", u.Summary)
		}
		p.printf("Stats: created %d, status %d, comments %d, worklogs %d, time %s\n",
			u.Stats.Created, u.Stats.StatusChangeIssueCount, u.Stats.Comments, u.Stats.Worklogs,
			summary.FormatDuration(u.Stats.WorklogSeconds))
	}

	if len(r.Idle) > 0 {
		p.printf("\nNo actions:\n")
		for _, u := range r.Idle {
			p.printf("- %s%s\n", u.Actor.Name, idleNote(u))
		}
	}
	return p.err
}

func idleNote(u digest.UserReport) string {
	if u.LastActionDate == "" || u.DaysSinceLastAction == nil {
		return ""
	}
	return fmt.Sprintf(" (last action %s, %d business days ago)", u.LastActionDate, *u.DaysSinceLastAction)
}

// printer keeps the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// jsonReport is the machine readable shape of the digest.
type jsonReport struct {
	Project  string     `json:"project"`
	Date     string     `json:"date"`
	Timezone string     `json:"timezone"`
	Users    []jsonUser `json:"users"`
	Idle     []jsonIdle `json:"idle,omitempty"`
	Failed   []string   `json:"failedIssues,omitempty"`
}

type jsonUser struct {
	Actor   activity.ActorRef `json:"actor"`
	Stats   activity.Stats    `json:"stats"`
	Actions []activity.Action `json:"actions"`
}

type jsonIdle struct {
	Actor               activity.ActorRef `json:"actor"`
	LastActionDate      string            `json:"lastActionDate,omitempty"`
	DaysSinceLastAction *int              `json:"daysSinceLastAction,omitempty"`
}

// RenderJSON writes {project, date, timezone, users:[{actor, stats, actions}]}
// indented with two spaces.
func RenderJSON(w io.Writer, r *digest.Report) error {
	out := jsonReport{
		Project:  r.Project,
		Date:     r.Date,
		Timezone: r.Timezone,
		Users:    make([]jsonUser, 0, len(r.Users)),
		Failed:   r.FailedIssues,
	}
	for _, u := range r.Users {
		out.Users = append(out.Users, jsonUser{Actor: u.Actor, Stats: u.Stats, Actions: u.Actions})
	}
	for _, u := range r.Idle {
		out.Idle = append(out.Idle, jsonIdle{Actor: u.Actor, LastActionDate: u.LastActionDate, DaysSinceLastAction: u.DaysSinceLastAction})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
