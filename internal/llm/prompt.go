package llm

import (
	"fmt"
	"strings"
	"time"

	"jira-digest/internal/activity"
)

const (
	promptDescriptionMax = 120
	promptCommentMax     = 160
)

// BuildPrompt lists every action of the group with its local time and asks
// for a short bulleted recap of the day.
func BuildPrompt(g activity.ActorGroup, dateLabel string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the Jira actions of %s on %s (timezone %s). ", g.Actor.Name, dateLabel, loc)
	b.WriteString("Answer with 3-6 short bullets carrying enough detail (issue key, short title, outcome, status, time when it matters). ")
	b.WriteString("Prioritise finished or blocked work and avoid repetition.\n")

	for _, a := range g.Actions {
		b.WriteString(actionLine(a, loc))
		b.WriteByte('\n')
	}
	b.WriteString("Finish with one bullet counting created issues, status changes, comments and worklogs.")
	return b.String()
}

func actionLine(a activity.Action, loc *time.Location) string {
	at := a.At.In(loc).Format("15:04")
	desc := ""
	if a.Issue.Description != "" {
		desc = " | " + activity.Truncate(a.Issue.Description, promptDescriptionMax)
	}
	switch d := a.Details.(type) {
	case activity.StatusChangeDetails:
		return fmt.Sprintf("- [%s] %s %s -> %s | %s%s", at, a.Issue.Key, d.From, d.To, a.Issue.Summary, desc)
	case activity.CommentDetails:
		return fmt.Sprintf("- [%s] comment %s: %s%s", at, a.Issue.Key, activity.Truncate(d.Excerpt, promptCommentMax), desc)
	case activity.WorklogDetails:
		mins := (d.TimeSpentSeconds + 30) / 60
		return fmt.Sprintf("- [%s] worklog %dm %s: %s%s", at, mins, a.Issue.Key, a.Issue.Summary, desc)
	case activity.CreatedDetails:
		return fmt.Sprintf("- [%s] created %s (%s) status %s%s", at, a.Issue.Key, a.Issue.Summary, d.Status, desc)
	default:
		return fmt.Sprintf("- [%s] %s %s: %s%s", at, a.Kind, a.Issue.Key, a.Issue.Summary, desc)
	}
}
