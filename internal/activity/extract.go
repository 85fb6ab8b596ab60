package activity

import (
	"strings"
	"time"

	"jira-digest/internal/jira"
	"jira-digest/internal/timerange"
)

// Truncation caps for free text carried in actions.
const (
	SummaryMax        = 120
	DescriptionMax    = 180
	CommentMax        = 200
	WorklogCommentMax = 160
)

const localClock = "15:04"

// Extractor projects issue details into the actions that happened inside Range.
type Extractor struct {
	Range   timerange.TimeRange
	BaseURL string
}

// Extract returns the in-window actions of one issue: creation, then status
// changes in changelog order, then comments, then worklogs.
func (e Extractor) Extract(issue *IssueDetail) []Action {
	if issue == nil {
		return nil
	}
	ref := IssueRef{
		Key:         issue.Key,
		Summary:     Truncate(issue.Fields.Summary, SummaryMax),
		Description: Truncate(jira.PlainText(issue.Fields.Description), DescriptionMax),
		URL:         jira.IssueURL(e.BaseURL, issue.Key),
	}

	var actions []Action
	actions = e.appendCreated(actions, issue, ref)
	actions = e.appendStatusChanges(actions, issue, ref)
	actions = e.appendComments(actions, issue, ref)
	actions = e.appendWorklogs(actions, issue, ref)
	return actions
}

// inWindow parses value and reports whether it lies in the range.
func (e Extractor) inWindow(value string) (time.Time, bool) {
	t, ok := ParseTimestamp(value)
	if !ok || !e.Range.Contains(t) {
		return time.Time{}, false
	}
	return t, true
}

func (e Extractor) appendCreated(actions []Action, issue *IssueDetail, ref IssueRef) []Action {
	at, ok := e.inWindow(issue.Fields.Created)
	if !ok {
		return actions
	}
	status := ""
	if issue.Fields.Status != nil {
		status = issue.Fields.Status.Name
	}
	actor := ResolveActor(CreatedActorCandidates(issue)...)
	return append(actions, newAction(at, ref, actor, CreatedDetails{Status: status}))
}

func (e Extractor) appendStatusChanges(actions []Action, issue *IssueDetail, ref IssueRef) []Action {
	for i := range issue.Histories {
		history := &issue.Histories[i]
		at, ok := e.inWindow(history.Created)
		if !ok {
			continue
		}
		item := statusItem(history.Items)
		if item == nil {
			continue
		}
		actor := ResolveActor(StatusChangeActorCandidates(issue, history)...)
		actions = append(actions, newAction(at, ref, actor, StatusChangeDetails{
			From: firstNonEmpty(item.FromString, item.From),
			To:   firstNonEmpty(item.ToString, item.To),
		}))
	}
	return actions
}

func (e Extractor) appendComments(actions []Action, issue *IssueDetail, ref IssueRef) []Action {
	for i := range issue.Comments {
		comment := &issue.Comments[i]
		at, ok := e.inWindow(comment.Created)
		if !ok {
			continue
		}
		actor := ResolveActor(CommentActorCandidates(issue, comment)...)
		actions = append(actions, newAction(at, ref, actor, CommentDetails{
			Excerpt:      Truncate(jira.PlainText(comment.Body), CommentMax),
			CommentID:    comment.ID,
			CommentURL:   jira.CommentURL(e.BaseURL, issue.Key, comment.ID),
			CreatedLocal: e.Range.Local(at).Format(localClock),
		}))
	}
	return actions
}

func (e Extractor) appendWorklogs(actions []Action, issue *IssueDetail, ref IssueRef) []Action {
	for i := range issue.Worklogs {
		worklog := &issue.Worklogs[i]
		at, ok := e.inWindow(worklog.Started)
		if !ok {
			continue
		}
		actor := ResolveActor(WorklogActorCandidates(issue, worklog)...)
		actions = append(actions, newAction(at, ref, actor, WorklogDetails{
			TimeSpentSeconds: worklog.TimeSpentSeconds,
			Comment:          Truncate(jira.PlainText(worklog.Comment), WorklogCommentMax),
			StartedLocal:     e.Range.Local(at).Format(localClock),
		}))
	}
	return actions
}

// statusItem returns the first changelog item that changes the status field.
func statusItem(items []jira.ItemDTO) *jira.ItemDTO {
	for i := range items {
		if strings.EqualFold(items[i].Field, "status") {
			return &items[i]
		}
	}
	return nil
}

// Truncate shortens s to limit runes, replacing the tail with "...".
func Truncate(s string, limit int) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
