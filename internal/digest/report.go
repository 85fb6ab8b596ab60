package digest

import (
	"fmt"
	"strings"

	"jira-digest/internal/activity"
)

// UserReport is one person's section of the digest.
type UserReport struct {
	Actor   activity.ActorRef `json:"actor"`
	Stats   activity.Stats    `json:"stats"`
	Actions []activity.Action `json:"actions"`
	Summary string            `json:"summary,omitempty"`
	// IssuesURL opens the touched issues in the Jira issue navigator.
	IssuesURL string `json:"issuesUrl,omitempty"`
	// LastActionDate and DaysSinceLastAction are set for roster members
	// without actions on the reported day.
	LastActionDate      string `json:"lastActionDate,omitempty"`
	DaysSinceLastAction *int   `json:"daysSinceLastAction,omitempty"`
}

// Report is the digest of one project for one day.
type Report struct {
	Project  string       `json:"project"`
	Date     string       `json:"date"`
	Timezone string       `json:"timezone"`
	RunID    string       `json:"runId,omitempty"`
	Users    []UserReport `json:"users"`
	Idle     []UserReport `json:"idle,omitempty"`
	// Discovered and FailedIssues describe the completeness of the run.
	Discovered   int      `json:"discovered"`
	FailedIssues []string `json:"failedIssues,omitempty"`
}

// Groups converts the active users back into actor groups.
func (r *Report) Groups() []activity.ActorGroup {
	groups := make([]activity.ActorGroup, len(r.Users))
	for i, u := range r.Users {
		groups[i] = activity.ActorGroup{Actor: u.Actor, Actions: u.Actions, Stats: u.Stats}
	}
	return groups
}

// String is a one-line description of the report used in logs and the MCP tool.
func (r *Report) String() string {
	var names []string
	for _, u := range r.Users {
		names = append(names, u.Actor.Name)
	}
	return fmt.Sprintf("%s %s: %d active (%s), %d idle", r.Project, r.Date, len(r.Users), strings.Join(names, ", "), len(r.Idle))
}
