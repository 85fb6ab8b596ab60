// Package activity discovers the issues of a project that changed during a
// day, extracts the actions people performed on them and aggregates those
// actions per person.
package activity

import (
	"time"
)

// Kind is the type of an extracted action.
type Kind string

const (
	// KindCreated is the creation of an issue.
	KindCreated Kind = "created"
	// KindStatusChange is a workflow transition recorded in the changelog.
	KindStatusChange Kind = "status-change"
	// KindComment is a comment added to an issue.
	KindComment Kind = "comment"
	// KindWorklog is time logged against an issue.
	KindWorklog Kind = "worklog"
	// KindOther is reserved for actions without a dedicated payload.
	KindOther Kind = "other"
)

const (
	UnknownActorID   = "unknown"
	UnknownActorName = "Unknown"
)

// ActorRef identifies the person credited with an action.
type ActorRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Key is the grouping identity: the id, or the name when the id could not
// be resolved.
func (a ActorRef) Key() string {
	if a.ID == "" || a.ID == UnknownActorID {
		return "name:" + a.Name
	}
	return "id:" + a.ID
}

// IssueRef is the issue an action belongs to. It is copied into every
// action of that issue.
type IssueRef struct {
	Key         string `json:"key"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// Details is the kind-specific payload of an action. The concrete types are
// CreatedDetails, StatusChangeDetails, CommentDetails and WorklogDetails.
type Details interface {
	kind() Kind
}

type CreatedDetails struct {
	Status string `json:"status"`
}

type StatusChangeDetails struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type CommentDetails struct {
	Excerpt      string `json:"excerpt"`
	CommentID    string `json:"commentId,omitempty"`
	CommentURL   string `json:"commentUrl,omitempty"`
	CreatedLocal string `json:"createdLocal"` // HH:mm
}

type WorklogDetails struct {
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Comment          string `json:"comment,omitempty"`
	StartedLocal     string `json:"startedLocal"` // HH:mm
}

func (CreatedDetails) kind() Kind      { return KindCreated }
func (StatusChangeDetails) kind() Kind { return KindStatusChange }
func (CommentDetails) kind() Kind      { return KindComment }
func (WorklogDetails) kind() Kind      { return KindWorklog }

// Action is one timestamped event performed by an actor on an issue.
// At is always a valid UTC instant.
type Action struct {
	Kind    Kind      `json:"type"`
	At      time.Time `json:"at"`
	Issue   IssueRef  `json:"issue"`
	Actor   ActorRef  `json:"actor"`
	Details Details   `json:"details,omitempty"`
}

func newAction(at time.Time, issue IssueRef, actor ActorRef, details Details) Action {
	return Action{
		Kind:    details.kind(),
		At:      at.UTC(),
		Issue:   issue,
		Actor:   actor,
		Details: details,
	}
}
