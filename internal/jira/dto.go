package jira

import (
	"bytes"
	"encoding/json"
	"time"
)

// SearchResponse is the top-level container for Jira search results.
type SearchResponse struct {
	StartAt    int        `json:"startAt"`
	MaxResults int        `json:"maxResults"`
	Total      int        `json:"total"`
	Issues     []IssueDTO `json:"issues"`
}

// IssueDTO represents a single issue as returned by search or the issue endpoint.
type IssueDTO struct {
	ID        string        `json:"id"`
	Key       string        `json:"key"`
	Fields    FieldsDTO     `json:"fields"`
	Changelog *ChangelogDTO `json:"changelog,omitempty"`
}

// FieldsDTO contains the specific fields we care about.
type FieldsDTO struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"`
	Status      *StatusDTO      `json:"status,omitempty"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	Assignee    *UserDTO        `json:"assignee,omitempty"`
	Creator     *UserDTO        `json:"creator,omitempty"`
	Reporter    *UserDTO        `json:"reporter,omitempty"`
	Comment     *CommentPageDTO `json:"comment,omitempty"`
	Worklog     *WorklogPageDTO `json:"worklog,omitempty"`
}

// StatusDTO is the embedded status object of an issue.
type StatusDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserDTO is a Jira user reference. Cloud populates AccountID, Data Center
// populates Key and Name; either may omit EmailAddress.
type UserDTO struct {
	AccountID    string `json:"accountId,omitempty"`
	Key          string `json:"key,omitempty"`
	Name         string `json:"name,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
}

// ChangelogDTO contains historical transitions.
type ChangelogDTO struct {
	Histories []HistoryDTO `json:"histories"`
}

// HistoryDTO is a single entry in the changelog.
type HistoryDTO struct {
	ID      string    `json:"id"`
	Author  *UserDTO  `json:"author,omitempty"`
	Created string    `json:"created"`
	Items   []ItemDTO `json:"items"`
}

// ItemDTO is a single field change within a history entry.
type ItemDTO struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
	From       string `json:"from"` // ID
	To         string `json:"to"`   // ID
}

// CommentPageDTO is one page of issue comments.
type CommentPageDTO struct {
	StartAt    int          `json:"startAt"`
	MaxResults int          `json:"maxResults"`
	Total      int          `json:"total"`
	Comments   []CommentDTO `json:"comments"`
}

// CommentDTO is a single issue comment. Body is wiki text on API v2 and an
// ADF document on v3.
type CommentDTO struct {
	ID           string          `json:"id"`
	Author       *UserDTO        `json:"author,omitempty"`
	UpdateAuthor *UserDTO        `json:"updateAuthor,omitempty"`
	Body         json.RawMessage `json:"body,omitempty"`
	Created      string          `json:"created"`
	Updated      string          `json:"updated"`
}

// WorklogPageDTO is one page of issue worklogs.
type WorklogPageDTO struct {
	StartAt    int          `json:"startAt"`
	MaxResults int          `json:"maxResults"`
	Total      int          `json:"total"`
	Worklogs   []WorklogDTO `json:"worklogs"`
}

// WorklogDTO is a single worklog entry.
type WorklogDTO struct {
	ID               string          `json:"id"`
	Author           *UserDTO        `json:"author,omitempty"`
	UpdateAuthor     *UserDTO        `json:"updateAuthor,omitempty"`
	Comment          json.RawMessage `json:"comment,omitempty"`
	Started          string          `json:"started"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
}

// ProjectRoleDTO is a project role with its actors.
type ProjectRoleDTO struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Actors []RoleActorDTO `json:"actors"`
}

// RoleActorDTO is either a user or a group assigned to a project role.
type RoleActorDTO struct {
	DisplayName string   `json:"displayName"`
	Type        string   `json:"type"`
	ActorUser   *UserDTO `json:"actorUser,omitempty"`
	ActorGroup  *struct {
		Name string `json:"name"`
	} `json:"actorGroup,omitempty"`
}

// PlainText renders a rich-text field as a string. JSON strings are
// unquoted; documents (ADF) are kept as compact JSON.
func PlainText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

// ParseTime is a helper for the strict Jira time format.
func ParseTime(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05.000-0700", s)
}
