package jira

import (
	"context"
	"time"
)

// Client is the interface for interacting with Jira.
type Client interface {
	SearchIssues(ctx context.Context, jql string, startAt int, maxResults int, fields []string) (*SearchResponse, error)
	GetIssue(ctx context.Context, key string, fields []string, expand []string) (*IssueDTO, error)
	GetComments(ctx context.Context, key string, startAt int, maxResults int) (*CommentPageDTO, error)
	GetWorklogs(ctx context.Context, key string, startAt int, maxResults int) (*WorklogPageDTO, error)
	GetProjectRoles(ctx context.Context, projectKey string) (map[string]string, error)
	GetProjectRole(ctx context.Context, projectKey string, roleID string) (*ProjectRoleDTO, error)
	GetUser(ctx context.Context, accountID string) (*UserDTO, error)
}

// Config holds the authentication and connection settings for Jira.
type Config struct {
	BaseURL string

	// Personal Access Token, sent as a bearer token. Takes precedence over basic auth.
	Token string

	// Basic auth (Jira Cloud email + API token)
	Email    string
	APIToken string

	Timeout time.Duration
}

// NewClient creates a new Jira client based on the provided configuration.
func NewClient(cfg Config) Client {
	return NewDataCenterClient(cfg)
}
