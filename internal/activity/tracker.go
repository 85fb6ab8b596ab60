package activity

import (
	"context"

	"jira-digest/internal/jira"
)

// Tracker is the subset of the Jira API the engine reads from.
// jira.Client satisfies it.
type Tracker interface {
	SearchIssues(ctx context.Context, jql string, startAt int, maxResults int, fields []string) (*jira.SearchResponse, error)
	GetIssue(ctx context.Context, key string, fields []string, expand []string) (*jira.IssueDTO, error)
	GetComments(ctx context.Context, key string, startAt int, maxResults int) (*jira.CommentPageDTO, error)
	GetWorklogs(ctx context.Context, key string, startAt int, maxResults int) (*jira.WorklogPageDTO, error)
}

// collectPages completes a listing whose first page may be short of the
// reported total. fetch is called with the running offset until the total is
// reached, a page comes back empty or maxPages follow-up calls were made.
func collectPages[T any](initial []T, total int, pageSize int, maxPages int, fetch func(startAt, maxResults int) ([]T, error)) ([]T, error) {
	collected := append([]T(nil), initial...)
	for page := 0; len(collected) < total; page++ {
		if page >= maxPages {
			return nil, ErrPageCeiling
		}
		items, err := fetch(len(collected), pageSize)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		collected = append(collected, items...)
	}
	return collected, nil
}
