package activity

import (
	"context"
	"fmt"
	"time"

	"jira-digest/internal/jira"
	"jira-digest/internal/timerange"

	"github.com/rs/zerolog/log"
)

const (
	// DiscoveryPageSize is the maxResults of every search page.
	DiscoveryPageSize = 50
	// maxDiscoveryPages bounds the loop against an API whose total keeps growing.
	maxDiscoveryPages = 2000
)

var discoveryFields = []string{"summary", "updated"}

// DiscoveredIssue is a candidate issue updated inside the window.
// UpdatedAt is zero when Jira's value could not be parsed.
type DiscoveredIssue struct {
	Key       string
	UpdatedAt time.Time
}

// DiscoveryJQL is the search for every issue of the project updated in r.
// Bounds are written in the range's local zone, minute precision.
func DiscoveryJQL(projectKey string, r timerange.TimeRange) string {
	const jqlTime = "2006-01-02 15:04"
	return fmt.Sprintf("project = %s AND updated >= \"%s\" AND updated < \"%s\" ORDER BY updated ASC",
		projectKey, r.Local(r.Start).Format(jqlTime), r.Local(r.End).Format(jqlTime))
}

// Discover returns every issue of projectKey whose "updated" lies in r,
// walking all search pages. Each page call holds a limiter slot. Any page
// failure aborts discovery with a *DiscoveryError.
func Discover(ctx context.Context, client Tracker, limiter *Limiter, projectKey string, r timerange.TimeRange) ([]DiscoveredIssue, error) {
	jql := DiscoveryJQL(projectKey, r)

	var found []DiscoveredIssue
	startAt := 0
	for page := 0; ; page++ {
		if page >= maxDiscoveryPages {
			return nil, &DiscoveryError{ProjectKey: projectKey, Offset: startAt, Err: ErrPageCeiling}
		}

		var resp *jira.SearchResponse
		err := limiter.Do(ctx, func(ctx context.Context) error {
			var err error
			resp, err = client.SearchIssues(ctx, jql, startAt, DiscoveryPageSize, discoveryFields)
			return err
		})
		if err != nil {
			return nil, &DiscoveryError{ProjectKey: projectKey, Offset: startAt, Err: err}
		}
		if resp == nil {
			resp = &jira.SearchResponse{}
		}

		for _, issue := range resp.Issues {
			d := DiscoveredIssue{Key: issue.Key}
			if t, ok := ParseTimestamp(issue.Fields.Updated); ok {
				d.UpdatedAt = t
			}
			found = append(found, d)
		}

		// An empty page ends the walk even if the reported total says otherwise.
		if len(found) >= resp.Total || len(resp.Issues) == 0 {
			break
		}
		startAt += len(resp.Issues)
	}

	log.Info().Str("project", projectKey).Str("jql", jql).Int("count", len(found)).Msg("Discovered updated issues")
	return found, nil
}
