package activity

import (
	"context"
	"fmt"

	"jira-digest/internal/jira"
)

const (
	commentPageSize  = 50
	worklogPageSize  = 100
	maxFollowUpPages = 200
)

var detailFields = []string{
	"summary", "description", "status", "created", "updated",
	"assignee", "creator", "reporter", "comment", "worklog",
}

// IssueDetail is an issue with its complete comment and worklog lists.
// The changelog is taken as delivered by the issue endpoint.
type IssueDetail struct {
	ID        string
	Key       string
	Fields    jira.FieldsDTO
	Histories []jira.HistoryDTO
	Comments  []jira.CommentDTO
	Worklogs  []jira.WorklogDTO
}

// FetchDetail loads one issue with its changelog and follows up on comment
// and worklog pagination until the reported totals are collected.
func FetchDetail(ctx context.Context, client Tracker, key string) (*IssueDetail, error) {
	issue, err := client.GetIssue(ctx, key, detailFields, []string{"changelog"})
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, fmt.Errorf("empty response")
	}

	detail := &IssueDetail{
		ID:     issue.ID,
		Key:    issue.Key,
		Fields: issue.Fields,
	}
	if detail.Key == "" {
		detail.Key = key
	}
	if issue.Changelog != nil {
		detail.Histories = issue.Changelog.Histories
	}

	var firstComments []jira.CommentDTO
	commentTotal := 0
	if c := issue.Fields.Comment; c != nil {
		firstComments, commentTotal = c.Comments, c.Total
	}
	detail.Comments, err = collectPages(firstComments, commentTotal, commentPageSize, maxFollowUpPages,
		func(startAt, maxResults int) ([]jira.CommentDTO, error) {
			page, err := client.GetComments(ctx, key, startAt, maxResults)
			if err != nil || page == nil {
				return nil, err
			}
			return page.Comments, nil
		})
	if err != nil {
		return nil, fmt.Errorf("comments: %w", err)
	}

	var firstWorklogs []jira.WorklogDTO
	worklogTotal := 0
	if w := issue.Fields.Worklog; w != nil {
		firstWorklogs, worklogTotal = w.Worklogs, w.Total
	}
	detail.Worklogs, err = collectPages(firstWorklogs, worklogTotal, worklogPageSize, maxFollowUpPages,
		func(startAt, maxResults int) ([]jira.WorklogDTO, error) {
			page, err := client.GetWorklogs(ctx, key, startAt, maxResults)
			if err != nil || page == nil {
				return nil, err
			}
			return page.Worklogs, nil
		})
	if err != nil {
		return nil, fmt.Errorf("worklogs: %w", err)
	}

	return detail, nil
}
