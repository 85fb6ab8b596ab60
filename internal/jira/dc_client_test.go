package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchIssues_SendsQueryAndBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)
		assert.Equal(t, "Bearer pat-123", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "project = ABC", q.Get("jql"))
		assert.Equal(t, "50", q.Get("startAt"))
		assert.Equal(t, "50", q.Get("maxResults"))
		assert.Equal(t, "summary,updated", q.Get("fields"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"startAt":50,"maxResults":50,"total":51,"issues":[{"key":"ABC-1","fields":{"updated":"2024-03-20T10:00:00.000+0700"}}]}`))
	}))
	defer srv.Close()

	c := NewDataCenterClient(Config{BaseURL: srv.URL + "/", Token: "pat-123"})
	resp, err := c.SearchIssues(context.Background(), "project = ABC", 50, 50, []string{"summary", "updated"})
	require.NoError(t, err)
	assert.Equal(t, 51, resp.Total)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "ABC-1", resp.Issues[0].Key)
}

func TestGetIssue_BasicAuthAndExpand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issue/ABC-7", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "changelog", r.URL.Query().Get("expand"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"key": "ABC-7",
			"fields": map[string]any{
				"summary":     "Fix login",
				"description": "Steps to reproduce",
				"comment":     map[string]any{"total": 1, "comments": []any{map[string]any{"id": "10", "body": "hi"}}},
			},
			"changelog": map[string]any{"histories": []any{}},
		})
	}))
	defer srv.Close()

	c := NewDataCenterClient(Config{BaseURL: srv.URL, Email: "me@example.com", APIToken: "secret"})
	issue, err := c.GetIssue(context.Background(), "ABC-7", []string{"summary"}, []string{"changelog"})
	require.NoError(t, err)
	assert.Equal(t, "Fix login", issue.Fields.Summary)
	assert.Equal(t, "Steps to reproduce", PlainText(issue.Fields.Description))
	require.NotNil(t, issue.Fields.Comment)
	assert.Equal(t, "hi", PlainText(issue.Fields.Comment.Comments[0].Body))
	assert.NotNil(t, issue.Changelog)
}

func TestGetJSON_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		header string
		want   string
	}{
		{http.StatusNotFound, "", "issue ABC-1 not found"},
		{http.StatusUnauthorized, "", "authentication failed"},
		{http.StatusForbidden, "", "authentication failed"},
		{http.StatusTooManyRequests, "30", "Retry after 30 seconds"},
		{http.StatusTooManyRequests, "", "rate limit exceeded (429) for issue ABC-1."},
		{http.StatusBadGateway, "", "status 502"},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tt.header != "" {
				w.Header().Set("Retry-After", tt.header)
			}
			w.WriteHeader(tt.status)
		}))

		c := NewDataCenterClient(Config{BaseURL: srv.URL})
		_, err := c.GetIssue(context.Background(), "ABC-1", nil, nil)
		srv.Close()

		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("status %d: error = %v, want it to contain %q", tt.status, err, tt.want)
		}
	}
}

func TestGetComments_Paging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issue/ABC-1/comment", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("startAt"))
		_, _ = w.Write([]byte(`{"startAt":2,"total":3,"comments":[{"id":"3","created":"2024-03-20T10:00:00.000+0000"}]}`))
	}))
	defer srv.Close()

	c := NewDataCenterClient(Config{BaseURL: srv.URL})
	page, err := c.GetComments(context.Background(), "ABC-1", 2, 50)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Comments, 1)
}

func TestGetIssue_EmptyKey(t *testing.T) {
	c := NewDataCenterClient(Config{BaseURL: "http://unused"})
	_, err := c.GetIssue(context.Background(), "", nil, nil)
	assert.Error(t, err)
}
