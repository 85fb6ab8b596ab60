package jira

import (
	"fmt"
	"net/url"
	"strings"
)

// IssueURL returns the browser link of an issue.
func IssueURL(baseURL, key string) string {
	return fmt.Sprintf("%s/browse/%s", strings.TrimRight(baseURL, "/"), key)
}

// CommentURL returns a link that opens the issue with the comment focused.
// It is empty when either the key or the comment id is missing.
func CommentURL(baseURL, key, commentID string) string {
	if key == "" || commentID == "" {
		return ""
	}
	const tab = "page=com.atlassian.jira.plugin.system.issuetabpanels:comment-tabpanel"
	return fmt.Sprintf("%s?%s&focusedCommentId=%s#comment-%s", IssueURL(baseURL, key), tab, commentID, commentID)
}

// IssueSearchURL returns a link to the issue navigator listing the given keys.
func IssueSearchURL(baseURL string, keys []string) string {
	var list []string
	for _, k := range keys {
		if k != "" {
			list = append(list, k)
		}
	}
	if len(list) == 0 {
		return ""
	}
	jql := fmt.Sprintf("key in (%s) order by key", strings.Join(list, ","))
	return fmt.Sprintf("%s/issues/?jql=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(jql))
}
