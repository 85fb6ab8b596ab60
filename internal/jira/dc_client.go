package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type dcClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewDataCenterClient(cfg Config) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &dcClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *dcClient) authenticateRequest(req *http.Request) {
	// 1. Prioritize Personal Access Token (PAT)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.Token))
		return
	}

	// 2. Fallback to basic auth (Cloud email + API token)
	if c.cfg.Email != "" && c.cfg.APIToken != "" {
		req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	}
}

// getJSON performs an authenticated GET and decodes the body into out.
// subject names the requested resource in error messages.
func (c *dcClient) getJSON(ctx context.Context, path string, params url.Values, subject string, out any) error {
	reqURL := c.cfg.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	log.Debug().Str("url", reqURL).Msg("Jira request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	c.authenticateRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s not found", subject)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("Jira authentication failed (401/403) for %s. Please check your credentials.", subject)
		case http.StatusTooManyRequests:
			retryAfter := resp.Header.Get("Retry-After")
			if retryAfter != "" {
				return fmt.Errorf("Jira rate limit exceeded (429) for %s. Retry after %s seconds.", subject, retryAfter)
			}
			return fmt.Errorf("Jira rate limit exceeded (429) for %s.", subject)
		default:
			return fmt.Errorf("Jira API returned status %d for %s", resp.StatusCode, subject)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", subject, err)
	}
	return nil
}

func pageParams(startAt, maxResults int) url.Values {
	params := url.Values{}
	params.Set("startAt", strconv.Itoa(startAt))
	if maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(maxResults))
	}
	return params
}

func (c *dcClient) SearchIssues(ctx context.Context, jql string, startAt int, maxResults int, fields []string) (*SearchResponse, error) {
	params := pageParams(startAt, maxResults)
	params.Set("jql", jql)
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	log.Debug().Str("jql", jql).Int("startAt", startAt).Msg("Jira search details")

	var result SearchResponse
	if err := c.getJSON(ctx, "/rest/api/2/search", params, "issue search", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *dcClient) GetIssue(ctx context.Context, key string, fields []string, expand []string) (*IssueDTO, error) {
	if key == "" {
		return nil, fmt.Errorf("empty issue key")
	}
	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	if len(expand) > 0 {
		params.Set("expand", strings.Join(expand, ","))
	}

	var issue IssueDTO
	if err := c.getJSON(ctx, "/rest/api/2/issue/"+url.PathEscape(key), params, "issue "+key, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *dcClient) GetComments(ctx context.Context, key string, startAt int, maxResults int) (*CommentPageDTO, error) {
	var page CommentPageDTO
	path := "/rest/api/2/issue/" + url.PathEscape(key) + "/comment"
	if err := c.getJSON(ctx, path, pageParams(startAt, maxResults), "comments of "+key, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *dcClient) GetWorklogs(ctx context.Context, key string, startAt int, maxResults int) (*WorklogPageDTO, error) {
	var page WorklogPageDTO
	path := "/rest/api/2/issue/" + url.PathEscape(key) + "/worklog"
	if err := c.getJSON(ctx, path, pageParams(startAt, maxResults), "worklogs of "+key, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProjectRoles returns role name -> role self link.
func (c *dcClient) GetProjectRoles(ctx context.Context, projectKey string) (map[string]string, error) {
	roles := make(map[string]string)
	path := "/rest/api/2/project/" + url.PathEscape(projectKey) + "/role"
	if err := c.getJSON(ctx, path, nil, "roles of project "+projectKey, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *dcClient) GetProjectRole(ctx context.Context, projectKey string, roleID string) (*ProjectRoleDTO, error) {
	var role ProjectRoleDTO
	path := "/rest/api/2/project/" + url.PathEscape(projectKey) + "/role/" + url.PathEscape(roleID)
	if err := c.getJSON(ctx, path, nil, "role "+roleID+" of project "+projectKey, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (c *dcClient) GetUser(ctx context.Context, accountID string) (*UserDTO, error) {
	params := url.Values{}
	params.Set("accountId", accountID)
	var user UserDTO
	if err := c.getJSON(ctx, "/rest/api/2/user", params, "user "+accountID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
