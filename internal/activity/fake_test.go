package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jira-digest/internal/jira"
	"jira-digest/internal/timerange"
)

// fakeTracker serves issues from memory and records every call.
type fakeTracker struct {
	mu sync.Mutex

	searchKeys  []string
	searchTotal int // reported total; defaults to len(searchKeys)
	searchErrAt int // startAt that fails; -1 disables
	issues      map[string]*jira.IssueDTO
	comments    map[string][]jira.CommentDTO
	worklogs    map[string][]jira.WorklogDTO
	failIssues  map[string]error
	delay       time.Duration

	searchCalls   []int
	commentCalls  []int
	worklogCalls  []int
	inFlight      int
	maxInFlight   int
	issueRequests int
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		searchErrAt: -1,
		issues:      make(map[string]*jira.IssueDTO),
		comments:    make(map[string][]jira.CommentDTO),
		worklogs:    make(map[string][]jira.WorklogDTO),
		failIssues:  make(map[string]error),
	}
}

func (f *fakeTracker) enter() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeTracker) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeTracker) addIssue(issue *jira.IssueDTO) {
	f.issues[issue.Key] = issue
	f.searchKeys = append(f.searchKeys, issue.Key)
}

func (f *fakeTracker) SearchIssues(ctx context.Context, jql string, startAt int, maxResults int, fields []string) (*jira.SearchResponse, error) {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, startAt)
	f.mu.Unlock()

	if startAt == f.searchErrAt {
		return nil, errors.New("search unavailable")
	}
	total := f.searchTotal
	if total == 0 {
		total = len(f.searchKeys)
	}
	resp := &jira.SearchResponse{StartAt: startAt, MaxResults: maxResults, Total: total}
	for i := startAt; i < len(f.searchKeys) && i < startAt+maxResults; i++ {
		resp.Issues = append(resp.Issues, jira.IssueDTO{Key: f.searchKeys[i]})
	}
	return resp, nil
}

func (f *fakeTracker) GetIssue(ctx context.Context, key string, fields []string, expand []string) (*jira.IssueDTO, error) {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	f.issueRequests++
	f.mu.Unlock()

	if err := f.failIssues[key]; err != nil {
		return nil, err
	}
	issue, ok := f.issues[key]
	if !ok {
		return nil, errors.New("issue " + key + " not found")
	}
	return issue, nil
}

func (f *fakeTracker) GetComments(ctx context.Context, key string, startAt int, maxResults int) (*jira.CommentPageDTO, error) {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	f.commentCalls = append(f.commentCalls, startAt)
	f.mu.Unlock()

	all := f.comments[key]
	page := &jira.CommentPageDTO{StartAt: startAt, MaxResults: maxResults, Total: len(all)}
	for i := startAt; i < len(all) && i < startAt+maxResults; i++ {
		page.Comments = append(page.Comments, all[i])
	}
	return page, nil
}

func (f *fakeTracker) GetWorklogs(ctx context.Context, key string, startAt int, maxResults int) (*jira.WorklogPageDTO, error) {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	f.worklogCalls = append(f.worklogCalls, startAt)
	f.mu.Unlock()

	all := f.worklogs[key]
	page := &jira.WorklogPageDTO{StartAt: startAt, MaxResults: maxResults, Total: len(all)}
	for i := startAt; i < len(all) && i < startAt+maxResults; i++ {
		page.Worklogs = append(page.Worklogs, all[i])
	}
	return page, nil
}

// hcmDay is 2024-03-20 in Asia/Ho_Chi_Minh: [2024-03-19T17:00Z, 2024-03-20T17:00Z).
func hcmDay(t testing.TB) timerange.TimeRange {
	t.Helper()
	r, err := timerange.Resolve("2024-03-20", "Asia/Ho_Chi_Minh")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return r
}

func user(id, name string) *jira.UserDTO {
	return &jira.UserDTO{AccountID: id, DisplayName: name}
}
