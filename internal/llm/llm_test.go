package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"jira-digest/internal/activity"
	"jira-digest/internal/config"
	"jira-digest/internal/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGroup() activity.ActorGroup {
	at := time.Date(2024, 3, 20, 2, 0, 0, 0, time.UTC)
	actions := []activity.Action{
		{Kind: activity.KindCreated, At: at, Issue: activity.IssueRef{Key: "ABC-1", Summary: "Fix login", Description: "Users cannot log in"},
			Actor: activity.ActorRef{ID: "a1", Name: "Alice"}, Details: activity.CreatedDetails{Status: "To Do"}},
		{Kind: activity.KindStatusChange, At: at.Add(time.Hour), Issue: activity.IssueRef{Key: "ABC-1", Summary: "Fix login"},
			Actor: activity.ActorRef{ID: "a1", Name: "Alice"}, Details: activity.StatusChangeDetails{From: "To Do", To: "In Progress"}},
		{Kind: activity.KindComment, At: at.Add(2 * time.Hour), Issue: activity.IssueRef{Key: "ABC-1", Summary: "Fix login"},
			Actor: activity.ActorRef{ID: "a1", Name: "Alice"}, Details: activity.CommentDetails{Excerpt: "Found the cause"}},
		{Kind: activity.KindWorklog, At: at.Add(5 * time.Hour), Issue: activity.IssueRef{Key: "ABC-1", Summary: "Fix login"},
			Actor: activity.ActorRef{ID: "a1", Name: "Alice"}, Details: activity.WorklogDetails{TimeSpentSeconds: 3600}},
	}
	return activity.GroupActionsByActor(actions)[0]
}

func hcm(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	return loc
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleGroup(), "2024-03-20", hcm(t))

	assert.True(t, strings.HasPrefix(prompt, "Summarize the Jira actions of Alice on 2024-03-20 (timezone Asia/Ho_Chi_Minh)."))
	assert.Contains(t, prompt, "- [09:00] created ABC-1 (Fix login) status To Do | Users cannot log in\n")
	assert.Contains(t, prompt, "- [10:00] ABC-1 To Do -> In Progress | Fix login\n")
	assert.Contains(t, prompt, "- [11:00] comment ABC-1: Found the cause\n")
	assert.Contains(t, prompt, "- [14:00] worklog 60m ABC-1: Fix login\n")
	assert.True(t, strings.HasSuffix(prompt, "comments and worklogs."))
}

func TestLMXClient_Endpoints(t *testing.T) {
	c := NewLMXClient("http://localhost:8002/", "/v1/chat/completions", "", 0)
	assert.Equal(t, []string{
		"http://localhost:8002/v1/chat/completions",
		"http://localhost:8002/v1/completions",
	}, c.Endpoints())

	c = NewLMXClient("http://localhost:8002", "/api/summarize", "", 0)
	assert.Equal(t, []string{
		"http://localhost:8002/api/summarize",
		"http://localhost:8002/v1/chat/completions",
		"http://localhost:8002/v1/completions",
	}, c.Endpoints())
}

func TestLMXClient_FallsThroughEndpoints(t *testing.T) {
	var mu sync.Mutex
	var hits []string
	var completionBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.Path)
		mu.Unlock()

		switch r.URL.Path {
		case "/api/summarize":
			w.WriteHeader(http.StatusNotFound)
		case "/v1/chat/completions":
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
		case "/v1/completions":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&completionBody))
			_, _ = w.Write([]byte(`{"choices":[{"text":"  - Alice fixed login  "}]}`))
		}
	}))
	defer srv.Close()

	c := NewLMXClient(srv.URL, "/api/summarize", "local-model", time.Second)
	text, err := c.Summarize(context.Background(), "prompt text")
	require.NoError(t, err)

	assert.Equal(t, "- Alice fixed login", text)
	assert.Equal(t, []string{"/api/summarize", "/v1/chat/completions", "/v1/completions"}, hits)
	assert.Equal(t, "prompt text", completionBody["prompt"])
	assert.Equal(t, "local-model", completionBody["model"])
	assert.Equal(t, false, completionBody["stream"])
}

func TestLMXClient_ResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"summary field", `{"summary":"s","result":"r"}`, "s"},
		{"result field", `{"result":"r"}`, "r"},
		{"output field", `{"output":"o"}`, "o"},
		{"chat choice", `{"choices":[{"message":{"content":"c"}}]}`, "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var chatBody map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&chatBody)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			text, err := NewLMXClient(srv.URL, "/v1/chat/completions", "", time.Second).Summarize(context.Background(), "p")
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)

			messages, ok := chatBody["messages"].([]any)
			require.True(t, ok, "chat route must receive messages")
			assert.Equal(t, map[string]any{"role": "user", "content": "p"}, messages[0])
		})
	}
}

func TestLMXClient_AllEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewLMXClient(srv.URL, "/v1/chat/completions", "", time.Second).Summarize(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "status 502")
}

func TestOpenAIClient_Summarize(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":" Alice shipped the login fix. "}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "", srv.URL+"/", time.Second)
	text, err := c.Summarize(context.Background(), "prompt text")
	require.NoError(t, err)

	assert.Equal(t, "Alice shipped the login fix.", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
}

func TestOpenAIClient_MissingKey(t *testing.T) {
	_, err := NewOpenAIClient("", "m", "", 0).Summarize(context.Background(), "p")
	assert.ErrorIs(t, err, ErrMissingKey)
}

type stubSummarizer struct {
	text string
	err  error
}

func (s stubSummarizer) Summarize(context.Context, string) (string, error) { return s.text, s.err }

func TestSummarizeWithFallback(t *testing.T) {
	g := sampleGroup()
	local := summary.Local(g)
	boom := errors.New("boom")

	tests := []struct {
		name     string
		s        Summarizer
		required bool
		want     string
		wantErr  bool
	}{
		{"provider answers", stubSummarizer{text: "llm text"}, false, "llm text", false},
		{"provider fails", stubSummarizer{err: boom}, false, local, false},
		{"provider fails and required", stubSummarizer{err: boom}, true, "", true},
		{"no provider", nil, false, local, false},
		{"no provider and required", nil, true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SummarizeWithFallback(context.Background(), tt.s, g, "2024-03-20", hcm(t), tt.required)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	s, err := New(config.LLMConfig{Provider: "lmx", LMXBaseURL: "http://x"})
	require.NoError(t, err)
	assert.IsType(t, &LMXClient{}, s)

	s, err = New(config.LLMConfig{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, s)

	_, err = New(config.LLMConfig{Provider: "gemini"})
	assert.Error(t, err)
}
