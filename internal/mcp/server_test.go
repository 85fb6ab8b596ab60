package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"jira-digest/internal/activity"
	"jira-digest/internal/digest"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	got    digest.Options
	report *digest.Report
	err    error
}

func (s *stubRunner) Run(ctx context.Context, opts digest.Options) (*digest.Report, error) {
	s.got = opts
	return s.report, s.err
}

func connect(t *testing.T, runner Runner) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	st, ct := mcp.NewInMemoryTransports()

	srv := NewServer(runner, "test")
	ss, err := srv.server.Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func sample() *digest.Report {
	return &digest.Report{
		Project:  "ABC",
		Date:     "2024-03-20",
		Timezone: "UTC",
		Users: []digest.UserReport{{
			Actor:   activity.ActorRef{ID: "a1", Name: "Alice"},
			Stats:   activity.Stats{Comments: 1},
			Actions: []activity.Action{{Kind: activity.KindComment, Actor: activity.ActorRef{ID: "a1", Name: "Alice"}, Details: activity.CommentDetails{Excerpt: "done"}}},
			Summary: "Daily summary:\n- Comments: 1",
		}},
	}
}

func TestListTools(t *testing.T) {
	cs := connect(t, &stubRunner{})
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	assert.Equal(t, "daily_digest", res.Tools[0].Name)
	assert.NotNil(t, res.Tools[0].InputSchema)
}

func TestDailyDigest_Text(t *testing.T) {
	runner := &stubRunner{report: sample()}
	cs := connect(t, runner)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "daily_digest",
		Arguments: map[string]any{"date": "2024-03-20", "project": "ABC", "skipLlm": true},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	assert.Equal(t, digest.Options{Date: "2024-03-20", Project: "ABC", SkipLLM: true}, runner.got)
	out := text(t, res)
	assert.Contains(t, out, "Jira action summary for project ABC on 2024-03-20")
	assert.Contains(t, out, "Alice (1 actions)")
}

func TestDailyDigest_JSON(t *testing.T) {
	cs := connect(t, &stubRunner{report: sample()})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "daily_digest",
		Arguments: map[string]any{"format": "json"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
	assert.Equal(t, "ABC", got["project"])
	assert.Len(t, got["users"], 1)
}

func TestDailyDigest_Errors(t *testing.T) {
	cs := connect(t, &stubRunner{err: errors.New("jira unreachable")})
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "daily_digest", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "jira unreachable")

	cs = connect(t, &stubRunner{report: sample()})
	res, err = cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "daily_digest", Arguments: map[string]any{"format": "pdf"}})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "unsupported format")
}
