// Package mcp exposes the digest as a Model Context Protocol tool so an
// assistant can ask for a day's per-person Jira activity.
package mcp

import (
	"bytes"
	"context"
	"fmt"

	"jira-digest/internal/digest"
	"jira-digest/internal/report"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Runner produces a digest. *digest.Runner satisfies it.
type Runner interface {
	Run(ctx context.Context, opts digest.Options) (*digest.Report, error)
}

// Server holds the state for the MCP server.
type Server struct {
	server *mcp.Server
	runner Runner
}

// DigestInput are the arguments of the daily_digest tool.
type DigestInput struct {
	Date    string `json:"date,omitempty" jsonschema:"Day to report as yyyy-mm-dd in the digest timezone. Defaults to today."`
	Project string `json:"project,omitempty" jsonschema:"Jira project key. Defaults to the configured project."`
	SkipLLM bool   `json:"skipLlm,omitempty" jsonschema:"Use the local summary only, without calling the language model."`
	Format  string `json:"format,omitempty" jsonschema:"Output format: text (default) or json."`
}

// NewServer creates a new MCP server.
func NewServer(runner Runner, version string) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: "jira-digest", Version: version}, nil),
		runner: runner,
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "daily_digest",
		Description: "Summarise one day of Jira activity per person for a project: issues created, status changes, comments and worklogs, " +
			"each person's summary and the roster members without any action. Guidance: omit 'date' for today; use format 'json' when you need the raw actions.",
	}, s.handleDigest)
	return s
}

// Serve runs the server over stdin/stdout until the client disconnects or
// ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Msg("MCP Server starting Stdio loop")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleDigest(ctx context.Context, req *mcp.CallToolRequest, in DigestInput) (*mcp.CallToolResult, any, error) {
	log.Info().Str("date", in.Date).Str("project", in.Project).Bool("skipLlm", in.SkipLLM).Msg("Tool call daily_digest")

	r, err := s.runner.Run(ctx, digest.Options{Date: in.Date, Project: in.Project, SkipLLM: in.SkipLLM})
	if err != nil {
		log.Error().Err(err).Msg("daily_digest failed")
		return errorResult(err), nil, nil
	}

	var buf bytes.Buffer
	switch in.Format {
	case "", "text":
		err = report.RenderText(&buf, r)
	case "json":
		err = report.RenderJSON(&buf, r)
	default:
		return errorResult(fmt.Errorf("unsupported format %q: use text or json", in.Format)), nil, nil
	}
	if err != nil {
		return errorResult(err), nil, nil
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: buf.String()}}}, nil, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
