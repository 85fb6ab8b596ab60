package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LMXClient talks to a local OpenAI-compatible server. Servers differ in the
// route they expose and the shape they answer with, so several endpoints are
// tried in order and several response fields are accepted.
type LMXClient struct {
	baseURL string
	path    string
	model   string
	http    *http.Client
}

// NewLMXClient creates a client for the server at baseURL. path is tried
// first, then the standard chat and completion routes.
func NewLMXClient(baseURL, path, model string, timeout time.Duration) *LMXClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LMXClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    path,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

// Endpoints lists the URLs tried by Summarize, without duplicates.
func (c *LMXClient) Endpoints() []string {
	candidates := []string{
		c.baseURL + c.path,
		c.baseURL + "/v1/chat/completions",
		c.baseURL + "/v1/completions",
	}
	var out []string
	for _, u := range candidates {
		if !slices.Contains(out, u) {
			out = append(out, u)
		}
	}
	return out
}

// Summarize returns the first successful answer among Endpoints.
func (c *LMXClient) Summarize(ctx context.Context, prompt string) (string, error) {
	logger := zerolog.Ctx(ctx)
	var errs []error
	for _, url := range c.Endpoints() {
		text, err := c.call(ctx, url, prompt)
		if err == nil {
			logger.Info().Str("url", url).Msg("LMX summarize succeeded")
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logger.Warn().Err(err).Str("url", url).Msg("LMX summarize failed on endpoint")
		errs = append(errs, err)
	}
	return "", fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

type lmxMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type lmxRequest struct {
	Model    string       `json:"model,omitempty"`
	Messages []lmxMessage `json:"messages,omitempty"`
	Prompt   string       `json:"prompt,omitempty"`
	Stream   bool         `json:"stream"`
}

type lmxResponse struct {
	Summary string `json:"summary"`
	Result  string `json:"result"`
	Text    string `json:"text"`
	Output  string `json:"output"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// text picks the first populated field of the known response shapes.
func (r lmxResponse) text() string {
	for _, s := range []string{r.Summary, r.Result, r.Text, r.Output} {
		if s != "" {
			return s
		}
	}
	if len(r.Choices) > 0 {
		if r.Choices[0].Message.Content != "" {
			return r.Choices[0].Message.Content
		}
		return r.Choices[0].Text
	}
	return ""
}

func (c *LMXClient) call(ctx context.Context, url, prompt string) (string, error) {
	body := lmxRequest{Model: c.model, Stream: false}
	if strings.Contains(url, "/chat/completions") {
		body.Messages = []lmxMessage{{Role: "user", Content: prompt}}
	} else {
		body.Prompt = prompt
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal lmx request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create lmx request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("LMX responded with status %d", resp.StatusCode)
	}

	var out lmxResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode lmx response: %w", err)
	}
	text := strings.TrimSpace(out.text())
	if text == "" {
		return "", ErrEmptySummary
	}
	return text, nil
}
