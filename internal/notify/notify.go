// Package notify posts the digest overview to a chat webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jira-digest/internal/config"
	"jira-digest/internal/digest"

	"github.com/rs/zerolog/log"
)

// Sender delivers digests to an incoming-webhook endpoint that accepts
// {"text": "..."} payloads.
type Sender struct {
	cfg  config.ChatConfig
	http *http.Client
}

// NewSender creates a sender for cfg.
func NewSender(cfg config.ChatConfig) *Sender {
	return &Sender{cfg: cfg, http: &http.Client{Timeout: 15 * time.Second}}
}

// Send posts the overview of r. A disabled or unconfigured sender logs and
// returns nil; delivery failures are returned.
func (s *Sender) Send(ctx context.Context, r *digest.Report) error {
	if !s.cfg.Enabled {
		log.Debug().Msg("Chat delivery disabled")
		return nil
	}
	if strings.TrimSpace(s.cfg.WebhookURL) == "" {
		log.Warn().Msg("Chat delivery enabled but CHAT_WEBHOOK_URL is missing")
		return nil
	}

	body, err := json.Marshal(map[string]string{"text": Message(s.cfg.HeaderTemplate, r)})
	if err != nil {
		return fmt.Errorf("failed to encode chat message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chat webhook status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	log.Info().Str("project", r.Project).Str("date", r.Date).Msg("Chat message sent")
	return nil
}

// Message builds the chat text: the header with {date} replaced by
// DD/MM/YYYY, then the people without actions and the people with actions
// and their totals.
func Message(headerTemplate string, r *digest.Report) string {
	if headerTemplate == "" {
		headerTemplate = config.DefaultChatHeader
	}
	header := strings.ReplaceAll(headerTemplate, "{date}", displayDate(r.Date))

	var idle, active []string
	for _, u := range r.Idle {
		idle = append(idle, "- "+u.Actor.Name)
	}
	for _, u := range r.Users {
		if len(u.Actions) == 0 {
			idle = append(idle, "- "+u.Actor.Name)
			continue
		}
		active = append(active, fmt.Sprintf("- %s: created %d; status %d; comments %d; worklogs %d",
			u.Actor.Name, u.Stats.Created, u.Stats.StatusChangeIssueCount, u.Stats.Comments, u.Stats.Worklogs))
	}

	var sections []string
	if len(idle) > 0 {
		sections = append(sections, "No actions:\n"+strings.Join(idle, "\n"))
	}
	if len(active) > 0 {
		sections = append(sections, "Has actions:\n"+strings.Join(active, "\n"))
	}
	if len(sections) == 0 {
		return header
	}
	return header + "\n\n" + strings.Join(sections, "\n\n")
}

// displayDate turns yyyy-mm-dd into dd/mm/yyyy, leaving other input as is.
func displayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
