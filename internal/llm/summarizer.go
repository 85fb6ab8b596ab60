// Package llm turns a person's day of Jira actions into a short narrative
// using a language model, falling back to the deterministic local summary.
package llm

import (
	"context"
	"fmt"
	"time"

	"jira-digest/internal/activity"
	"jira-digest/internal/config"
	"jira-digest/internal/summary"

	"github.com/rs/zerolog"
)

// Summarizer sends a prompt to a language model and returns its answer.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// New returns the provider selected by cfg.Provider.
func New(cfg config.LLMConfig) (Summarizer, error) {
	switch cfg.Provider {
	case "", "lmx":
		return NewLMXClient(cfg.LMXBaseURL, cfg.LMXPath, cfg.LMXModel, cfg.Timeout), nil
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// SummarizeWithFallback asks s for the headline summary of g. When s is nil
// or fails, the local summary is returned instead, unless required is set,
// in which case the error is returned.
func SummarizeWithFallback(ctx context.Context, s Summarizer, g activity.ActorGroup, dateLabel string, loc *time.Location, required bool) (string, error) {
	logger := zerolog.Ctx(ctx)
	if s == nil {
		if required {
			return "", fmt.Errorf("summary for %s: %w", g.Actor.Name, ErrUnavailable)
		}
		return summary.Local(g), nil
	}

	text, err := s.Summarize(ctx, BuildPrompt(g, dateLabel, loc))
	if err == nil {
		return text, nil
	}
	if required {
		return "", fmt.Errorf("summary for %s: %w", g.Actor.Name, err)
	}
	logger.Info().Err(err).Str("actor", g.Actor.Name).Msg("LLM unavailable, using local summary fallback")
	return summary.Local(g), nil
}
