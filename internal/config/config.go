package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jira-digest/internal/jira"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimezone    = "Asia/Ho_Chi_Minh"
	DefaultConcurrency = 5
	DefaultCron        = "0 18 * * 1-5"
	DefaultLMXBaseURL  = "http://localhost:8002"
	DefaultLMXPath     = "/v1/chat/completions"
	DefaultChatHeader  = "Daily Jira report {date}"
)

// LLMConfig selects and configures the summary provider.
type LLMConfig struct {
	Provider   string // "lmx" or "openai"
	Required   bool
	Timeout    time.Duration
	LMXBaseURL string
	LMXPath    string
	LMXModel   string
	APIKey     string
	Model      string
	BaseURL    string
}

// ChatConfig configures delivery of the digest to a chat webhook.
type ChatConfig struct {
	Enabled        bool
	WebhookURL     string
	HeaderTemplate string
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira        jira.Config
	ProjectKey  string
	Timezone    string
	Concurrency int
	DataPath    string
	OutputDir   string
	UserInclude []string
	UserExclude []string
	Cron        string
	LLM         LLMConfig
	Chat        ChatConfig
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	outputDir := filepath.Join(dataPath, "output")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", outputDir).Msg("Failed to create output directory")
	}

	cfg := &AppConfig{
		Jira: jira.Config{
			BaseURL:  strings.TrimRight(getEnv("JIRA_URL", ""), "/"),
			Token:    getEnv("JIRA_TOKEN", ""),
			Email:    getEnv("JIRA_EMAIL", ""),
			APIToken: getEnv("JIRA_API_TOKEN", ""),
			Timeout:  time.Duration(getEnvInt("JIRA_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		ProjectKey:  getEnv("JIRA_PROJECT_KEY", ""),
		Timezone:    getEnv("DIGEST_TIMEZONE", DefaultTimezone),
		Concurrency: getEnvInt("MAX_CONCURRENCY", DefaultConcurrency),
		DataPath:    dataPath,
		OutputDir:   outputDir,
		UserInclude: getEnvList("USER_INCLUDE"),
		UserExclude: getEnvList("USER_EXCLUDE"),
		Cron:        getEnv("DIGEST_CRON", DefaultCron),
		LLM: LLMConfig{
			Provider:   strings.ToLower(getEnv("LLM_PROVIDER", "lmx")),
			Required:   getEnvBool("LLM_REQUIRED", false),
			Timeout:    time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
			LMXBaseURL: getEnv("LMX_BASE_URL", DefaultLMXBaseURL),
			LMXPath:    getEnv("LMX_PATH", DefaultLMXPath),
			LMXModel:   getEnv("LMX_MODEL", ""),
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			Model:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:    getEnv("OPENAI_BASE_URL", ""),
		},
		Chat: ChatConfig{
			Enabled:        getEnvBool("CHAT_ENABLED", false),
			WebhookURL:     getEnv("CHAT_WEBHOOK_URL", ""),
			HeaderTemplate: getEnv("CHAT_HEADER_TEMPLATE", DefaultChatHeader),
		},
	}

	return cfg, nil
}

// Validate reports every setting that would make a run fail.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Jira.BaseURL == "" {
		errs = append(errs, errors.New("JIRA_URL is required"))
	}
	if c.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("MAX_CONCURRENCY must be positive, got %d", c.Concurrency))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("DIGEST_TIMEZONE %q: %w", c.Timezone, err))
	}
	switch c.LLM.Provider {
	case "lmx", "openai":
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be lmx or openai, got %q", c.LLM.Provider))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
