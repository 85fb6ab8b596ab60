package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"jira-digest/internal/config"
	"jira-digest/internal/digest"
	"jira-digest/internal/history"
	"jira-digest/internal/jira"
	"jira-digest/internal/llm"
	"jira-digest/internal/logging"
	"jira-digest/internal/notify"
	"jira-digest/internal/report"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// RosterFile lists, one name per line, the people reported even when idle.
const RosterFile = "users"

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	jiraClient jira.Client
	runner     *digest.Runner

	runFlags struct {
		date        string
		project     string
		json        bool
		skipLLM     bool
		requireLLM  bool
		concurrency int
		send        bool
		open        bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "jira-digest",
	Short: "jira-digest summarises a day of Jira activity per person",
	Long: `Collects every Jira action of one day in a project (issues created, status changes,
comments and worklogs), groups them by the person who acted, summarises each person
and reports who had no activity at all.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Concurrency = runFlags.concurrency
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		jiraClient = jira.NewClient(cfg.Jira)

		runner, err = newRunner()
		if err != nil {
			return err
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("jira-digest starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := digest.Options{Date: runFlags.date, Project: runFlags.project, SkipLLM: runFlags.skipLLM}
		if cmd.Flags().Changed("require-llm") {
			opts.RequireLLM = &runFlags.requireLLM
		}
		if runFlags.send {
			cfg.Chat.Enabled = true
		}
		return runDigest(cmd.Context(), opts, runFlags.json, runFlags.open)
	},
}

func newRunner() (*digest.Runner, error) {
	summarizer, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, err
	}
	roster, err := digest.LoadRoster(filepath.Join(cfg.DataPath, RosterFile))
	if err != nil {
		return nil, err
	}
	return &digest.Runner{
		Tracker:    jiraClient,
		Summarizer: summarizer,
		History:    history.NewStore(cfg.OutputDir),
		Settings: digest.Settings{
			BaseURL:        cfg.Jira.BaseURL,
			DefaultProject: cfg.ProjectKey,
			Timezone:       cfg.Timezone,
			Concurrency:    cfg.Concurrency,
			Include:        cfg.UserInclude,
			Exclude:        cfg.UserExclude,
			Roster:         roster,
			RequireLLM:     cfg.LLM.Required,
		},
	}, nil
}

// runDigest produces one digest, prints it and writes the output files.
func runDigest(ctx context.Context, opts digest.Options, asJSON, open bool) error {
	r, err := runner.Run(ctx, opts)
	if err != nil {
		return err
	}
	log.Info().Str("digest", r.String()).Msg("Digest complete")

	if asJSON {
		err = report.RenderJSON(os.Stdout, r)
	} else {
		err = report.RenderText(os.Stdout, r)
	}
	if err != nil {
		return err
	}

	htmlPath, err := report.WriteHTML(cfg.OutputDir, r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to write html report")
	} else {
		log.Info().Str("path", htmlPath).Msg("HTML report written")
		if open {
			if err := report.Open(htmlPath); err != nil {
				log.Warn().Err(err).Msg("Failed to open html report")
			}
		}
	}

	if path, err := report.WriteActorList(cfg.OutputDir, r); err != nil {
		log.Error().Err(err).Msg("Failed to write actor list")
	} else if path != "" {
		log.Info().Str("path", path).Msg("Actor list written")
	}

	return notify.NewSender(cfg.Chat).Send(ctx, r)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().IntVar(&runFlags.concurrency, "concurrency", config.DefaultConcurrency, "maximum parallel Jira requests (overrides MAX_CONCURRENCY)")

	f := rootCmd.Flags()
	f.StringVarP(&runFlags.date, "date", "d", "", "day to report as yyyy-mm-dd (default today in DIGEST_TIMEZONE)")
	f.StringVarP(&runFlags.project, "project", "p", "", "Jira project key (default JIRA_PROJECT_KEY)")
	f.BoolVar(&runFlags.json, "json", false, "print the digest as JSON")
	f.BoolVar(&runFlags.skipLLM, "skip-llm", false, "use the local summary only")
	f.BoolVar(&runFlags.requireLLM, "require-llm", false, "fail when the language model cannot summarise (overrides LLM_REQUIRED)")
	f.BoolVar(&runFlags.send, "send", false, "post the overview to the chat webhook")
	f.BoolVar(&runFlags.open, "open", false, "open the html report in the browser")
}
