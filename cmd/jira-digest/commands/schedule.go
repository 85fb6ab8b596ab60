package commands

import (
	"context"
	"os/signal"
	"syscall"

	"jira-digest/internal/digest"
	"jira-digest/internal/schedule"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cronSpec string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the digest on a cron schedule",
	Long:  `Runs today's digest on every tick of the cron expression (DIGEST_CRON, default weekdays at 18:00) in DIGEST_TIMEZONE until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		expr := cfg.Cron
		if cmd.Flags().Changed("cron") {
			expr = cronSpec
		}

		s, err := schedule.New(expr, cfg.Timezone, func(ctx context.Context) error {
			return runDigest(ctx, digest.Options{}, false, false)
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s.Start()
		<-ctx.Done()
		log.Info().Msg("Shutdown requested")
		s.Stop()
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&cronSpec, "cron", "", "cron expression (overrides DIGEST_CRON)")
	rootCmd.AddCommand(scheduleCmd)
}
