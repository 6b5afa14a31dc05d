package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"weekly-report/internal/config"
	"weekly-report/internal/logging"
	"weekly-report/internal/notify"
	"weekly-report/internal/report"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	dryRun     bool
	configPath string
	cfg        *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "weekly-report",
	Short: "Posts the weekly site performance report to a chat webhook",
	Long: `Reads the fleet-wide and per-site performance exports, summarizes the latest
week's top performer and the target site's week-over-week change, and posts the
summary to the configured webhook.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("weekly-report starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		var sender messageSender = notify.NewWebhook(cfg.Webhook)
		if dryRun {
			sender = printer{out: cmd.OutOrStdout()}
		}
		run(cmd.Context(), cfg.Report, sender)
	},
}

// messageSender delivers the finished report.
type messageSender interface {
	Send(ctx context.Context, message string) error
}

// printer writes the report to out instead of posting it.
type printer struct {
	out io.Writer
}

func (p printer) Send(_ context.Context, message string) error {
	_, err := fmt.Fprintln(p.out, message)
	return err
}

// run generates one report and hands it to sender. Delivery problems are
// logged and never fail the run.
func run(ctx context.Context, rc report.Config, sender messageSender) string {
	logger := log.With().Str("run_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Msgf("Running weekly report for %s", time.Now().Format(time.DateTime))

	message := report.NewGenerator(rc).Generate(ctx)

	err := sender.Send(ctx, message)
	logDelivery(&logger, err)
	return message
}

func logDelivery(logger *zerolog.Logger, err error) {
	var statusErr *notify.StatusError
	switch {
	case err == nil:
		logger.Info().Msg("Weekly report delivered")
	case errors.Is(err, notify.ErrNotConfigured):
		logger.Error().Msg("Webhook URL is not set (WEBHOOK_URL). Skipping notification.")
	case errors.As(err, &statusErr):
		logger.Error().
			Int("status", statusErr.StatusCode).
			Str("response", statusErr.Body).
			Msg("Error sending weekly report to webhook")
	default:
		logger.Error().Err(err).Msg("Error connecting to webhook")
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the report to stdout instead of posting it")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML report config (default $REPORT_CONFIG)")
}
