package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/naufal/reva/internal/config"
	"github.com/naufal/reva/internal/history"
	"github.com/naufal/reva/internal/logger"
	"github.com/naufal/reva/pkg/probe"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Manually exercise the tool gateway",
	Long: `Probe the tool gateway end to end: fetch an OAuth token, list the
gateway's tools, synthesize arguments for the first tool, and call it.

Configuration comes from COGNITO_CLIENT_ID, COGNITO_CLIENT_SECRET,
COGNITO_USER_POOL_DOMAIN and TAVILY_MCP_URL, with config-file values as
fallbacks for any that are unset.`,
	RunE: runProbe,
}

var probeHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent probe runs",
	RunE:  runProbeHistory,
}

var (
	probeSchedule  string
	probeNoHistory bool
	historyLimit   int
)

func init() {
	probeCmd.Flags().StringVar(&probeSchedule, "schedule", "", "cron expression for repeated probing")
	probeCmd.Flags().BoolVar(&probeNoHistory, "no-history", false, "do not record this run")
	probeHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to show")

	probeCmd.AddCommand(probeHistoryCmd)
	rootCmd.AddCommand(probeCmd)
}

// probeEnv merges the fixed environment contract with config-file fallbacks.
func probeEnv(cfg *config.Config) probe.Env {
	env := probe.EnvFromOS()
	if env.ClientID == "" {
		env.ClientID = cfg.Gateway.ClientID
	}
	if env.ClientSecret == "" {
		env.ClientSecret = cfg.Gateway.ClientSecret
	}
	if env.UserPoolDomain == "" {
		env.UserPoolDomain = cfg.Gateway.UserPoolDomain
	}
	if env.GatewayURL == "" {
		env.GatewayURL = cfg.Gateway.URL
	}
	return env
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		Console:   true,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return err
	}
	defer log.Close()

	var store *history.Store
	if cfg.Probe.HistoryEnabled && !probeNoHistory {
		store, err = history.Open(cfg.Probe.HistoryPath)
		if err != nil {
			zl := log.GetZerolog()
			zl.Warn().Err(err).Msg("Probe history unavailable")
		} else {
			defer store.Close()
		}
	}

	runner := probe.NewRunner(probe.Config{
		Env:     probeEnv(cfg),
		Out:     os.Stdout,
		History: store,
		Logger:  log.GetZerolog(),
	})

	schedule := probeSchedule
	if schedule == "" {
		schedule = cfg.Probe.Schedule
	}

	if schedule == "" {
		_, err = runner.Run(cmd.Context())
		return err
	}

	scheduler, err := probe.NewScheduler(runner, schedule, log.GetZerolog())
	if err != nil {
		return err
	}

	fmt.Printf("Probing on schedule %q, CTRL+C to stop\n", schedule)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := scheduler.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func runProbeHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.Probe.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No probe runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		status := "ok"
		if !run.OK {
			status = "FAILED"
		}
		fmt.Printf("%s  %-6s  %-30s  %4dms", run.StartedAt.Format("2006-01-02 15:04:05"), status, run.Tool, run.DurationMs)
		if run.Error != "" {
			fmt.Printf("  %s", run.Error)
		}
		fmt.Println()
	}
	return nil
}
