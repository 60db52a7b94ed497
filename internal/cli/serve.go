package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/naufal/reva/internal/config"
	"github.com/naufal/reva/internal/logger"
	"github.com/naufal/reva/pkg/graph"
	"github.com/naufal/reva/pkg/runtime"
	"github.com/spf13/cobra"
)

// registeredGraph is the externally compiled research graph. Deployments link
// their graph implementation and call SetGraph before Execute; without one,
// serve runs the diagnostic echo graph so the relay path can still be
// exercised end to end.
var registeredGraph graph.Graph

// SetGraph installs the computation graph the entrypoint relays for.
func SetGraph(g graph.Graph) {
	registeredGraph = g
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agent entrypoint",
	Long: `Serve the HTTP entrypoint that forwards prompts into the research graph
and streams its events back to the caller as server-sent events.`,
	RunE: runServe,
}

var serveHost string
var servePort int

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if serveHost != "" {
		cfg.Runtime.Host = serveHost
	}
	if servePort != 0 {
		cfg.Runtime.Port = servePort
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   true,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return err
	}
	defer log.Close()

	g := registeredGraph
	if g == nil {
		zl := log.GetZerolog()
		zl.Warn().Msg("No research graph linked, serving diagnostic echo graph")
		g = graph.NewEchoGraph()
	}

	srv, err := runtime.NewServer(runtime.Config{
		Host:   cfg.Runtime.Host,
		Port:   cfg.Runtime.Port,
		Graph:  g,
		Logger: log.GetZerolog(),
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	// Live log-level changes without a restart.
	watcher, err := config.NewWatcher(loader, func(updated *config.Config) {
		if err := log.SetLevel(updated.Logging.Level); err != nil {
			zl := log.GetZerolog()
			zl.Warn().Err(err).Msg("Ignoring invalid log level from reloaded config")
		}
	}, log.GetZerolog())
	if err == nil {
		if startErr := watcher.Start(); startErr != nil {
			zl := log.GetZerolog()
			zl.Warn().Err(startErr).Msg("Config watch unavailable")
		} else {
			defer watcher.Stop()
		}
	}

	fmt.Printf("Entrypoint listening on %s:%d\n", cfg.Runtime.Host, cfg.Runtime.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return srv.Stop()
}
