// Package probe exercises a deployed tool gateway end to end: fetch an OAuth
// token, list the gateway's tools, synthesize arguments for one of them, and
// call it. It is a manual smoke test for a deployment, not part of the
// serving path.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/naufal/reva/internal/history"
	"github.com/naufal/reva/internal/metrics"
	"github.com/naufal/reva/pkg/auth"
	"github.com/naufal/reva/pkg/mcp"
	"github.com/rs/zerolog"
)

// Runner performs one sequential probe of a gateway.
type Runner struct {
	env        Env
	out        io.Writer
	httpClient *http.Client
	history    *history.Store
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// Config holds probe runner configuration.
type Config struct {
	Env Env
	// Out receives the human-readable stage-by-stage report. Defaults to
	// stdout.
	Out        io.Writer
	HTTPClient *http.Client
	// History, when set, records each completed run. Recording failures are
	// logged and never change the probe outcome.
	History *history.Store
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// Report summarizes a completed probe run.
type Report struct {
	GatewayURL string
	ToolCount  int
	Tool       string
	CallOK     bool
	Duration   time.Duration
}

// OK reports whether the run counts as successful. A gateway with no tools to
// call answered correctly, so a run that called nothing is still a success.
func (r *Report) OK(runErr error) bool {
	if runErr != nil {
		return false
	}
	return r.Tool == "" || r.CallOK
}

// NewRunner creates a probe runner.
func NewRunner(cfg Config) *Runner {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewMetrics()
	}
	return &Runner{
		env:        cfg.Env,
		out:        cfg.Out,
		httpClient: cfg.HTTPClient,
		history:    cfg.History,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Run executes the probe sequence: validate environment, fetch token, list
// tools, synthesize arguments for the first tool, call it. Each stage prints
// its result; the first failure aborts the sequence. A missing environment is
// reported per variable before any network call.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if missing := r.env.Missing(); len(missing) > 0 {
		ReportMissing(r.out, r.env)
		return nil, fmt.Errorf("missing environment variables: %v", missing)
	}

	started := time.Now()
	report := &Report{GatewayURL: mcp.NormalizeGatewayURL(r.env.GatewayURL)}

	err := r.run(ctx, report)
	report.Duration = time.Since(started)
	r.record(ctx, report, err)

	r.metrics.ProbeDuration.Observe(report.Duration.Seconds())
	if report.OK(err) {
		r.metrics.ProbeRunsTotal.WithLabelValues("ok").Inc()
	} else {
		r.metrics.ProbeRunsTotal.WithLabelValues("error").Inc()
	}

	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Runner) run(ctx context.Context, report *Report) error {
	fmt.Fprintf(r.out, "Token URL:   %s\n", auth.TokenURL(r.env.UserPoolDomain))
	fmt.Fprintf(r.out, "Gateway URL: %s\n\n", report.GatewayURL)

	fmt.Fprintln(r.out, "Step 1: fetching access token...")
	tokenClient, err := auth.NewCognitoClient(auth.Config{
		UserPoolDomain: r.env.UserPoolDomain,
		ClientID:       r.env.ClientID,
		ClientSecret:   r.env.ClientSecret,
		HTTPClient:     r.httpClient,
		Logger:         r.logger,
	})
	if err != nil {
		return err
	}

	token, err := tokenClient.FetchToken(ctx)
	if err != nil {
		return fmt.Errorf("token fetch failed: %w", err)
	}
	fmt.Fprintf(r.out, "  token fetched (first 8 chars: %s...)\n\n", tokenPrefix(token))

	fmt.Fprintln(r.out, "Step 2: listing tools...")
	gateway, err := mcp.NewClient(mcp.Config{
		GatewayURL: r.env.GatewayURL,
		Token:      token,
		HTTPClient: r.httpClient,
		Logger:     r.logger,
	})
	if err != nil {
		return err
	}

	tools, err := gateway.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("tools list failed: %w", err)
	}
	report.ToolCount = len(tools)
	PrintTools(r.out, tools)

	if len(tools) == 0 {
		fmt.Fprintln(r.out, "No tools available; nothing to call.")
		return nil
	}

	tool := tools[0]
	report.Tool = tool.Name

	fmt.Fprintf(r.out, "Step 3: calling tool %q...\n", tool.Name)
	args := SynthesizeArguments(tool)
	fmt.Fprintf(r.out, "  arguments: %v\n", args)

	if err := ValidateArguments(tool, args); err != nil {
		// Synthesis is heuristic; keep going and let the gateway decide.
		fmt.Fprintf(r.out, "  warning: %v\n", err)
		r.logger.Warn().Err(err).Str("tool", tool.Name).Msg("Synthesized arguments failed schema validation")
	}

	result, err := gateway.CallTool(ctx, tool.Name, args)
	if err != nil {
		return fmt.Errorf("tool call failed: %w", err)
	}

	if result.IsError {
		fmt.Fprintln(r.out, "  tool executed but returned an error")
	} else {
		report.CallOK = true
		fmt.Fprintln(r.out, "  tool executed successfully")
	}
	for _, block := range result.Content {
		if block.Text != "" {
			fmt.Fprintf(r.out, "  %s\n", block.Text)
		}
	}

	return nil
}

func (r *Runner) record(ctx context.Context, report *Report, runErr error) {
	if r.history == nil {
		return
	}

	run := history.Run{
		GatewayURL: report.GatewayURL,
		Tool:       report.Tool,
		OK:         report.OK(runErr),
		DurationMs: report.Duration.Milliseconds(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	if err := r.history.Record(ctx, run); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to record probe run")
	}
}

// tokenPrefix returns the first 8 characters of a token for display. Tokens
// too short to truncate are masked entirely rather than shown in full.
func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:8]
}
