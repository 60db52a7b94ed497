package probe

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler re-runs a probe on a cron expression, for soak-testing a
// deployment. Runs execute sequentially on the cron goroutine.
type Scheduler struct {
	runner *Runner
	expr   string
	logger zerolog.Logger
}

// NewScheduler creates a scheduler for the given runner and standard
// five-field cron expression.
func NewScheduler(runner *Runner, expr string, logger zerolog.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner is required")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(expr); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	return &Scheduler{
		runner: runner,
		expr:   expr,
		logger: logger,
	}, nil
}

// Run blocks, probing on schedule, until ctx is done. Individual probe
// failures are logged and do not stop the schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New()

	_, err := c.AddFunc(s.expr, func() {
		report, err := s.runner.Run(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Scheduled probe failed")
			return
		}
		s.logger.Info().
			Str("tool", report.Tool).
			Int("tools", report.ToolCount).
			Bool("call_ok", report.CallOK).
			Dur("duration", report.Duration).
			Msg("Scheduled probe completed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule probe: %w", err)
	}

	c.Start()
	defer c.Stop()

	<-ctx.Done()
	return ctx.Err()
}
