package probe

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_Validation(t *testing.T) {
	runner := NewRunner(Config{Out: &bytes.Buffer{}, Logger: zerolog.Nop()})

	_, err := NewScheduler(nil, "* * * * *", zerolog.Nop())
	assert.ErrorContains(t, err, "runner is required")

	_, err = NewScheduler(runner, "not a cron", zerolog.Nop())
	assert.ErrorContains(t, err, "invalid cron expression")

	_, err = NewScheduler(runner, "*/5 * * * *", zerolog.Nop())
	require.NoError(t, err)
}

func TestSchedulerRun_StopsOnContextCancel(t *testing.T) {
	runner := NewRunner(Config{Out: &bytes.Buffer{}, Logger: zerolog.Nop()})

	scheduler, err := NewScheduler(runner, "* * * * *", zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = scheduler.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
