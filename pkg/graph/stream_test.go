package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStream_PreservesOrder(t *testing.T) {
	stream := NewEventStream(0)

	go func() {
		for i := 0; i < 50; i++ {
			err := stream.Send(context.Background(), Event{"seq": i})
			if err != nil {
				stream.Close(err)
				return
			}
		}
		stream.Close(nil)
	}()

	events, err := Collect(context.Background(), stream)
	require.NoError(t, err)
	require.Len(t, events, 50)
	for i, ev := range events {
		assert.Equal(t, i, ev["seq"])
	}
}

func TestEventStream_TerminalError(t *testing.T) {
	stream := NewEventStream(1)
	streamErr := errors.New("graph node failed")

	go func() {
		_ = stream.Send(context.Background(), Event{"phase": "research"})
		stream.Close(streamErr)
	}()

	events, err := Collect(context.Background(), stream)
	require.Len(t, events, 1)
	assert.ErrorIs(t, err, streamErr)
}

func TestEventStream_SendRespectsContext(t *testing.T) {
	stream := NewEventStream(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := stream.Send(ctx, Event{"seq": 0})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEventStream_CloseIsIdempotent(t *testing.T) {
	stream := NewEventStream(0)
	stream.Close(nil)
	stream.Close(errors.New("late error"))

	_, ok := <-stream.Events()
	assert.False(t, ok)
	assert.NoError(t, stream.Err())
}

func TestGraphFunc_ImplementsGraph(t *testing.T) {
	var g Graph = GraphFunc(func(ctx context.Context, input StreamInput) (*EventStream, error) {
		stream := NewEventStream(1)
		_ = stream.Send(ctx, Event{"echo": input.Prompt})
		stream.Close(nil)
		return stream, nil
	})

	stream, err := g.Stream(context.Background(), StreamInput{Prompt: "hi", SessionID: "s1"})
	require.NoError(t, err)

	events, err := Collect(context.Background(), stream)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "hi", events[0]["echo"])
}
