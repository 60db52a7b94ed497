package graph

import (
	"context"
)

// Event is a single update produced by the computation graph. Events are
// opaque to this repository: the relay forwards them exactly as produced,
// without inspection or transformation.
type Event map[string]interface{}

// StreamInput carries one invocation into the graph.
type StreamInput struct {
	// Prompt is the user message for this turn.
	Prompt string

	// SessionID scopes the stream to a conversation thread. The external
	// runtime uses it to resume checkpointed state; this repository never
	// interprets it.
	SessionID string
}

// Graph is the externally supplied computation graph.
type Graph interface {
	// Stream opens an asynchronous event stream for one invocation. The
	// returned stream is single-consumer; it ends when the graph completes
	// the turn or fails.
	Stream(ctx context.Context, input StreamInput) (*EventStream, error)
}

// GraphFunc adapts a function to the Graph interface.
type GraphFunc func(ctx context.Context, input StreamInput) (*EventStream, error)

// Stream implements Graph.
func (f GraphFunc) Stream(ctx context.Context, input StreamInput) (*EventStream, error) {
	return f(ctx, input)
}
