package graph

import (
	"context"
)

// EchoGraph is a diagnostic stand-in used when no research graph is linked
// into the binary. It emits the prompt back as a single update so the relay,
// session plumbing, and stream framing can be exercised end to end.
type EchoGraph struct{}

// NewEchoGraph creates the diagnostic graph.
func NewEchoGraph() *EchoGraph {
	return &EchoGraph{}
}

// Stream implements Graph.
func (g *EchoGraph) Stream(ctx context.Context, input StreamInput) (*EventStream, error) {
	stream := NewEventStream(2)

	go func() {
		events := []Event{
			{
				"echo": map[string]interface{}{
					"message":    input.Prompt,
					"session_id": input.SessionID,
				},
			},
			{
				"echo": map[string]interface{}{
					"done": true,
				},
			},
		}
		for _, ev := range events {
			if err := stream.Send(ctx, ev); err != nil {
				stream.Close(err)
				return
			}
		}
		stream.Close(nil)
	}()

	return stream, nil
}
