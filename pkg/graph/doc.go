// Package graph defines the interface between the runtime relay and the
// externally compiled deep-research computation graph.
//
// The graph itself, its reasoning steps, and its conversation checkpointing
// are not part of this repository. The relay only opens a stream scoped to a
// session identifier and drains it; everything the graph emits is treated as
// opaque and forwarded unchanged.
package graph
