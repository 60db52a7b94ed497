package runtime

// FallbackPrompt is substituted when an invocation arrives without a prompt
// key, so the graph can guide the caller instead of failing.
const FallbackPrompt = "No prompt found in input, please guide customer as to what tools can be used"

// HTTP headers carrying host-context identifiers. The session identifier is
// supplied by the invoking host, never by the request body.
const (
	SessionHeader = "X-Session-Id"
	TraceHeader   = "X-Trace-Id"
)

// InvocationRequest is the request envelope posted to /invocations.
type InvocationRequest struct {
	Prompt string `json:"prompt,omitempty"`
}

// PingResponse is the health probe body expected by the hosting runtime.
type PingResponse struct {
	Status string `json:"status"`
}
