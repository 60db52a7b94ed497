package runtime

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/naufal/reva/internal/httpx"
)

// Client invokes a running entrypoint and consumes its event stream. It backs
// the interactive `reva invoke` command.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an invoke client for the entrypoint at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		// No overall timeout: research streams legitimately run for minutes.
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Invoke posts one prompt under the given session and calls onEvent for each
// streamed event payload, in arrival order. A terminal stream error is
// returned after all preceding events have been delivered. Plain JSON
// responses are delivered as a single event.
func (c *Client) Invoke(ctx context.Context, sessionID, prompt string, onEvent func(data string)) error {
	body, err := json.Marshal(InvocationRequest{Prompt: prompt})
	if err != nil {
		return fmt.Errorf("failed to marshal invocation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invocations", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build invocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invocation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpx.ErrorFromResponse("invocation", resp)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		return consumeEventStream(resp.Body, onEvent)
	}

	// Non-streaming deployments answer with a single JSON body.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	onEvent(string(data))
	return nil
}

// Ping checks the entrypoint health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to build ping request: %w", err)
	}

	pingClient := c.httpClient
	if pingClient.Timeout == 0 {
		pingClient = &http.Client{Timeout: 10 * time.Second, Transport: c.httpClient.Transport}
	}

	resp, err := pingClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpx.ErrorFromResponse("ping", resp)
	}
	return nil
}

// consumeEventStream parses a server-sent event body, invoking onEvent per
// data payload and converting a terminal error event into an error return.
func consumeEventStream(body io.Reader, onEvent func(data string)) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventName string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			eventName = ""
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if eventName == "error" {
				return fmt.Errorf("stream failed: %s", data)
			}
			onEvent(data)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return nil
}
