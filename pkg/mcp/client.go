// Package mcp is an HTTP JSON-RPC client for a hosted Model Context Protocol
// tool gateway. It covers the two methods the deployment wrapper needs:
// tools/list and tools/call.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/naufal/reva/internal/httpx"
	"github.com/rs/zerolog"
)

// Client issues JSON-RPC requests to a tool gateway using a bearer token.
type Client struct {
	gatewayURL string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Config holds gateway client configuration.
type Config struct {
	// GatewayURL is the gateway base URL. An /mcp suffix is appended when
	// not already present.
	GatewayURL string
	// Token is the OAuth bearer token for the Authorization header.
	Token      string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// NewClient creates a gateway client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("gateway url is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("bearer token is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		gatewayURL: NormalizeGatewayURL(cfg.GatewayURL),
		token:      cfg.Token,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}, nil
}

// NormalizeGatewayURL ensures the gateway URL ends with the /mcp path the
// hosted gateway serves its JSON-RPC endpoint on.
func NormalizeGatewayURL(raw string) string {
	trimmed := strings.TrimRight(raw, "/")
	if strings.HasSuffix(trimmed, "/mcp") {
		return trimmed
	}
	return trimmed + "/mcp"
}

// GatewayURL returns the normalized endpoint the client posts to.
func (c *Client) GatewayURL() string {
	return c.gatewayURL
}

// ListTools issues a tools/list call and returns the gateway's tool
// descriptors.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	resp, err := c.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}

	var result ListToolsResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode tools/list result: %w", err)
	}

	c.logger.Debug().Int("tools", len(result.Tools)).Msg("Listed gateway tools")

	return result.Tools, nil
}

// CallTool issues a tools/call call for the named tool with the given
// arguments. A gateway-level JSON-RPC error is returned as *RPCError; a
// tool-level failure is reported through the result's IsError flag.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*CallToolResult, error) {
	params := map[string]interface{}{
		"name":      name,
		"arguments": arguments,
	}

	resp, err := c.call(ctx, "tools/call", params)
	if err != nil {
		return nil, err
	}

	var result CallToolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode tools/call result: %w", err)
	}

	c.logger.Debug().
		Str("tool", name).
		Bool("is_error", result.IsError).
		Msg("Tool call completed")

	return &result, nil
}

func (c *Client) call(ctx context.Context, method string, params interface{}) (*RPCResponse, error) {
	requestID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request id: %w", err)
	}

	req := RPCRequest{
		ID:      requestID,
		Method:  method,
		Params:  params,
		JSONRPC: "2.0",
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, httpx.ErrorFromResponse(method, httpResp)
	}

	var rpcResp RPCResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return &rpcResp, nil
}
