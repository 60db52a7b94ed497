package mcp

import (
	"encoding/json"
)

// RPCRequest represents a JSON-RPC 2.0 request
type RPCRequest struct {
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	JSONRPC string      `json:"jsonrpc"`
}

// RPCResponse represents a JSON-RPC 2.0 response
type RPCResponse struct {
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
}

// RPCError represents a JSON-RPC 2.0 error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface
func (e *RPCError) Error() string {
	return e.Message
}

// Tool describes a callable tool exposed by the gateway.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema is the JSON-schema-like parameter specification of a tool.
type InputSchema struct {
	Type       string              `json:"type,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single tool parameter.
type Property struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// OptionalParams returns the property names that are not listed as required,
// in no particular order.
func (s InputSchema) OptionalParams() []string {
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	optional := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		if !required[name] {
			optional = append(optional, name)
		}
	}
	return optional
}

// ListToolsResult is the result payload of a tools/list call.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolResult is the result payload of a tools/call call.
type CallToolResult struct {
	IsError bool           `json:"isError,omitempty"`
	Content []ContentBlock `json:"content,omitempty"`
}

// ContentBlock is one unit of tool output.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
