package probe

import (
	"fmt"
	"strings"

	"github.com/naufal/reva/pkg/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// commonArguments maps well-known parameter names to plausible sample values.
var commonArguments = map[string]interface{}{
	"query":        "What is the weather today?",
	"q":            "What is the weather today?",
	"search_query": "What is the weather today?",
	"urls":         []interface{}{"https://example.com"},
	"url":          "https://example.com",
	"text":         "sample text",
	"content":      "sample content",
}

// SynthesizeArguments produces a best-effort argument map covering every
// required field of a tool's declared schema. Recognized tool families get
// hand-picked arguments; everything else falls back to the common-name table
// and then to placeholders typed from the schema's type tag. The result is a
// guess for exercising a gateway by hand, not a contract.
func SynthesizeArguments(tool mcp.Tool) map[string]interface{} {
	name := strings.ToLower(tool.Name)

	if strings.Contains(name, "tavily") {
		if strings.Contains(name, "extract") {
			return map[string]interface{}{
				"urls":  []interface{}{"https://example.com"},
				"query": "test query",
			}
		}
		if strings.Contains(name, "search") {
			return map[string]interface{}{
				"query": "What is the weather today?",
			}
		}
	}

	args := make(map[string]interface{}, len(tool.InputSchema.Required))
	for _, param := range tool.InputSchema.Required {
		if value, ok := commonArguments[param]; ok {
			args[param] = value
			continue
		}
		args[param] = placeholderFor(param, tool.InputSchema.Properties[param].Type)
	}

	return args
}

func placeholderFor(param, typeTag string) interface{} {
	switch typeTag {
	case "string":
		return "sample_" + param
	case "array":
		return []interface{}{"sample_" + param}
	case "boolean":
		return true
	case "number", "integer":
		return 1
	default:
		return "sample_" + param
	}
}

// ValidateArguments checks synthesized arguments against the tool's declared
// inputSchema. Synthesis is heuristic, so callers treat a validation failure
// as a warning rather than an abort.
func ValidateArguments(tool mcp.Tool, args map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(tool.InputSchema)
	argsLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, argsLoader)
	if err != nil {
		return fmt.Errorf("failed to validate arguments: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			details = append(details, resultErr.String())
		}
		return fmt.Errorf("arguments do not satisfy tool schema: %v", details)
	}

	return nil
}
