package probe

import (
	"testing"

	"github.com/naufal/reva/pkg/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeArguments_TavilySearch(t *testing.T) {
	args := SynthesizeArguments(mcp.Tool{Name: "TavilySearch"})
	assert.Equal(t, map[string]interface{}{"query": "What is the weather today?"}, args)
}

func TestSynthesizeArguments_TavilyExtract(t *testing.T) {
	args := SynthesizeArguments(mcp.Tool{Name: "tavily-extract"})
	assert.Equal(t, []interface{}{"https://example.com"}, args["urls"])
	assert.Equal(t, "test query", args["query"])
}

func TestSynthesizeArguments_CommonNames(t *testing.T) {
	tool := mcp.Tool{
		Name: "fetch-page",
		InputSchema: mcp.InputSchema{
			Properties: map[string]mcp.Property{
				"url":  {Type: "string"},
				"text": {Type: "string"},
			},
			Required: []string{"url", "text"},
		},
	}

	args := SynthesizeArguments(tool)
	assert.Equal(t, "https://example.com", args["url"])
	assert.Equal(t, "sample text", args["text"])
}

func TestSynthesizeArguments_TypedPlaceholders(t *testing.T) {
	tool := mcp.Tool{
		Name: "obscure-tool",
		InputSchema: mcp.InputSchema{
			Properties: map[string]mcp.Property{
				"topic":   {Type: "string"},
				"tags":    {Type: "array"},
				"deep":    {Type: "boolean"},
				"limit":   {Type: "integer"},
				"weight":  {Type: "number"},
				"payload": {},
			},
			Required: []string{"topic", "tags", "deep", "limit", "weight", "payload"},
		},
	}

	args := SynthesizeArguments(tool)
	assert.Equal(t, "sample_topic", args["topic"])
	assert.Equal(t, []interface{}{"sample_tags"}, args["tags"])
	assert.Equal(t, true, args["deep"])
	assert.Equal(t, 1, args["limit"])
	assert.Equal(t, 1, args["weight"])
	assert.Equal(t, "sample_payload", args["payload"])
}

func TestSynthesizeArguments_CoversEveryRequiredField(t *testing.T) {
	tool := mcp.Tool{
		Name: "anything",
		InputSchema: mcp.InputSchema{
			Required: []string{"alpha", "beta", "gamma"},
		},
	}

	args := SynthesizeArguments(tool)
	for _, name := range tool.InputSchema.Required {
		assert.Contains(t, args, name)
	}
}

func TestValidateArguments(t *testing.T) {
	tool := mcp.Tool{
		Name: "searcher",
		InputSchema: mcp.InputSchema{
			Type: "object",
			Properties: map[string]mcp.Property{
				"query": {Type: "string"},
			},
			Required: []string{"query"},
		},
	}

	require.NoError(t, ValidateArguments(tool, map[string]interface{}{"query": "hello"}))

	err := ValidateArguments(tool, map[string]interface{}{"query": 42})
	assert.ErrorContains(t, err, "do not satisfy")

	err = ValidateArguments(tool, map[string]interface{}{})
	assert.ErrorContains(t, err, "do not satisfy")
}
