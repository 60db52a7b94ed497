package probe

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/naufal/reva/pkg/mcp"
)

// PrintTools writes a human-readable summary of the gateway's tools: name,
// description, and a required/optional breakdown with per-parameter types.
func PrintTools(w io.Writer, tools []mcp.Tool) {
	fmt.Fprintf(w, "Available tools (%d total):\n", len(tools))

	for i, tool := range tools {
		description := tool.Description
		if description == "" {
			description = "no description available"
		}

		fmt.Fprintf(w, "\n%d. %s\n", i+1, tool.Name)
		fmt.Fprintf(w, "   description: %s\n", description)

		if len(tool.InputSchema.Required) > 0 {
			fmt.Fprintf(w, "   required:    %s\n", strings.Join(tool.InputSchema.Required, ", "))
		} else {
			fmt.Fprintf(w, "   required:    none\n")
		}

		optional := tool.InputSchema.OptionalParams()
		sort.Strings(optional)
		if len(optional) > 0 {
			fmt.Fprintf(w, "   optional:    %s\n", strings.Join(optional, ", "))
		}

		if len(tool.InputSchema.Properties) > 0 {
			fmt.Fprintln(w, "   parameters:")
			names := make([]string, 0, len(tool.InputSchema.Properties))
			for name := range tool.InputSchema.Properties {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				prop := tool.InputSchema.Properties[name]
				typeTag := prop.Type
				if typeTag == "" {
					typeTag = "unknown"
				}
				desc := prop.Description
				if desc == "" {
					desc = "no description"
				}
				fmt.Fprintf(w, "     - %s (%s): %s\n", name, typeTag, desc)
			}
		}
	}

	fmt.Fprintln(w)
}
