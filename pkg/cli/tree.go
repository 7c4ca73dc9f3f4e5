package cli

import (
	"fmt"
	"io"

	"textbook-admin/pkg/client"
)

// printTypeTree draws nested type records, following each node's children
// list.
func printTypeTree(w io.Writer, nodes []map[string]any, prefix string) {
	for i, node := range nodes {
		branch, next := "├── ", "│   "
		if i == len(nodes)-1 {
			branch, next = "└── ", "    "
		}
		label := client.ExtractField(node, "type_name")
		if code := client.ExtractField(node, "type_code"); code != "" {
			label += " (" + code + ")"
		}
		_, _ = fmt.Fprintf(w, "%s%s%s  #%s\n", prefix, branch, label, client.ExtractField(node, "type_id"))

		var children []map[string]any
		if list, ok := node["children"].([]any); ok {
			for _, c := range list {
				if m, ok := c.(map[string]any); ok {
					children = append(children, m)
				}
			}
		}
		printTypeTree(w, children, prefix+next)
	}
}
