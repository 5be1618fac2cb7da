package registry

import (
	"fmt"
	"strings"
)

// Markdown documents every registration, for the console's help command.
func (r *Registry) Markdown() string {
	var b strings.Builder
	b.WriteString("# Commands\n\n")

	if len(r.items) == 0 {
		b.WriteString("_No commands are registered._\n")
		return b.String()
	}

	for _, item := range r.items {
		switch item.Type {
		case TypeFunction:
			writeFunction(&b, r.functions[item.Name], "")
		case TypeNamespace:
			ns := r.namespaces[item.Name]
			fmt.Fprintf(&b, "## %s\n\n", ns.Name)
			if ns.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", ns.Description)
			}
			for _, fn := range ns.Functions {
				writeFunction(&b, fn, ns.Name+".")
			}
		case TypeEnum:
			e := r.enums[item.Name]
			fmt.Fprintf(&b, "## %s\n\n", e.Name)
			if e.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", e.Description)
			}
			for _, m := range e.Members {
				fmt.Fprintf(&b, "- `%s.%s`\n", e.Name, m)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeFunction(b *strings.Builder, fn Function, prefix string) {
	fmt.Fprintf(b, "- `%s%s`", prefix, fn.Signature())
	if fn.Description != "" {
		fmt.Fprintf(b, " %s", fn.Description)
	}
	b.WriteString("\n")
}
