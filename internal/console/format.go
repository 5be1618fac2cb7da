package console

import (
	"strconv"
	"strings"

	"github.com/zirconconsole/zircon/internal/registry"
)

// Format fills a message template. Holes are {Name} or {0}; "{{" and "}}"
// are literal braces. Named holes take variables in order of appearance,
// numbered holes take the variable at that index. A hole with no variable is
// left as written.
func Format(template string, vars []any) string {
	var (
		b    strings.Builder
		next int
	)
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			hole := template[i+1 : i+1+end]
			idx := -1
			if n, err := strconv.Atoi(hole); err == nil && n >= 0 {
				idx = n
			} else if isHoleName(hole) {
				idx = next
				next++
			}
			if idx >= 0 && idx < len(vars) {
				b.WriteString(registry.FormatValue(vars[idx]))
			} else {
				b.WriteString(template[i : i+2+end])
			}
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EscapeTemplate doubles braces so text is shown verbatim by Format.
func EscapeTemplate(text string) string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(text)
}

func isHoleName(s string) bool {
	s = strings.TrimPrefix(s, "@")
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || (i > 0 && '0' <= r && r <= '9') {
			continue
		}
		return false
	}
	return true
}
