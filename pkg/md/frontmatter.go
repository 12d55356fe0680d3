package md

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// splitFrontMatter splits a leading YAML front matter block off the document.
// Front matter starts with a "---" line at the very top and ends at the next
// "---" or "..." line. Anything that does not parse as a YAML mapping is
// treated as document content instead.
func splitFrontMatter(text string) (map[string]any, string) {
	rest, ok := strings.CutPrefix(text, "---\n")
	if !ok {
		return nil, text
	}
	end, body := -1, ""
	for pos := 0; pos < len(rest); {
		lineEnd := strings.IndexByte(rest[pos:], '\n')
		var line string
		if lineEnd == -1 {
			line, lineEnd = rest[pos:], len(rest)-pos
		} else {
			line = rest[pos : pos+lineEnd]
		}
		if t := strings.TrimRight(line, " \t"); t == "---" || t == "..." {
			end = pos
			body = rest[min(pos+lineEnd+1, len(rest)):]
			break
		}
		pos += lineEnd + 1
	}
	if end == -1 {
		return nil, text
	}
	var meta map[string]any
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil || meta == nil {
		return nil, text
	}
	return meta, body
}
