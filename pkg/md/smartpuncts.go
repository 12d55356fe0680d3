package md

import "strings"

// Smart punctuation, applied by the renderer to text spans when the option is
// on. Code spans, math and raw HTML are never touched.
//
//   - "---" stays as is and "--" becomes an en dash, so "---" renders as an
//     en dash followed by a hyphen.
//   - "..." becomes an ellipsis.
//   - Straight quotes become curly ones. A quote opens after start of text,
//     whitespace or an opening bracket, and closes otherwise.

func (r *renderer) smartPuncts(s string) string {
	var sb strings.Builder
	prev := r.prevSmart
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case '-':
			if strings.HasPrefix(s[i:], "--") {
				sb.WriteString("–")
				i++
			} else {
				sb.WriteByte(b)
			}
		case '.':
			if strings.HasPrefix(s[i:], "...") {
				sb.WriteString("…")
				i += 2
			} else {
				sb.WriteByte(b)
			}
		case '\'':
			if quoteOpens(prev) {
				sb.WriteString("‘")
			} else {
				sb.WriteString("’")
			}
		case '"':
			if quoteOpens(prev) {
				sb.WriteString("“")
			} else {
				sb.WriteString("”")
			}
		default:
			sb.WriteByte(b)
		}
		prev = b
	}
	r.prevSmart = prev
	return sb.String()
}

func quoteOpens(prev byte) bool {
	switch prev {
	case 0, ' ', '\t', '\n', '(', '[', '{':
		return true
	}
	return false
}
