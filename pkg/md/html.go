package md

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// There are different ways to escape HTML and URLs; the schemes below match
// what mainstream Markdown engines emit. Text is escaped exactly once, at
// render time.
var (
	escapeHTML = strings.NewReplacer(
		"&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;",
		// No need to escape single quotes, since attributes in the output
		// always use double quotes.
	).Replace
	escapeURL = strings.NewReplacer(
		`"`, "%22", `\`, "%5C", " ", "%20", "`", "%60",
		"[", "%5B", "]", "%5D", "<", "%3C", ">", "%3E").Replace
)

func renderHTML(doc *Document, opts *Options) string {
	r := &renderer{opts: opts, headingIDs: map[string]int{}, fnRefSeen: map[int]bool{}}
	r.blocks(doc.Blocks)
	if len(doc.Footnotes) > 0 {
		r.footnoteSection(doc.Footnotes)
	}
	return r.sb.String()
}

type renderer struct {
	sb   strings.Builder
	opts *Options

	headingIDs map[string]int
	fnRefSeen  map[int]bool

	// Previous text byte, for deciding smart quote direction.
	prevSmart byte
}

func (r *renderer) blocks(bs []*Block) {
	for _, b := range bs {
		r.block(b)
	}
}

func (r *renderer) block(b *Block) {
	switch b.Type {
	case Paragraph:
		r.sb.WriteString("<p>")
		r.inlineContent(b.Content)
		r.sb.WriteString("</p>\n")
	case Heading:
		var attrs attrBuilder
		attrs.set("id", r.headingID(b.Content))
		fmt.Fprintf(&r.sb, "<h%d%s>", b.Level, &attrs)
		r.inlineContent(b.Content)
		fmt.Fprintf(&r.sb, "</h%d>\n", b.Level)
	case CodeFence:
		code := joinLines(b.Lines)
		if r.opts.HighlightCodeBlock != nil {
			r.sb.WriteString(r.opts.HighlightCodeBlock(b.Info, code))
			return
		}
		var attrs attrBuilder
		if b.Info != "" {
			language, _, _ := strings.Cut(b.Info, " ")
			attrs.set("class", "language-"+language)
		}
		fmt.Fprintf(&r.sb, "<pre><code%s>", &attrs)
		r.sb.WriteString(escapeHTML(code))
		r.sb.WriteString("</code></pre>\n")
	case Blockquote:
		r.sb.WriteString("<blockquote>\n")
		r.blocks(b.Children)
		r.sb.WriteString("</blockquote>\n")
	case List:
		r.list(b)
	case ThematicBreak:
		r.sb.WriteString("<hr />\n")
	case Table:
		r.table(b.Table)
	case MathBlock:
		payload := strings.Join(b.Lines, "\n")
		if r.opts.RenderMath != nil {
			r.sb.WriteString(r.opts.RenderMath(payload, true))
			r.sb.WriteByte('\n')
			return
		}
		r.sb.WriteString(`<div class="math">$$`)
		r.sb.WriteString(escapeHTML(payload))
		r.sb.WriteString("$$</div>\n")
	case HTMLBlock:
		for _, line := range b.Lines {
			r.sb.WriteString(line)
			r.sb.WriteByte('\n')
		}
	case FootnoteDefinition:
		// The resolver extracts definitions before rendering; one reaching
		// here was placed deliberately, so render its body in place.
		r.blocks(b.Children)
	}
}

func (r *renderer) list(b *Block) {
	if b.Ordered {
		var attrs attrBuilder
		if b.Start != 1 {
			attrs.set("start", strconv.Itoa(b.Start))
		}
		fmt.Fprintf(&r.sb, "<ol%s>\n", &attrs)
	} else {
		r.sb.WriteString("<ul>\n")
	}
	for _, item := range b.Items {
		r.listItem(item, b.Loose)
	}
	if b.Ordered {
		r.sb.WriteString("</ol>\n")
	} else {
		r.sb.WriteString("</ul>\n")
	}
}

func (r *renderer) listItem(item *ListItem, loose bool) {
	if item.Task != TaskNone {
		r.sb.WriteString(`<li class="task-list-item">`)
		if item.Task == TaskChecked {
			r.sb.WriteString(`<input type="checkbox" disabled checked /> `)
		} else {
			r.sb.WriteString(`<input type="checkbox" disabled /> `)
		}
	} else {
		r.sb.WriteString("<li>")
	}
	if loose {
		r.sb.WriteByte('\n')
		r.blocks(item.Children)
	} else {
		// Tight rendering drops paragraph tags; any other block keeps its
		// own lines.
		for _, b := range item.Children {
			if b.Type == Paragraph {
				r.inlineContent(b.Content)
			} else {
				r.sb.WriteByte('\n')
				r.block(b)
			}
		}
	}
	r.sb.WriteString("</li>\n")
}

func (r *renderer) table(t *TableData) {
	r.sb.WriteString("<table>\n<thead>\n<tr>\n")
	for i := range t.Header {
		fmt.Fprintf(&r.sb, "<th%s>", r.alignAttr(t.Align[i]))
		r.inlineContent(t.Header[i].Content)
		r.sb.WriteString("</th>\n")
	}
	r.sb.WriteString("</tr>\n</thead>\n")
	if len(t.Rows) == 0 {
		r.sb.WriteString("</table>\n")
		return
	}
	r.sb.WriteString("<tbody>\n")
	for _, row := range t.Rows {
		r.sb.WriteString("<tr>\n")
		// Ragged rows are padded or truncated to the header's column count.
		for i := range t.Header {
			fmt.Fprintf(&r.sb, "<td%s>", r.alignAttr(t.Align[i]))
			if i < len(row) {
				r.inlineContent(row[i].Content)
			}
			r.sb.WriteString("</td>\n")
		}
		r.sb.WriteString("</tr>\n")
	}
	r.sb.WriteString("</tbody>\n</table>\n")
}

func (r *renderer) alignAttr(a Alignment) string {
	if a == AlignNone {
		return ""
	}
	if r.opts.TableAlignment == AlignmentClass {
		return fmt.Sprintf(` class="align-%s"`, a)
	}
	return fmt.Sprintf(` style="text-align: %s"`, a)
}

func (r *renderer) footnoteSection(footnotes []*Footnote) {
	r.sb.WriteString("<section class=\"footnotes\">\n<h2>")
	title := r.opts.FootnoteSectionTitle
	if title == "" {
		title = "Footnotes"
	}
	r.sb.WriteString(escapeHTML(title))
	r.sb.WriteString("</h2>\n<ol>\n")
	for _, fn := range footnotes {
		id := "fn:" + fn.Label
		if fn.Ordinal > 0 {
			id = "fn:" + strconv.Itoa(fn.Ordinal)
		}
		var attrs attrBuilder
		attrs.set("id", id)
		fmt.Fprintf(&r.sb, "<li%s>\n", &attrs)
		body := r.renderToString(fn.Blocks)
		if fn.Ordinal > 0 {
			// The backref goes inside the final paragraph when there is one.
			backref := fmt.Sprintf(
				`<a class="footnote-backref" href="#fnref:%d">&#8617;</a>`, fn.Ordinal)
			if strings.HasSuffix(body, "</p>\n") {
				body = body[:len(body)-len("</p>\n")] + "&#160;" + backref + "</p>\n"
			} else {
				body += "<p>" + backref + "</p>\n"
			}
		}
		r.sb.WriteString(body)
		r.sb.WriteString("</li>\n")
	}
	r.sb.WriteString("</ol>\n</section>\n")
}

func (r *renderer) renderToString(bs []*Block) string {
	sub := &renderer{opts: r.opts, headingIDs: r.headingIDs, fnRefSeen: r.fnRefSeen}
	sub.blocks(bs)
	return sub.sb.String()
}

// inlineContent renders a fresh inline context: the content of a paragraph,
// heading or table cell.
func (r *renderer) inlineContent(spans []Inline) {
	r.prevSmart = 0
	r.spans(spans)
}

func (r *renderer) spans(spans []Inline) {
	for i := range spans {
		r.span(&spans[i])
	}
}

func (r *renderer) span(sp *Inline) {
	switch sp.Type {
	case Text:
		r.sb.WriteString(escapeHTML(r.smart(sp.Text)))
	case SoftBreak:
		if r.opts.LineBreak == SoftBreakAsBR {
			r.sb.WriteString("<br />\n")
		} else {
			r.sb.WriteByte('\n')
		}
		r.prevSmart = '\n'
	case HardBreak:
		r.sb.WriteString("<br />\n")
		r.prevSmart = '\n'
	case Emphasis:
		r.sb.WriteString("<em>")
		r.spans(sp.Children)
		r.sb.WriteString("</em>")
	case Strong:
		r.sb.WriteString("<strong>")
		r.spans(sp.Children)
		r.sb.WriteString("</strong>")
	case StrongEmphasis:
		r.sb.WriteString("<strong><em>")
		r.spans(sp.Children)
		r.sb.WriteString("</em></strong>")
	case CodeSpan:
		r.sb.WriteString("<code>")
		r.sb.WriteString(escapeHTML(sp.Text))
		r.sb.WriteString("</code>")
		r.prevSmart = 'a'
	case Link:
		var attrs attrBuilder
		attrs.set("href", escapeURL(sp.Dest))
		if sp.Title != "" {
			attrs.set("title", r.smart(sp.Title))
		}
		fmt.Fprintf(&r.sb, "<a%s>", &attrs)
		r.spans(sp.Children)
		r.sb.WriteString("</a>")
	case Image:
		var attrs attrBuilder
		attrs.set("src", escapeURL(sp.Dest))
		attrs.set("alt", r.smart(sp.Alt))
		if sp.Title != "" {
			attrs.set("title", r.smart(sp.Title))
		}
		fmt.Fprintf(&r.sb, "<img%s />", &attrs)
		r.prevSmart = 'a'
	case FootnoteRef:
		if sp.Ordinal == 0 {
			// Unresolved references degrade to literal text.
			r.sb.WriteString(escapeHTML("[^" + sp.Label + "]"))
			return
		}
		var attrs attrBuilder
		if !r.fnRefSeen[sp.Ordinal] {
			r.fnRefSeen[sp.Ordinal] = true
			attrs.set("id", "fnref:"+strconv.Itoa(sp.Ordinal))
		}
		attrs.set("class", "footnote-ref")
		fmt.Fprintf(&r.sb, `<sup%s><a href="#fn:%d">%d</a></sup>`,
			&attrs, sp.Ordinal, sp.Ordinal)
		r.prevSmart = 'a'
	case InlineMath:
		r.prevSmart = 'a'
		if r.opts.RenderMath != nil {
			r.sb.WriteString(r.opts.RenderMath(sp.Text, false))
			return
		}
		r.sb.WriteString(`<span class="math">$`)
		r.sb.WriteString(escapeHTML(sp.Text))
		r.sb.WriteString("$</span>")
	case RawHTML:
		r.sb.WriteString(sp.Text)
	}
}

// smart applies smart punctuation when the option is on. The renderer tracks
// the previous text byte so quote direction survives span boundaries.
func (r *renderer) smart(s string) string {
	if !r.opts.SmartPunctuation {
		if s != "" {
			r.prevSmart = s[len(s)-1]
		}
		return s
	}
	return r.smartPuncts(s)
}

func (r *renderer) headingID(content []Inline) string {
	slug := slugify(spanText(content))
	n := r.headingIDs[slug]
	r.headingIDs[slug] = n + 1
	if n > 0 {
		slug += "-" + strconv.Itoa(n)
	}
	return slug
}

// spanText flattens spans to plain text, for heading slugs.
func spanText(spans []Inline) string {
	var sb strings.Builder
	for i := range spans {
		sp := &spans[i]
		switch sp.Type {
		case Text, CodeSpan, InlineMath:
			sb.WriteString(sp.Text)
		case Image:
			sb.WriteString(sp.Alt)
		case SoftBreak, HardBreak:
			sb.WriteByte(' ')
		default:
			sb.WriteString(spanText(sp.Children))
		}
	}
	return sb.String()
}

func slugify(s string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			pendingDash = true
		}
	}
	if sb.Len() == 0 {
		return "section"
	}
	return sb.String()
}

func joinLines(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

type attrBuilder struct{ strings.Builder }

func (a *attrBuilder) set(k, v string) { fmt.Fprintf(a, ` %s="%s"`, k, escapeHTML(v)) }
