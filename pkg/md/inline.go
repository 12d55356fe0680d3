package md

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// The inline parser is a single left-to-right scan over the raw text of one
// inline-bearing block. It accumulates pieces (literal text, atomic spans,
// and open/close markers for nested spans) and resolves emphasis with a
// delimiter stack using the flanking rules; buildSpans then folds the piece
// sequence into a span tree. Code span content is recognized first and
// masked from all further matching.

func parseInline(text string) []Inline {
	p := inlineParser{text: text, delims: makeDelimStack()}
	p.parse()
	return buildSpans(p.buf)
}

// parseInlines fills in the Content of every inline-bearing block in the
// tree: paragraphs, headings, table cells, and the bodies of containers.
func parseInlines(doc *Document) {
	var walk func(bs []*Block)
	walk = func(bs []*Block) {
		for _, b := range bs {
			switch b.Type {
			case Paragraph, Heading:
				b.Content = parseInline(b.text)
			case Blockquote, FootnoteDefinition:
				walk(b.Children)
			case List:
				for _, item := range b.Items {
					walk(item.Children)
				}
			case Table:
				for i := range b.Table.Header {
					b.Table.Header[i].Content = parseInline(b.Table.Header[i].text)
				}
				for _, row := range b.Table.Rows {
					for i := range row {
						row[i].Content = parseInline(row[i].text)
					}
				}
			}
		}
	}
	walk(doc.Blocks)
}

// spanMarker opens or closes a nested span in the piece sequence.
type spanMarker struct {
	typ         InlineType
	dest, title string
}

// piece is one element of the inline parser's output buffer. Emission order
// is: closes, text, atom, opens (outermost open last-to-first).
type piece struct {
	text   string
	atom   *Inline
	opens  []spanMarker
	closes []InlineType
}

type inlineParser struct {
	text   string
	pos    int
	delims delimStack
	buf    []piece
}

func (p *inlineParser) push(pc piece) int {
	p.buf = append(p.buf, pc)
	return len(p.buf) - 1
}

// A node in the delimiter "stack" (which is actually a doubly linked list).
type delim struct {
	typ    byte
	bufIdx int
	prev   *delim
	next   *delim
	// Only used when typ is '['.
	inactive bool
	// Only used when typ is '_' or '*'.
	n        int
	canOpen  bool
	canClose bool
}

func unlink(n *delim) {
	n.next.prev = n.prev
	n.prev.next = n.next
}

// A delimiter stack with sentinels as bottom and top, the bottom being the
// head of the list.
type delimStack struct {
	bottom, top *delim
}

func makeDelimStack() delimStack {
	bottom := &delim{}
	top := &delim{prev: bottom}
	bottom.next = top
	return delimStack{bottom, top}
}

func (s *delimStack) push(n *delim) {
	n.prev = s.top.prev
	n.next = s.top
	s.top.prev.next = n
	s.top.prev = n
}

var isASCIIPunct = map[byte]bool{
	'!': true, '"': true, '#': true, '$': true, '%': true, '&': true,
	'\'': true, '(': true, ')': true, '*': true, '+': true, ',': true,
	'-': true, '.': true, '/': true, ':': true, ';': true, '<': true,
	'=': true, '>': true, '?': true, '@': true, '[': true, '\\': true,
	']': true, '^': true, '_': true, '`': true, '{': true, '|': true,
	'}': true, '~': true,
}

const (
	openTag = `<` +
		`[a-zA-Z][a-zA-Z0-9-]*` + // tag name
		(`(?:` +
			`[ \t\n]+` + // whitespace
			`[a-zA-Z_:][a-zA-Z0-9_\.:-]*` + // attribute name
			`(?:[ \t\n]*=[ \t\n]*(?:[^ \t\n"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?` + // attribute value
			`)*`) + // zero or more attributes
		`[ \t\n]*` + // whitespace
		`/?>`
	closingTag = `</[a-zA-Z][a-zA-Z0-9-]*[ \t\n]*>`
)

var (
	entityRegexp     = regexp.MustCompile(`^&(?:[a-zA-Z0-9]+|#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6});`)
	openTagRegexp    = regexp.MustCompile(`^` + openTag)
	closingTagRegexp = regexp.MustCompile(`^` + closingTag)
	autolinkRegexp   = regexp.MustCompile(`^<` +
		`[a-zA-Z][a-zA-Z0-9+.-]{1,31}` + // scheme
		`:[^\x00-\x19 <>]*` +
		`>`)
	emailAutolinkRegexp = regexp.MustCompile(fmt.Sprintf(`^<[a-zA-Z0-9.!#$%%&'*+/=?^_%s{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*>`, "`"))

	footnoteRefRegexp = regexp.MustCompile(`^\[\^([^\s\]^]+)\]`)
)

func (p *inlineParser) parse() {
	for p.pos < len(p.text) {
		b := p.text[p.pos]
		begin := p.pos
		p.pos++

		parseText := func() {
			for p.pos < len(p.text) && !isMeta(p.text[p.pos]) {
				p.pos++
			}
			p.push(piece{text: p.text[begin:p.pos]})
		}

		switch b {
		case '[':
			if m := footnoteRefRegexp.FindStringSubmatch(p.text[begin:]); m != nil {
				p.push(piece{atom: &Inline{Type: FootnoteRef, Label: m[1]}})
				p.pos = begin + len(m[0])
				continue
			}
			bufIdx := p.push(piece{text: "["})
			p.delims.push(&delim{typ: '[', bufIdx: bufIdx})
		case '!':
			if p.pos < len(p.text) && p.text[p.pos] == '[' {
				p.pos++
				bufIdx := p.push(piece{text: "!["})
				p.delims.push(&delim{typ: '!', bufIdx: bufIdx})
			} else {
				parseText()
			}
		case ']':
			p.parseCloseBracket()
		case '*', '_':
			// Consume the entire run of * or _.
			for p.pos < len(p.text) && p.text[p.pos] == b {
				p.pos++
			}
			next, lNext := utf8.DecodeRuneInString(p.text[p.pos:])
			prev, lPrev := utf8.DecodeLastRuneInString(p.text[:begin])
			leftFlanking := lNext > 0 && !unicode.IsSpace(next) &&
				(!unicode.IsPunct(next) ||
					(lPrev == 0 || unicode.IsSpace(prev) || unicode.IsPunct(prev)))
			rightFlanking := lPrev > 0 && !unicode.IsSpace(prev) &&
				(!unicode.IsPunct(prev) ||
					(lNext == 0 || unicode.IsSpace(next) || unicode.IsPunct(next)))
			canOpen := leftFlanking
			canClose := rightFlanking
			if b == '_' {
				canOpen = leftFlanking && (!rightFlanking || (lPrev > 0 && unicode.IsPunct(prev)))
				canClose = rightFlanking && (!leftFlanking || (lNext > 0 && unicode.IsPunct(next)))
			}
			bufIdx := p.push(piece{text: p.text[begin:p.pos]})
			p.delims.push(
				&delim{typ: b, bufIdx: bufIdx,
					n: p.pos - begin, canOpen: canOpen, canClose: canClose})
		case '`':
			// Consume the entire run of `.
			for p.pos < len(p.text) && p.text[p.pos] == '`' {
				p.pos++
			}
			closer := findBacktickRun(p.text, p.text[begin:p.pos], p.pos)
			if closer == -1 {
				// No matching closer, don't parse as code span.
				parseText()
				continue
			}
			p.push(piece{atom: &Inline{
				Type: CodeSpan,
				Text: normalizeCodeSpanContent(p.text[p.pos:closer])}})
			p.pos = closer + (p.pos - begin)
		case '$':
			if closer, ok := findMathCloser(p.text, p.pos); ok {
				p.push(piece{atom: &Inline{Type: InlineMath, Text: p.text[p.pos:closer]}})
				p.pos = closer + 1
			} else {
				parseText()
			}
		case '<':
			if p.parseAngle(begin) {
				continue
			}
			parseText()
		case '&':
			entity := entityRegexp.FindString(p.text[begin:])
			if entity != "" {
				p.push(piece{text: html.UnescapeString(entity)})
				p.pos = begin + len(entity)
			} else {
				parseText()
			}
		case '\\':
			if p.pos < len(p.text) && isASCIIPunct[p.text[p.pos]] {
				begin++
				p.pos++
			}
			parseText()
		case '\n':
			hard := false
			if len(p.buf) > 0 {
				last := &p.buf[len(p.buf)-1]
				if last.atom == nil && last.opens == nil && last.closes == nil {
					if strings.HasSuffix(last.text, "\\") {
						hard = true
						last.text = last.text[:len(last.text)-1]
					} else {
						hard = strings.HasSuffix(last.text, "  ")
						last.text = strings.TrimRight(last.text, " ")
					}
				}
			}
			if p.pos < len(p.text) {
				if hard {
					p.push(piece{atom: &Inline{Type: HardBreak}})
				} else {
					p.push(piece{atom: &Inline{Type: SoftBreak}})
				}
			}
			for p.pos < len(p.text) && p.text[p.pos] == ' ' {
				p.pos++
			}
		default:
			parseText()
		}
	}
	p.processEmphasis(p.delims.bottom)
}

// parseCloseBracket resolves a "]" against the nearest bracket opener,
// parsing the link tail that follows. Unmatched brackets fall back to
// literal text.
func (p *inlineParser) parseCloseBracket() {
	var opener *delim
	for d := p.delims.top.prev; d != p.delims.bottom; d = d.prev {
		if d.typ == '[' || d.typ == '!' {
			opener = d
			break
		}
	}
	if opener == nil || opener.inactive {
		if opener != nil {
			unlink(opener)
		}
		p.push(piece{text: "]"})
		return
	}
	n, dest, title := parseLinkTail(p.text[p.pos:])
	if n == -1 {
		unlink(opener)
		p.push(piece{text: "]"})
		return
	}
	p.pos += n
	p.processEmphasis(opener)
	if opener.typ == '[' {
		// Links don't nest; deactivate any outer bracket openers.
		for d := opener.prev; d != p.delims.bottom; d = d.prev {
			if d.typ == '[' {
				d.inactive = true
			}
		}
		unlink(opener)
		p.buf[opener.bufIdx] = piece{opens: []spanMarker{{typ: Link, dest: dest, title: title}}}
		p.push(piece{closes: []InlineType{Link}})
		return
	}
	// Image: flatten everything after the opener into the alt text.
	alt := plainText(p.buf[opener.bufIdx+1:])
	p.buf = p.buf[:opener.bufIdx]
	// Drop delimiters that pointed into the removed pieces.
	prev := opener.prev
	prev.next = p.delims.top
	p.delims.top.prev = prev
	p.push(piece{atom: &Inline{Type: Image, Dest: dest, Title: title, Alt: alt}})
}

// parseAngle handles raw inline HTML (comments, open and closing tags) and
// autolinks. Reports whether anything was consumed.
func (p *inlineParser) parseAngle(begin int) bool {
	if p.pos == len(p.text) {
		return false
	}
	switch {
	case strings.HasPrefix(p.text[p.pos:], "!--"):
		if i := strings.Index(p.text[p.pos:], "-->"); i != -1 {
			end := p.pos + i + 3
			p.push(piece{atom: &Inline{Type: RawHTML, Text: p.text[begin:end]}})
			p.pos = end
			return true
		}
	case p.text[p.pos] == '/':
		if tag := closingTagRegexp.FindString(p.text[begin:]); tag != "" {
			p.push(piece{atom: &Inline{Type: RawHTML, Text: tag}})
			p.pos = begin + len(tag)
			return true
		}
	default:
		if tag := openTagRegexp.FindString(p.text[begin:]); tag != "" {
			p.push(piece{atom: &Inline{Type: RawHTML, Text: tag}})
			p.pos = begin + len(tag)
			return true
		}
		autolink := autolinkRegexp.FindString(p.text[begin:])
		email := false
		if autolink == "" {
			autolink = emailAutolinkRegexp.FindString(p.text[begin:])
			email = true
		}
		if autolink != "" {
			p.pos = begin + len(autolink)
			text := autolink[1 : len(autolink)-1]
			dest := text
			if email {
				dest = "mailto:" + dest
			}
			p.push(piece{atom: &Inline{Type: Link, Dest: dest,
				Children: []Inline{{Type: Text, Text: text}}}})
			return true
		}
	}
	return false
}

// processEmphasis resolves all delimiters above bottom, in the order
// prescribed by the CommonMark algorithm. A matched pair consumes three
// punctuations from each side when both runs have at least three
// (StrongEmphasis), else two (Strong), else one (Emphasis).
func (p *inlineParser) processEmphasis(bottom *delim) {
	var openersBottom [2][3][2]*delim
	for closer := bottom.next; closer != nil; {
		if !closer.canClose {
			closer = closer.next
			continue
		}
		openerBottom := &openersBottom[b2i(closer.typ == '_')][closer.n%3][b2i(closer.canOpen)]
		if *openerBottom == nil {
			*openerBottom = bottom
		}
		var opener *delim
		for d := closer.prev; d != *openerBottom; d = d.prev {
			if d.canOpen && d.typ == closer.typ &&
				((!d.canClose && !closer.canOpen) ||
					(d.n+closer.n)%3 != 0 || (d.n%3 == 0 && closer.n%3 == 0)) {
				opener = d
				break
			}
		}
		if opener == nil {
			*openerBottom = closer.prev
			if !closer.canOpen {
				closer.prev.next = closer.next
				closer.next.prev = closer.prev
			}
			closer = closer.next
			continue
		}
		openerPiece := &p.buf[opener.bufIdx]
		closerPiece := &p.buf[closer.bufIdx]
		var typ InlineType
		var consume int
		switch {
		case len(openerPiece.text) >= 3 && len(closerPiece.text) >= 3:
			// Runs longer than 3 leave their remainder for a later match,
			// so **** pairs resolve as emphasis around strong emphasis
			// rather than nested strong.
			typ, consume = StrongEmphasis, 3
		case len(openerPiece.text) >= 2 && len(closerPiece.text) >= 2:
			typ, consume = Strong, 2
		default:
			typ, consume = Emphasis, 1
		}
		openerPiece.text = openerPiece.text[consume:]
		openerPiece.opens = append(openerPiece.opens, spanMarker{typ: typ})
		closerPiece.text = closerPiece.text[consume:]
		closerPiece.closes = append(closerPiece.closes, typ)
		opener.next = closer
		closer.prev = opener
		if openerPiece.text == "" {
			opener.prev.next = opener.next
			opener.next.prev = opener.prev
		}
		if closerPiece.text == "" {
			closer.prev.next = closer.next
			closer.next.prev = closer.prev
			closer = closer.next
		}
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// buildSpans folds the linear piece sequence into a span tree. Markers are
// properly nested by construction; the leftover cases are handled by
// flattening rather than failing.
func buildSpans(pieces []piece) []Inline {
	type frame struct {
		m        spanMarker
		children []Inline
	}
	stack := []frame{{}}
	appendSpan := func(sp Inline) {
		top := &stack[len(stack)-1]
		if sp.Type == Text && len(top.children) > 0 &&
			top.children[len(top.children)-1].Type == Text {
			top.children[len(top.children)-1].Text += sp.Text
			return
		}
		top.children = append(top.children, sp)
	}
	for _, pc := range pieces {
		for range pc.closes {
			if len(stack) == 1 {
				continue
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top := &stack[len(stack)-1]
			top.children = append(top.children, Inline{
				Type: f.m.typ, Dest: f.m.dest, Title: f.m.title, Children: f.children})
		}
		if pc.text != "" {
			appendSpan(Inline{Type: Text, Text: pc.text})
		}
		if pc.atom != nil {
			appendSpan(*pc.atom)
		}
		for i := len(pc.opens) - 1; i >= 0; i-- {
			stack = append(stack, frame{m: pc.opens[i]})
		}
	}
	for len(stack) > 1 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		top := &stack[len(stack)-1]
		top.children = append(top.children, f.children...)
	}
	return stack[0].children
}

// plainText flattens pieces to the plain text used for image alt.
func plainText(pieces []piece) string {
	var sb strings.Builder
	for _, pc := range pieces {
		sb.WriteString(pc.text)
		if pc.atom == nil {
			continue
		}
		switch pc.atom.Type {
		case Text, CodeSpan, InlineMath:
			sb.WriteString(pc.atom.Text)
		case Image:
			sb.WriteString(pc.atom.Alt)
		case SoftBreak, HardBreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// findMathCloser scans for the closing "$" of an inline math span starting
// at i (just after the opening "$"). Both delimiters must sit on the same
// line, and a candidate closer immediately followed by an ASCII digit does
// not close, so "$5 and $10" stays literal text.
func findMathCloser(s string, i int) (int, bool) {
	if i >= len(s) || s[i] == ' ' || s[i] == '$' || s[i] == '\n' {
		return 0, false
	}
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '\n':
			return 0, false
		case '$':
			if j+1 < len(s) && isASCIIDigit(s[j+1]) {
				continue
			}
			if s[j-1] == ' ' || s[j-1] == '\\' {
				continue
			}
			return j, true
		}
	}
	return 0, false
}

type linkTailParser struct {
	text string
	pos  int
}

// parseLinkTail parses the "(destination "title")" tail of a link or image.
// Returns the number of bytes consumed, or -1 if the tail is not valid.
func parseLinkTail(text string) (n int, dest, title string) {
	p := linkTailParser{text, 0}
	return p.parse()
}

func (p *linkTailParser) parse() (n int, dest, title string) {
	if len(p.text) < 2 || p.text[0] != '(' {
		return -1, "", ""
	}

	p.pos = 1
	p.skipWhitespaces()
	// Parse an optional link destination.
	var destBuilder strings.Builder
	if p.text[1] == '<' {
		p.pos++
		closed := false
	angleDest:
		for p.pos < len(p.text) {
			switch p.text[p.pos] {
			case '>':
				p.pos++
				closed = true
				break angleDest
			case '\n', '<':
				return -1, "", ""
			case '\\':
				destBuilder.WriteByte(p.parseBackslash())
			default:
				destBuilder.WriteByte(p.text[p.pos])
				p.pos++
			}
		}
		if !closed {
			return -1, "", ""
		}
	} else {
		parenBalance := 0
	bareDest:
		for p.pos < len(p.text) {
			if isASCIIControl(p.text[p.pos]) || p.text[p.pos] == ' ' {
				break
			}
			switch p.text[p.pos] {
			case '(':
				parenBalance++
				destBuilder.WriteByte('(')
				p.pos++
			case ')':
				if parenBalance == 0 {
					break bareDest
				}
				parenBalance--
				destBuilder.WriteByte(')')
				p.pos++
			case '\\':
				destBuilder.WriteByte(p.parseBackslash())
			default:
				destBuilder.WriteByte(p.text[p.pos])
				p.pos++
			}
		}
		if parenBalance != 0 {
			return -1, "", ""
		}
	}
	p.skipWhitespaces()

	var titleBuilder strings.Builder
	if p.pos < len(p.text) && strings.ContainsRune("'\"(", rune(p.text[p.pos])) {
		opener := p.text[p.pos]
		closer := p.text[p.pos]
		if closer == '(' {
			closer = ')'
		}
		p.pos++
	title:
		for p.pos < len(p.text) {
			switch p.text[p.pos] {
			case closer:
				p.pos++
				break title
			case opener:
				return -1, "", ""
			case '\\':
				titleBuilder.WriteByte(p.parseBackslash())
			default:
				titleBuilder.WriteByte(p.text[p.pos])
				p.pos++
			}
		}
	}

	p.skipWhitespaces()

	if p.pos == len(p.text) || p.text[p.pos] != ')' {
		return -1, "", ""
	}
	return p.pos + 1, html.UnescapeString(destBuilder.String()), html.UnescapeString(titleBuilder.String())
}

func (p *linkTailParser) skipWhitespaces() {
	for p.pos < len(p.text) && isWhitespace(p.text[p.pos]) {
		p.pos++
	}
}

func (p *linkTailParser) parseBackslash() byte {
	if p.pos+1 < len(p.text) && isASCIIPunct[p.text[p.pos+1]] {
		b := p.text[p.pos+1]
		p.pos += 2
		return b
	}
	p.pos++
	return '\\'
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

func isASCIIControl(b byte) bool {
	return b < 0x20
}

func isASCIIDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isMeta(b byte) bool {
	switch b {
	case '!', '[', ']', '*', '_', '`', '$', '\\', '&', '<', '\n':
		return true
	default:
		return false
	}
}

func findBacktickRun(s, run string, i int) int {
	for i < len(s) {
		j := strings.Index(s[i:], run)
		if j == -1 {
			return -1
		}
		j += i
		if j+len(run) == len(s) || s[j+len(run)] != '`' {
			return j
		}
		for j < len(s) && s[j] == '`' {
			j++
		}
		i = j
	}
	return -1
}

var lineEndingToSpace = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func normalizeCodeSpanContent(s string) string {
	s = lineEndingToSpace.Replace(s)
	if len(s) > 1 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.Trim(s, " ") != "" {
		return s[1 : len(s)-1]
	}
	return s
}
