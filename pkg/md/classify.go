package md

import (
	"regexp"
	"strconv"
	"strings"
)

// Line classification. Each line (after any container continuation markers
// have been stripped) is tagged with a structural role; when a line could
// match several patterns the first matching role in the order of the
// lineRole constants wins. Classification is a pure function of the line.

type lineRole uint8

const (
	roleFence lineRole = iota
	roleThematicBreak
	roleHeading
	roleBlockquote
	roleListMarker
	roleMathFence
	roleTableDelim
	roleFootnoteDef
	roleHTMLBlock
	roleBlank
	rolePlain
)

var lineRoleNames = []string{
	roleFence: "fence", roleThematicBreak: "thematic-break",
	roleHeading: "heading", roleBlockquote: "blockquote",
	roleListMarker: "list-marker", roleMathFence: "math-fence",
	roleTableDelim: "table-delim", roleFootnoteDef: "footnote-def",
	roleHTMLBlock: "html-block", roleBlank: "blank", rolePlain: "plain",
}

func (r lineRole) String() string { return lineRoleNames[r] }

// lineInfo carries the role of a line plus the pieces of the matched pattern
// that the block parser needs.
type lineInfo struct {
	role   lineRole
	indent int

	// roleHeading
	level int

	// roleFence
	fenceIndent int
	fence       string
	info        string

	// roleListMarker
	marker listMarker

	// roleTableDelim
	aligns []Alignment

	// roleFootnoteDef
	label string
	rest  string
}

// listMarker describes a list item marker, including the task-list checkbox
// variant.
type listMarker struct {
	ordered bool
	start   int
	punct   byte
	task    TaskState
	// width is the length of the marker including trailing spaces; it sets
	// the content indent baseline for nested blocks inside the item.
	width int
}

var (
	thematicBreakRegexp = regexp.MustCompile(
		`^ {0,3}((?:-[ \t]*){3,}|(?:_[ \t]*){3,}|(?:\*[ \t]*){3,})$`)

	// Capture group 1: heading opener
	atxHeadingRegexp       = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]|$)`)
	atxHeadingCloserRegexp = regexp.MustCompile(`[ \t]#+[ \t]*$`)

	// Capture groups:
	// 1. Indent
	// 2. Fence punctuations (backquote fence)
	// 3. Untrimmed info string (backquote fence)
	// 4. Fence punctuations (tilde fence)
	// 5. Untrimmed info string (tilde fence)
	codeFenceRegexp = regexp.MustCompile("(^ {0,3})(?:(`{3,})([^`]*)|(~{3,})(.*))$")
	// Capture group 1: fence punctuations
	codeFenceCloserRegexp = regexp.MustCompile("(?:^ {0,3})(`{3,}|~{3,})[ \t]*$")

	mathFenceRegexp = regexp.MustCompile(`^ {0,3}\$\$[ \t]*$`)

	blockquoteMarkerRegexp = regexp.MustCompile(`^ {0,3}> ?`)

	// Capture groups:
	// 1. Indent
	// 2. Bullet punctuation
	// 3. Ordered item start index
	// 4. Ordered item punctuation
	// 5. Spaces after the marker
	listMarkerRegexp = regexp.MustCompile(
		`^( {0,3})(?:([-+*])|([0-9]{1,9})([.)]))( {1,4})`)
	// Same groups, for a marker with nothing after it on the line.
	listMarkerBlankRegexp = regexp.MustCompile(
		`^( {0,3})(?:([-+*])|([0-9]{1,9})([.)]))([ \t]*)$`)

	taskMarkerRegexp = regexp.MustCompile(`^\[([ xX])\](?: |$)`)

	// Capture groups: 1. label, 2. rest of the line
	footnoteDefRegexp = regexp.MustCompile(`^ {0,3}\[\^([^\s\]^]+)\]:[ \t]*(.*)$`)

	tableDelimCellRegexp = regexp.MustCompile(`^:?-+:?$`)

	htmlBlockRegexp = regexp.MustCompile(`^ {0,3}(?:<!--|</?(?i:address|article|aside|blockquote|body|div|dl|dd|dt|fieldset|figcaption|figure|footer|form|h1|h2|h3|h4|h5|h6|head|header|hr|html|iframe|li|main|nav|noframes|ol|p|pre|script|section|style|table|tbody|td|tfoot|th|thead|title|tr|ul)(?:[ \t>]|$|/>))`)
)

// classifyLine tags one line with its structural role. The line is expected
// to have container continuation markers already stripped; blockquote and
// list-marker roles report the innermost marker only.
func classifyLine(line string) lineInfo {
	in := lineInfo{indent: indentWidth(line)}
	switch {
	case isBlankLine(line):
		in.role = roleBlank
	case classifyFence(line, &in):
	case thematicBreakRegexp.MatchString(line):
		in.role = roleThematicBreak
	case classifyHeading(line, &in):
	case blockquoteMarkerRegexp.MatchString(line):
		in.role = roleBlockquote
	case classifyListMarker(line, false, &in):
	case mathFenceRegexp.MatchString(line):
		in.role = roleMathFence
	case classifyTableDelim(line, &in):
	case classifyFootnoteDef(line, &in):
	case htmlBlockRegexp.MatchString(line):
		in.role = roleHTMLBlock
	default:
		in.role = rolePlain
	}
	return in
}

func classifyFence(line string, in *lineInfo) bool {
	m := codeFenceRegexp.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	in.role = roleFence
	in.fenceIndent = len(m[1])
	if m[2] != "" {
		in.fence, in.info = m[2], m[3]
	} else {
		in.fence, in.info = m[4], m[5]
	}
	in.info = strings.Trim(in.info, " \t")
	return true
}

func classifyHeading(line string, in *lineInfo) bool {
	m := atxHeadingRegexp.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	in.role = roleHeading
	in.level = len(m[1])
	return true
}

func classifyListMarker(line string, blankItem bool, in *lineInfo) bool {
	pattern := listMarkerRegexp
	if blankItem {
		pattern = listMarkerBlankRegexp
	}
	// Don't classify thematic breaks like "- - -" as bullets.
	if thematicBreakRegexp.MatchString(line) {
		return false
	}
	m := pattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	in.role = roleListMarker
	lm := listMarker{width: len(m[0])}
	if m[2] != "" {
		lm.punct = m[2][0]
	} else {
		lm.ordered = true
		lm.punct = m[4][0]
		lm.start, _ = strconv.Atoi(m[3])
	}
	if t := taskMarkerRegexp.FindStringSubmatch(line[len(m[0]):]); t != nil {
		if t[1] == " " {
			lm.task = TaskUnchecked
		} else {
			lm.task = TaskChecked
		}
	}
	in.marker = lm
	return true
}

func classifyTableDelim(line string, in *lineInfo) bool {
	aligns, ok := parseAlignRow(line)
	if !ok {
		return false
	}
	in.role = roleTableDelim
	in.aligns = aligns
	return true
}

func classifyFootnoteDef(line string, in *lineInfo) bool {
	m := footnoteDefRegexp.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	in.role = roleFootnoteDef
	in.label = m[1]
	in.rest = m[2]
	return true
}

// parseAlignRow parses a table alignment delimiter row like "|:---|---:|".
// The line must contain at least one pipe and every cell must be a run of
// dashes with optional leading and trailing colons.
func parseAlignRow(line string) ([]Alignment, bool) {
	if !strings.ContainsRune(line, '|') {
		return nil, false
	}
	cells := splitTableRow(line)
	if len(cells) == 0 {
		return nil, false
	}
	aligns := make([]Alignment, len(cells))
	for i, cell := range cells {
		if !tableDelimCellRegexp.MatchString(cell) {
			return nil, false
		}
		left := cell[0] == ':'
		right := cell[len(cell)-1] == ':'
		switch {
		case left && right:
			aligns[i] = AlignCenter
		case left:
			aligns[i] = AlignLeft
		case right:
			aligns[i] = AlignRight
		}
	}
	return aligns, true
}

// splitTableRow splits a table row on unescaped pipes, trimming cell
// whitespace and dropping the empty cells produced by leading and trailing
// pipes. Escaped pipes stay in the cell text for the inline parser to
// unescape.
func splitTableRow(line string) []string {
	line = strings.Trim(line, " \t")
	var cells []string
	var cell strings.Builder
	escaped := false
	for i := 0; i < len(line); i++ {
		b := line[i]
		switch {
		case escaped:
			cell.WriteByte(b)
			escaped = false
		case b == '\\':
			cell.WriteByte(b)
			escaped = true
		case b == '|':
			cells = append(cells, strings.Trim(cell.String(), " \t"))
			cell.Reset()
		default:
			cell.WriteByte(b)
		}
	}
	cells = append(cells, strings.Trim(cell.String(), " \t"))
	if len(cells) > 0 && cells[0] == "" && strings.HasPrefix(line, "|") {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" && strings.HasSuffix(line, "|") {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// isTableRowCandidate reports whether a line can serve as a table header or
// body row: it contains at least one unescaped pipe.
func isTableRowCandidate(line string) bool {
	escaped := false
	for i := 0; i < len(line); i++ {
		switch {
		case escaped:
			escaped = false
		case line[i] == '\\':
			escaped = true
		case line[i] == '|':
			return true
		}
	}
	return false
}

func isBlankLine(line string) bool {
	return strings.Trim(line, " \t") == ""
}

// indentWidth measures leading whitespace, counting a tab as 4 columns.
func indentWidth(line string) int {
	w := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}

// lineSplitter iterates over the lines of the input without allocating a
// slice of lines up front.
type lineSplitter struct {
	text string
	pos  int
}

func (s *lineSplitter) more() bool {
	return s.pos < len(s.text)
}

func (s *lineSplitter) next() string {
	begin := s.pos
	delta := strings.IndexByte(s.text[begin:], '\n')
	if delta == -1 {
		s.pos = len(s.text)
		return s.text[begin:]
	}
	s.pos += delta + 1
	return s.text[begin : s.pos-1]
}

func (s *lineSplitter) backup() {
	if s.pos == 0 {
		return
	}
	s.pos = 1 + strings.LastIndexByte(s.text[:s.pos-1], '\n')
}
