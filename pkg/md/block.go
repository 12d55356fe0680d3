package md

import "strings"

// The block parser is a line-cursor state machine with an explicit container
// stack holding the currently open blockquote/list/list-item/footnote
// ancestry. Each line first has the continuation markers of open containers
// stripped, then any starting markers of new containers, and the remainder is
// classified to decide which leaf block it belongs to. No input is fatal:
// malformed constructs degrade to the closest valid node.

func parseBlocks(text string) *Document {
	p := blockParser{lines: lineSplitter{text: text}, doc: &Document{}}
	p.parse()
	return p.doc
}

type blockParser struct {
	lines      lineSplitter
	doc        *Document
	containers []*openContainer
	paragraph  []string
}

type containerKind uint8

const (
	cBlockquote containerKind = iota
	cList
	cListItem
	cFootnote
)

type openContainer struct {
	kind  containerKind
	block *Block    // cBlockquote, cList, cFootnote
	item  *ListItem // cListItem

	// indent is the continuation marker of a list item or footnote
	// definition body.
	indent  string
	punct   byte
	ordered bool
	start   int
	// blankFirst marks an item whose first line had no content.
	blankFirst bool
	// blankSeen marks a list that saw a blank line; if the list then
	// receives more content it becomes loose.
	blankSeen bool
}

func (p *blockParser) parse() {
	for p.lines.more() {
		line := p.lines.next()
		line, matched := p.matchContinuation(line)
		newParagraph := matched != len(p.containers) || len(p.paragraph) == 0
		line, newContainers := p.parseStartingMarkers(line, newParagraph)
		if len(newContainers) > 0 {
			p.popParagraph(matched)
			for _, c := range newContainers {
				p.appendContainer(c)
			}
			matched = len(p.containers)
		}

		in := classifyLine(line)
		switch in.role {
		case roleBlank:
			// A blank line flushes the paragraph but closes no container; a
			// blockquote or footnote body continues across it and only ends
			// when a later line fails to continue it.
			if len(newContainers) == 0 && len(p.paragraph) == 0 &&
				p.lastContainerIs(cListItem) &&
				p.containers[len(p.containers)-1].blankFirst {
				p.popLastContainer()
			}
			p.popParagraph(len(p.containers))
			for _, c := range p.containers {
				if c.kind == cList {
					c.blankSeen = true
				}
			}
		case roleThematicBreak:
			p.popParagraph(matched)
			p.popList()
			p.addBlock(&Block{Type: ThematicBreak})
		case roleHeading:
			p.popParagraph(matched)
			p.popList()
			p.addBlock(&Block{Type: Heading, Level: in.level, text: headingText(line)})
		case roleFence:
			p.popParagraph(matched)
			p.popList()
			p.parseFencedCodeBlock(in.fenceIndent, in.fence, in.info)
		case roleMathFence:
			p.popParagraph(matched)
			p.popList()
			p.parseMathBlock()
		case roleFootnoteDef:
			p.popParagraph(matched)
			p.popList()
			p.containers = append(p.containers, &openContainer{
				kind:   cFootnote,
				block:  &Block{Type: FootnoteDefinition, Label: in.label},
				indent: "    ",
			})
			if in.rest != "" {
				p.paragraph = append(p.paragraph, in.rest)
			}
		case roleHTMLBlock:
			p.popParagraph(matched)
			p.popList()
			p.parseHTMLBlock(line)
		case roleTableDelim:
			if matched == len(p.containers) && len(p.paragraph) == 1 &&
				isTableRowCandidate(p.paragraph[0]) &&
				len(splitTableRow(p.paragraph[0])) == len(in.aligns) {
				header := p.paragraph[0]
				p.paragraph = p.paragraph[:0]
				p.parseTable(header, in.aligns)
			} else {
				// A delimiter row with no header above it is just text.
				p.plainLine(line, matched)
			}
		default:
			p.plainLine(line, matched)
		}
	}
	p.popParagraph(0)
}

func (p *blockParser) plainLine(line string, matched int) {
	if len(p.paragraph) == 0 {
		p.popParagraph(matched)
		p.popList()
	}
	p.paragraph = append(p.paragraph, line)
}

// Matches the continuation markers of open containers. Returns the line
// after removing all matched markers and the number of containers matched.
func (p *blockParser) matchContinuation(line string) (string, int) {
	for i, c := range p.containers {
		n, ok := c.findContinuationMarker(line)
		if !ok {
			return line, i
		}
		line = line[n:]
	}
	return line, len(p.containers)
}

func (c *openContainer) findContinuationMarker(line string) (int, bool) {
	switch c.kind {
	case cBlockquote:
		marker := blockquoteMarkerRegexp.FindString(line)
		return len(marker), marker != ""
	case cList:
		return 0, true
	case cListItem, cFootnote:
		if strings.HasPrefix(line, c.indent) {
			return len(c.indent), true
		}
		return 0, false
	}
	panic("unreachable")
}

// Parses starting markers of new container blocks. Returns the line after
// removing all markers and the containers to open.
func (p *blockParser) parseStartingMarkers(line string, newParagraph bool) (string, []*openContainer) {
	var containers []*openContainer
	// Don't parse thematic breaks like "- - - " as bullets.
	for !thematicBreakRegexp.MatchString(line) {
		if m := blockquoteMarkerRegexp.FindString(line); m != "" {
			containers = append(containers,
				&openContainer{kind: cBlockquote, block: &Block{Type: Blockquote}})
			line = line[len(m):]
			continue
		}
		var in lineInfo
		blankFirst := false
		if !classifyListMarker(line, false, &in) {
			if !newParagraph || !classifyListMarker(line, true, &in) {
				break
			}
			blankFirst = true
		}
		lm := in.marker
		if lm.ordered && lm.start != 1 && !newParagraph {
			break
		}
		indent := lm.width
		if strings.Trim(line[lm.width:], " \t") == "" {
			indent = len(strings.TrimRight(line[:lm.width], " \t")) + 1
		}
		containers = append(containers, &openContainer{
			kind:       cListItem,
			item:       &ListItem{Task: lm.task},
			indent:     strings.Repeat(" ", indent),
			punct:      lm.punct,
			ordered:    lm.ordered,
			start:      lm.start,
			blankFirst: blankFirst,
		})
		line = line[lm.width:]
		if lm.task != TaskNone {
			line = line[taskMarkerRegexp.FindStringIndex(line)[1]:]
		}
	}
	return line, containers
}

func (p *blockParser) appendContainer(c *openContainer) {
	if n := len(p.containers); n > 0 {
		last := p.containers[n-1]
		if last.kind == cList && c.kind == cListItem && last.punct != c.punct {
			// A change of marker starts a new list.
			p.popLastContainer()
		}
	}
	if c.kind == cListItem {
		if !p.lastContainerIs(cList) {
			start := 1
			if c.ordered {
				start = c.start
			}
			p.containers = append(p.containers, &openContainer{
				kind: cList, punct: c.punct, ordered: c.ordered,
				block: &Block{Type: List, Ordered: c.ordered, Start: start},
			})
		}
		list := p.containers[len(p.containers)-1]
		if list.blankSeen {
			list.block.Loose = true
			list.blankSeen = false
		}
	}
	p.containers = append(p.containers, c)
}

func (p *blockParser) lastContainerIs(k containerKind) bool {
	return len(p.containers) > 0 && p.containers[len(p.containers)-1].kind == k
}

func (p *blockParser) popLastContainer() {
	c := p.containers[len(p.containers)-1]
	p.containers = p.containers[:len(p.containers)-1]
	if c.kind == cListItem {
		// An item is always directly above its list.
		list := p.containers[len(p.containers)-1]
		list.block.Items = append(list.block.Items, c.item)
		return
	}
	p.addBlock(c.block)
}

// addBlock attaches a finished block to the innermost open container, or to
// the document root.
func (p *blockParser) addBlock(b *Block) {
	if n := len(p.containers); n >= 2 && p.containers[n-1].kind == cListItem {
		if list := p.containers[n-2]; list.kind == cList && list.blankSeen {
			list.block.Loose = true
			list.blankSeen = false
		}
	}
	if len(p.containers) == 0 {
		p.doc.Blocks = append(p.doc.Blocks, b)
		return
	}
	c := p.containers[len(p.containers)-1]
	switch c.kind {
	case cBlockquote, cFootnote:
		c.block.Children = append(c.block.Children, b)
	case cListItem:
		c.item.Children = append(c.item.Children, b)
	case cList:
		// A leaf directly after an item closes the list first.
		p.popLastContainer()
		p.addBlock(b)
	}
}

func (p *blockParser) popParagraph(keepContainers int) {
	if len(p.paragraph) > 0 {
		text := strings.Trim(strings.Join(p.paragraph, "\n"), " \t")
		p.addBlock(&Block{Type: Paragraph, text: text})
		p.paragraph = p.paragraph[:0]
	}
	for len(p.containers) > keepContainers {
		p.popLastContainer()
	}
}

func (p *blockParser) popList() {
	if p.lastContainerIs(cList) {
		p.popLastContainer()
	}
}

func headingText(line string) string {
	m := atxHeadingRegexp.FindStringSubmatchIndex(line)
	line = strings.TrimRight(line[m[3]:], " \t")
	if closer := atxHeadingCloserRegexp.FindString(line); closer != "" {
		line = line[:len(line)-len(closer)]
	}
	return strings.Trim(line, " \t")
}

// A fenced code block takes lines verbatim until a closing fence of the same
// punctuation and at least the same length. An unterminated fence closes
// implicitly at the end of input or of the enclosing container, recorded in
// MissingCloser.
func (p *blockParser) parseFencedCodeBlock(indent int, opener, info string) {
	b := &Block{Type: CodeFence, Info: info}
	for p.lines.more() {
		line := p.lines.next()
		line, matched := p.matchContinuation(line)
		if isBlankLine(line) {
			// A blank line is part of the fence inside a list item, but ends
			// an unclosed fence in a blockquote whose marker is gone.
			for i := matched; i < len(p.containers); i++ {
				if p.containers[i].kind == cBlockquote {
					b.MissingCloser = true
					p.addBlock(b)
					p.lines.backup()
					return
				}
			}
		} else if matched < len(p.containers) {
			b.MissingCloser = true
			p.addBlock(b)
			p.lines.backup()
			return
		}
		if m := codeFenceCloserRegexp.FindStringSubmatch(line); m != nil {
			closer := m[1]
			if closer[0] == opener[0] && len(closer) >= len(opener) {
				p.addBlock(b)
				return
			}
		}
		for i := indent; i > 0 && line != "" && line[0] == ' '; i-- {
			line = line[1:]
		}
		b.Lines = append(b.Lines, line)
	}
	b.MissingCloser = true
	p.addBlock(b)
}

// A math block is delimited by lines consisting solely of "$$"; its content
// is verbatim and never inline-parsed.
func (p *blockParser) parseMathBlock() {
	b := &Block{Type: MathBlock}
	for p.lines.more() {
		line := p.lines.next()
		line, matched := p.matchContinuation(line)
		if isBlankLine(line) {
			for i := matched; i < len(p.containers); i++ {
				if p.containers[i].kind == cBlockquote {
					b.MissingCloser = true
					p.addBlock(b)
					p.lines.backup()
					return
				}
			}
		} else if matched < len(p.containers) {
			b.MissingCloser = true
			p.addBlock(b)
			p.lines.backup()
			return
		}
		if mathFenceRegexp.MatchString(line) {
			p.addBlock(b)
			return
		}
		b.Lines = append(b.Lines, line)
	}
	b.MissingCloser = true
	p.addBlock(b)
}

// An HTML block passes lines through verbatim until a blank line.
func (p *blockParser) parseHTMLBlock(first string) {
	b := &Block{Type: HTMLBlock, Lines: []string{first}}
	for p.lines.more() {
		line := p.lines.next()
		line, matched := p.matchContinuation(line)
		if isBlankLine(line) {
			p.addBlock(b)
			return
		} else if matched < len(p.containers) {
			p.addBlock(b)
			p.lines.backup()
			return
		}
		b.Lines = append(b.Lines, line)
	}
	p.addBlock(b)
}

// A table starts when a row line is immediately followed by a valid
// alignment delimiter row of the same column count; body rows follow until a
// line that is not a row. Ragged body rows are kept as parsed and padded or
// truncated at render time.
func (p *blockParser) parseTable(header string, aligns []Alignment) {
	t := &TableData{Align: aligns}
	for _, cell := range splitTableRow(header) {
		t.Header = append(t.Header, TableCell{text: cell})
	}
	for p.lines.more() {
		line := p.lines.next()
		line, matched := p.matchContinuation(line)
		if isBlankLine(line) || matched < len(p.containers) || !isTableRowCandidate(line) {
			p.lines.backup()
			break
		}
		var row []TableCell
		for _, cell := range splitTableRow(line) {
			row = append(row, TableCell{text: cell})
		}
		t.Rows = append(t.Rows, row)
	}
	p.addBlock(&Block{Type: Table, Table: t})
}
