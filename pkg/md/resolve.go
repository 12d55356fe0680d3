package md

// Footnote resolution runs in two passes over the finished tree. Pass 1
// collects every FootnoteDefinition block, wherever it appears, and removes
// it from the body. Pass 2 walks all inline spans in document order and
// assigns ordinals in order of first reference; a reference whose label has
// no definition degrades to the literal text of the reference. Definitions
// never referenced keep no ordinal and are appended to the footnote section
// after the referenced ones, in definition order.

func resolveFootnotes(doc *Document) {
	var defs []*Footnote
	byLabel := make(map[string]*Footnote)

	var extract func(bs []*Block) []*Block
	extract = func(bs []*Block) []*Block {
		out := bs[:0]
		for _, b := range bs {
			if b.Type == FootnoteDefinition {
				b.Children = extract(b.Children)
				// The first definition of a label wins.
				if _, ok := byLabel[b.Label]; !ok {
					fn := &Footnote{Label: b.Label, Blocks: b.Children}
					defs = append(defs, fn)
					byLabel[b.Label] = fn
				}
				continue
			}
			switch b.Type {
			case Blockquote:
				b.Children = extract(b.Children)
			case List:
				for _, item := range b.Items {
					item.Children = extract(item.Children)
				}
			}
			out = append(out, b)
		}
		return out
	}
	doc.Blocks = extract(doc.Blocks)

	if len(defs) == 0 && !hasFootnoteRefs(doc.Blocks) {
		return
	}

	nextOrdinal := 0
	var resolveSpans func(spans []Inline) []Inline
	resolveSpans = func(spans []Inline) []Inline {
		for i := range spans {
			sp := &spans[i]
			if sp.Type != FootnoteRef {
				spans[i].Children = resolveSpans(sp.Children)
				continue
			}
			fn, ok := byLabel[sp.Label]
			if !ok {
				*sp = Inline{Type: Text, Text: "[^" + sp.Label + "]"}
				continue
			}
			if fn.Ordinal == 0 {
				nextOrdinal++
				fn.Ordinal = nextOrdinal
			}
			sp.Ordinal = fn.Ordinal
		}
		return spans
	}
	var resolveBlocks func(bs []*Block)
	resolveBlocks = func(bs []*Block) {
		for _, b := range bs {
			switch b.Type {
			case Paragraph, Heading:
				b.Content = resolveSpans(b.Content)
			case Blockquote, FootnoteDefinition:
				resolveBlocks(b.Children)
			case List:
				for _, item := range b.Items {
					resolveBlocks(item.Children)
				}
			case Table:
				for i := range b.Table.Header {
					b.Table.Header[i].Content = resolveSpans(b.Table.Header[i].Content)
				}
				for _, row := range b.Table.Rows {
					for i := range row {
						row[i].Content = resolveSpans(row[i].Content)
					}
				}
			}
		}
	}
	resolveBlocks(doc.Blocks)
	// References inside footnote bodies resolve after the main body.
	for _, fn := range defs {
		resolveBlocks(fn.Blocks)
	}

	// Referenced definitions in ordinal order, then unreferenced ones in
	// definition order.
	doc.Footnotes = make([]*Footnote, 0, len(defs))
	for _, fn := range defs {
		if fn.Ordinal > 0 {
			doc.Footnotes = append(doc.Footnotes, fn)
		}
	}
	for i := 1; i < len(doc.Footnotes); i++ {
		for j := i; j > 0 && doc.Footnotes[j-1].Ordinal > doc.Footnotes[j].Ordinal; j-- {
			doc.Footnotes[j-1], doc.Footnotes[j] = doc.Footnotes[j], doc.Footnotes[j-1]
		}
	}
	for _, fn := range defs {
		if fn.Ordinal == 0 {
			doc.Footnotes = append(doc.Footnotes, fn)
		}
	}
}

func hasFootnoteRefs(bs []*Block) bool {
	var anySpans func(spans []Inline) bool
	anySpans = func(spans []Inline) bool {
		for i := range spans {
			if spans[i].Type == FootnoteRef || anySpans(spans[i].Children) {
				return true
			}
		}
		return false
	}
	var anyBlocks func(bs []*Block) bool
	anyBlocks = func(bs []*Block) bool {
		for _, b := range bs {
			switch b.Type {
			case Paragraph, Heading:
				if anySpans(b.Content) {
					return true
				}
			case Blockquote, FootnoteDefinition:
				if anyBlocks(b.Children) {
					return true
				}
			case List:
				for _, item := range b.Items {
					if anyBlocks(item.Children) {
						return true
					}
				}
			case Table:
				for i := range b.Table.Header {
					if anySpans(b.Table.Header[i].Content) {
						return true
					}
				}
				for _, row := range b.Table.Rows {
					for i := range row {
						if anySpans(row[i].Content) {
							return true
						}
					}
				}
			}
		}
		return false
	}
	return anyBlocks(bs)
}
