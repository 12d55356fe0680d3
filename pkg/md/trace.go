package md

import (
	"fmt"
	"strings"
)

// DumpTree renders a document tree as an indented textual dump. It is meant
// for tests and debugging; the format is stable enough to diff but is not an
// API.
func DumpTree(doc *Document) string {
	var sb strings.Builder
	dumpBlocks(&sb, doc.Blocks, 0)
	for _, fn := range doc.Footnotes {
		writeIndent(&sb, 0)
		fmt.Fprintf(&sb, "Footnote Label=%q Ordinal=%d\n", fn.Label, fn.Ordinal)
		dumpBlocks(&sb, fn.Blocks, 1)
	}
	return sb.String()
}

func dumpBlocks(sb *strings.Builder, bs []*Block, indent int) {
	for _, b := range bs {
		dumpBlock(sb, b, indent)
	}
}

func dumpBlock(sb *strings.Builder, b *Block, indent int) {
	writeIndent(sb, indent)
	sb.WriteString(b.Type.String())
	if b.Level != 0 {
		fmt.Fprintf(sb, " Level=%d", b.Level)
	}
	if b.Info != "" {
		fmt.Fprintf(sb, " Info=%q", b.Info)
	}
	if b.MissingCloser {
		sb.WriteString(" MissingCloser")
	}
	if b.Type == List {
		if b.Ordered {
			fmt.Fprintf(sb, " Ordered Start=%d", b.Start)
		}
		if b.Loose {
			sb.WriteString(" Loose")
		}
	}
	if b.Label != "" {
		fmt.Fprintf(sb, " Label=%q", b.Label)
	}
	sb.WriteByte('\n')
	for _, line := range b.Lines {
		writeIndent(sb, indent+1)
		fmt.Fprintf(sb, "| %s\n", line)
	}
	dumpSpans(sb, b.Content, indent+1)
	dumpBlocks(sb, b.Children, indent+1)
	for _, item := range b.Items {
		writeIndent(sb, indent+1)
		sb.WriteString("Item")
		switch item.Task {
		case TaskUnchecked:
			sb.WriteString(" Task=[ ]")
		case TaskChecked:
			sb.WriteString(" Task=[x]")
		}
		sb.WriteByte('\n')
		dumpBlocks(sb, item.Children, indent+2)
	}
	if b.Table != nil {
		writeIndent(sb, indent+1)
		sb.WriteString("Align")
		for _, a := range b.Table.Align {
			fmt.Fprintf(sb, " %s", a)
		}
		sb.WriteByte('\n')
		dumpRow(sb, "Header", b.Table.Header, indent+1)
		for _, row := range b.Table.Rows {
			dumpRow(sb, "Row", row, indent+1)
		}
	}
}

func dumpRow(sb *strings.Builder, name string, cells []TableCell, indent int) {
	writeIndent(sb, indent)
	sb.WriteString(name)
	sb.WriteByte('\n')
	for _, cell := range cells {
		writeIndent(sb, indent+1)
		sb.WriteString("Cell\n")
		dumpSpans(sb, cell.Content, indent+2)
	}
}

func dumpSpans(sb *strings.Builder, spans []Inline, indent int) {
	for i := range spans {
		sp := &spans[i]
		writeIndent(sb, indent)
		sb.WriteString(sp.Type.String())
		if sp.Text != "" {
			fmt.Fprintf(sb, " Text=%q", sp.Text)
		}
		if sp.Dest != "" {
			fmt.Fprintf(sb, " Dest=%q", sp.Dest)
		}
		if sp.Title != "" {
			fmt.Fprintf(sb, " Title=%q", sp.Title)
		}
		if sp.Alt != "" {
			fmt.Fprintf(sb, " Alt=%q", sp.Alt)
		}
		if sp.Label != "" {
			fmt.Fprintf(sb, " Label=%q", sp.Label)
		}
		if sp.Ordinal != 0 {
			fmt.Fprintf(sb, " Ordinal=%d", sp.Ordinal)
		}
		sb.WriteByte('\n')
		dumpSpans(sb, sp.Children, indent+1)
	}
}

func writeIndent(sb *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		sb.WriteString("  ")
	}
}
