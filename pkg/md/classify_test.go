package md

import (
	"testing"

	"github.com/mdkit/mdkit/pkg/tt"
)

func role(line string) string { return classifyLine(line).role.String() }

func TestClassifyLine(t *testing.T) {
	tt.Test(t, tt.Fn("role", role), tt.Table{
		tt.Args("").Rets("blank"),
		tt.Args("  \t").Rets("blank"),
		tt.Args("# Heading").Rets("heading"),
		tt.Args("####### too deep").Rets("plain"),
		tt.Args("#no space").Rets("plain"),
		tt.Args("```go").Rets("fence"),
		tt.Args("~~~").Rets("fence"),
		tt.Args("---").Rets("thematic-break"),
		tt.Args("- - -").Rets("thematic-break"),
		tt.Args("***").Rets("thematic-break"),
		tt.Args("> quoted").Rets("blockquote"),
		tt.Args("- item").Rets("list-marker"),
		tt.Args("3. item").Rets("list-marker"),
		tt.Args("3) item").Rets("list-marker"),
		tt.Args("$$").Rets("math-fence"),
		tt.Args("$$ x").Rets("plain"),
		tt.Args("|---|:-:|").Rets("table-delim"),
		tt.Args("|--x-|").Rets("plain"),
		tt.Args("[^a]: def").Rets("footnote-def"),
		tt.Args("[^a] not a def").Rets("plain"),
		tt.Args("<div>").Rets("html-block"),
		tt.Args("<span>").Rets("plain"),
		tt.Args("<!-- c -->").Rets("html-block"),
		tt.Args("just text").Rets("plain"),
	})
}

func TestClassifyLine_Heading(t *testing.T) {
	in := classifyLine("### Three")
	if in.level != 3 {
		t.Errorf("level = %d, want 3", in.level)
	}
}

func TestClassifyLine_Fence(t *testing.T) {
	in := classifyLine("  ```go run")
	if in.fenceIndent != 2 || in.fence != "```" || in.info != "go run" {
		t.Errorf("got indent=%d fence=%q info=%q", in.fenceIndent, in.fence, in.info)
	}
}

func TestClassifyListMarker(t *testing.T) {
	var in lineInfo
	if !classifyListMarker("12. x", false, &in) {
		t.Fatal("no marker in ordered item")
	}
	m := in.marker
	if !m.ordered || m.start != 12 || m.punct != '.' || m.width != 4 {
		t.Errorf("got marker %+v", m)
	}
	if !classifyListMarker("- [X] x", false, &in) {
		t.Fatal("no marker in task item")
	}
	if in.marker.task != TaskChecked {
		t.Errorf("task = %v, want checked", in.marker.task)
	}
}

func TestSplitTableRow(t *testing.T) {
	tt.Test(t, tt.Fn("splitTableRow", splitTableRow), tt.Table{
		tt.Args("| a | b |").Rets([]string{"a", "b"}),
		tt.Args("a | b").Rets([]string{"a", "b"}),
		tt.Args(`| a \| b |`).Rets([]string{`a \| b`}),
		tt.Args("| |").Rets([]string{""}),
	})
}

func TestParseAlignRow(t *testing.T) {
	aligns, ok := parseAlignRow("|:--|:-:|--:|---|")
	if !ok {
		t.Fatal("parseAlignRow failed")
	}
	want := []Alignment{AlignLeft, AlignCenter, AlignRight, AlignNone}
	for i := range want {
		if aligns[i] != want[i] {
			t.Errorf("aligns[%d] = %v, want %v", i, aligns[i], want[i])
		}
	}
	if _, ok := parseAlignRow("no pipes here"); ok {
		t.Error("parseAlignRow accepted a line without pipes")
	}
}

func TestIndentWidth(t *testing.T) {
	tt.Test(t, tt.Fn("indentWidth", indentWidth), tt.Table{
		tt.Args("x").Rets(0),
		tt.Args("  x").Rets(2),
		tt.Args("\tx").Rets(4),
	})
}
