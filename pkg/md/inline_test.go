package md

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func text(s string) Inline { return Inline{Type: Text, Text: s} }

var parseInlineTests = []struct {
	name string
	text string
	want []Inline
}{
	{
		name: "plain text",
		text: "hello",
		want: []Inline{text("hello")},
	},
	{
		name: "adjacent literals merge",
		text: "a&amp;b",
		want: []Inline{text("a&b")},
	},
	{
		name: "emphasis",
		text: "a *b* c",
		want: []Inline{
			text("a "),
			{Type: Emphasis, Children: []Inline{text("b")}},
			text(" c"),
		},
	},
	{
		name: "strong emphasis consumes three",
		text: "***b***",
		want: []Inline{
			{Type: StrongEmphasis, Children: []Inline{text("b")}},
		},
	},
	{
		name: "quadruple run is emphasis around strong emphasis",
		text: "****b****",
		want: []Inline{
			{Type: Emphasis, Children: []Inline{
				{Type: StrongEmphasis, Children: []Inline{text("b")}},
			}},
		},
	},
	{
		name: "nested emphasis",
		text: "**x *y* z**",
		want: []Inline{
			{Type: Strong, Children: []Inline{
				text("x "),
				{Type: Emphasis, Children: []Inline{text("y")}},
				text(" z"),
			}},
		},
	},
	{
		name: "underscore does not open intraword",
		text: "a_b_c",
		want: []Inline{text("a_b_c")},
	},
	{
		name: "code span trims one symmetric space",
		text: "`` `x` ``",
		want: []Inline{{Type: CodeSpan, Text: "`x`"}},
	},
	{
		name: "unmatched backtick run stays literal",
		text: "a ` b",
		want: []Inline{text("a ` b")},
	},
	{
		name: "link with title",
		text: `[text](/url "title")`,
		want: []Inline{
			{Type: Link, Dest: "/url", Title: "title",
				Children: []Inline{text("text")}},
		},
	},
	{
		name: "link spans nest",
		text: "[*em* text](/u)",
		want: []Inline{
			{Type: Link, Dest: "/u", Children: []Inline{
				{Type: Emphasis, Children: []Inline{text("em")}},
				text(" text"),
			}},
		},
	},
	{
		name: "bracket without tail stays literal",
		text: "[not a link]",
		want: []Inline{text("[not a link]")},
	},
	{
		name: "image alt is flattened",
		text: "![*a* b](/img.png)",
		want: []Inline{
			{Type: Image, Dest: "/img.png", Alt: "a b"},
		},
	},
	{
		name: "footnote reference",
		text: "see[^note-1].",
		want: []Inline{
			text("see"),
			{Type: FootnoteRef, Label: "note-1"},
			text("."),
		},
	},
	{
		name: "inline math",
		text: "let $x_i$ hold",
		want: []Inline{
			text("let "),
			{Type: InlineMath, Text: "x_i"},
			text(" hold"),
		},
	},
	{
		name: "math closer before digit does not close",
		text: "$5 and $10",
		want: []Inline{text("$5 and $10")},
	},
	{
		name: "math must stay on one line",
		text: "$a\nb$",
		want: []Inline{text("$a"), {Type: SoftBreak}, text("b$")},
	},
	{
		name: "escaped dollar does not close math",
		text: `$a\$b$`,
		want: []Inline{{Type: InlineMath, Text: `a\$b`}},
	},
	{
		name: "soft break trims trailing spaces",
		text: "a \nb",
		want: []Inline{text("a"), {Type: SoftBreak}, text("b")},
	},
	{
		name: "hard break from two spaces",
		text: "a  \nb",
		want: []Inline{text("a"), {Type: HardBreak}, text("b")},
	},
	{
		name: "hard break from backslash",
		text: "a\\\nb",
		want: []Inline{text("a"), {Type: HardBreak}, text("b")},
	},
	{
		name: "no break at end of block",
		text: "a\n",
		want: []Inline{text("a")},
	},
	{
		name: "autolink",
		text: "<https://example.com>",
		want: []Inline{
			{Type: Link, Dest: "https://example.com",
				Children: []Inline{text("https://example.com")}},
		},
	},
	{
		name: "email autolink",
		text: "<a@example.com>",
		want: []Inline{
			{Type: Link, Dest: "mailto:a@example.com",
				Children: []Inline{text("a@example.com")}},
		},
	},
	{
		name: "raw html tag",
		text: `a <span class="x">b</span>`,
		want: []Inline{
			text("a "),
			{Type: RawHTML, Text: `<span class="x">`},
			text("b"),
			{Type: RawHTML, Text: "</span>"},
		},
	},
	{
		name: "html comment",
		text: "a <!-- b --> c",
		want: []Inline{
			text("a "),
			{Type: RawHTML, Text: "<!-- b -->"},
			text(" c"),
		},
	},
}

func TestParseInline(t *testing.T) {
	for _, test := range parseInlineTests {
		t.Run(test.name, func(t *testing.T) {
			got := parseInline(test.text)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("parseInline(%q) (-want +got):\n%s", test.text, diff)
			}
		})
	}
}
