package md_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mdkit/mdkit/pkg/md"
)

func convert(t *testing.T, markdown string, opts md.Options) string {
	t.Helper()
	got, err := md.Convert(markdown, opts)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestConvert_SoftBreakAsBR(t *testing.T) {
	got := convert(t, "one\ntwo\n", md.Options{LineBreak: md.SoftBreakAsBR})
	want := "<p>one<br />\ntwo</p>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestConvert_TableAlignmentClass(t *testing.T) {
	got := convert(t, dedent(`
		| A | B |
		|:--|--:|
		| 1 | 2 |
		`), md.Options{TableAlignment: md.AlignmentClass})
	want := dedent(`
		<table>
		<thead>
		<tr>
		<th class="align-left">A</th>
		<th class="align-right">B</th>
		</tr>
		</thead>
		<tbody>
		<tr>
		<td class="align-left">1</td>
		<td class="align-right">2</td>
		</tr>
		</tbody>
		</table>
		`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestConvert_FootnoteSectionTitle(t *testing.T) {
	got := convert(t, dedent(`
		a[^x]

		[^x]: d
		`), md.Options{FootnoteSectionTitle: `Notes & "refs"`})
	if !strings.Contains(got, "<h2>Notes &amp; &quot;refs&quot;</h2>") {
		t.Errorf("footnote section title missing or unescaped in output:\n%s", got)
	}
}

func TestConvert_HighlightCodeBlock(t *testing.T) {
	opts := md.Options{
		HighlightCodeBlock: func(info, code string) string {
			return fmt.Sprintf("<pre data-lang=%q>%s</pre>\n", info, strings.ToUpper(code))
		},
	}
	got := convert(t, "```go run\ncode\n```\n", opts)
	want := "<pre data-lang=\"go run\">CODE\n</pre>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestConvert_RenderMath(t *testing.T) {
	opts := md.Options{
		RenderMath: func(payload string, display bool) string {
			if display {
				return "<math-block>" + payload + "</math-block>"
			}
			return "<math-inline>" + payload + "</math-inline>"
		},
	}
	got := convert(t, dedent(`
		$$
		x < y
		$$

		And $a+b$ inline.
		`), opts)
	want := dedent(`
		<math-block>x < y</math-block>
		<p>And <math-inline>a+b</math-inline> inline.</p>
		`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestConvert_MathFallbackEscapes(t *testing.T) {
	got := convert(t, "$a<b$\n", md.Options{})
	want := `<p><span class="math">$a&lt;b$</span></p>` + "\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestDumpTree(t *testing.T) {
	doc := md.Parse(dedent(`
		# T

		a[^x]

		[^x]: d
		`))
	got := md.DumpTree(doc)
	for _, want := range []string{
		"Heading Level=1", `Text Text="T"`,
		`FootnoteRef Label="x" Ordinal=1`, `Footnote Label="x" Ordinal=1`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("dump misses %q:\n%s", want, got)
		}
	}
}
