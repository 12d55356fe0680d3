package md_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mdkit/mdkit/pkg/md"
)

var smartPunctsFixtures = []fixture{
	{
		name:     "quotes",
		markdown: `It's "foo" and 'bar'.` + "\n",
		html:     "<p>It’s “foo” and ‘bar’.</p>\n",
	},
	{
		name:     "dashes and ellipsis",
		markdown: "a -- b --- c...\n",
		html:     "<p>a – b –- c…</p>\n",
	},
	{
		name:     "quote after opening bracket opens",
		markdown: `("quoted")` + "\n",
		html:     "<p>(“quoted”)</p>\n",
	},
	{
		name:     "quote direction survives span boundaries",
		markdown: `"*em*"` + "\n",
		html:     "<p>“<em>em</em>”</p>\n",
	},
	{
		name:     "code spans are never touched",
		markdown: "`a--b` c--d\n",
		html:     "<p><code>a--b</code> c–d</p>\n",
	},
	{
		name:     "quote after code span closes",
		markdown: "`x`'s\n",
		html:     "<p><code>x</code>’s</p>\n",
	},
	{
		name: "math is never touched",
		markdown: dedent(`
			$$
			a--b
			$$
			`),
		html: dedent(`
			<div class="math">$$a--b$$</div>
			`),
	},
	{
		name:     "link title gets smart quotes",
		markdown: `[a](/u "it's")` + "\n",
		html:     `<p><a href="/u" title="it’s">a</a></p>` + "\n",
	},
}

func TestConvert_SmartPunctuation(t *testing.T) {
	for _, f := range smartPunctsFixtures {
		t.Run(f.name, func(t *testing.T) {
			got, err := md.Convert(f.markdown, md.Options{SmartPunctuation: true})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(f.html, got); diff != "" {
				t.Errorf("Convert(%q) (-want +got):\n%s", f.markdown, diff)
			}
		})
	}
}

func TestConvert_SmartPunctuationOff(t *testing.T) {
	got, err := md.Convert(`"quoted" -- text...`+"\n", md.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "<p>&quot;quoted&quot; -- text...</p>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}
