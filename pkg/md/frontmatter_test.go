package md

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var frontMatterTests = []struct {
	name     string
	text     string
	wantMeta map[string]any
	wantBody string
}{
	{
		name:     "no front matter",
		text:     "# Hi\n",
		wantMeta: nil,
		wantBody: "# Hi\n",
	},
	{
		name:     "simple mapping",
		text:     "---\ntitle: Hello\n---\nbody\n",
		wantMeta: map[string]any{"title": "Hello"},
		wantBody: "body\n",
	},
	{
		name:     "dots closer",
		text:     "---\na: 1\n...\nbody\n",
		wantMeta: map[string]any{"a": 1},
		wantBody: "body\n",
	},
	{
		name:     "unterminated block is content",
		text:     "---\ntitle: Hello\n",
		wantMeta: nil,
		wantBody: "---\ntitle: Hello\n",
	},
	{
		name:     "non-mapping yaml is content",
		text:     "---\n- a\n- b\n---\nbody\n",
		wantMeta: nil,
		wantBody: "---\n- a\n- b\n---\nbody\n",
	},
	{
		name:     "invalid yaml is content",
		text:     "---\n: : :\n---\nbody\n",
		wantMeta: nil,
		wantBody: "---\n: : :\n---\nbody\n",
	},
	{
		name:     "thematic break alone is not front matter",
		text:     "a\n---\nb\n",
		wantMeta: nil,
		wantBody: "a\n---\nb\n",
	},
}

func TestSplitFrontMatter(t *testing.T) {
	for _, test := range frontMatterTests {
		t.Run(test.name, func(t *testing.T) {
			meta, body := splitFrontMatter(test.text)
			if diff := cmp.Diff(test.wantMeta, meta); diff != "" {
				t.Errorf("meta (-want +got):\n%s", diff)
			}
			if body != test.wantBody {
				t.Errorf("body = %q, want %q", body, test.wantBody)
			}
		})
	}
}
