package figure

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var wrapImagesTests = []struct {
	name string
	in   string
	want string
}{
	{
		name: "title becomes the caption",
		in:   `<p><img src="a.png" alt="A" title="The caption"/></p>`,
		want: `<figure class="image-caption"><img src="a.png" alt="A" title="The caption"/><figcaption>The caption</figcaption></figure>`,
	},
	{
		name: "alt is the fallback caption",
		in:   `<p><img src="b.png" alt="Alt cap"/></p>`,
		want: `<figure class="image-caption"><img src="b.png" alt="Alt cap"/><figcaption>Alt cap</figcaption></figure>`,
	},
	{
		name: "no caption without title or alt",
		in:   `<p><img src="c.png"/></p>`,
		want: `<figure class="image-caption"><img src="c.png"/></figure>`,
	},
	{
		name: "caption is escaped",
		in:   `<p><img src="d.png" title="a &lt;b&gt;"/></p>`,
		want: `<figure class="image-caption"><img src="d.png" title="a &lt;b&gt;"/><figcaption>a &lt;b&gt;</figcaption></figure>`,
	},
	{
		name: "image with surrounding text is left alone",
		in:   `<p>text <img src="e.png"/></p>`,
		want: `<p>text <img src="e.png"/></p>`,
	},
	{
		name: "paragraph with two images is left alone",
		in:   `<p><img src="f.png"/><img src="g.png"/></p>`,
		want: `<p><img src="f.png"/><img src="g.png"/></p>`,
	},
	{
		name: "non-image paragraphs are untouched",
		in:   "<p>hello</p>\n<hr/>",
		want: "<p>hello</p>\n<hr/>",
	},
}

func TestWrapImages(t *testing.T) {
	for _, test := range wrapImagesTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := WrapImages(test.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("WrapImages(%q) (-want +got):\n%s", test.in, diff)
			}
		})
	}
}
