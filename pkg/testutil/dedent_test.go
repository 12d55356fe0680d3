package testutil

import "testing"

var dedentTests = []struct {
	name string
	text string
	want string
}{
	{
		name: "common tab margin",
		text: "\n\ta\n\tb\n",
		want: "a\nb\n",
	},
	{
		name: "relative indentation survives",
		text: `
		> quote
		  continuation
		`,
		want: "> quote\n  continuation\n",
	},
	{
		name: "interior whitespace-only line becomes empty",
		text: "\n  a\n \n  b\n",
		want: "a\n\nb\n",
	},
	{
		name: "margin is the shallowest indent",
		text: "\n\t\ta\n\tb\n",
		want: "\ta\nb\n",
	},
	{
		name: "mixed tabs and spaces share no margin",
		text: "  a\n\tb",
		want: "  a\n\tb",
	},
}

func TestDedent(t *testing.T) {
	for _, tc := range dedentTests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Dedent(tc.text); got != tc.want {
				t.Errorf("Dedent(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
