package page

import (
	"strings"
	"testing"
)

func render(t *testing.T, data Data) string {
	t.Helper()
	var sb strings.Builder
	if err := Write(&sb, data); err != nil {
		t.Fatal(err)
	}
	return sb.String()
}

func TestWrite(t *testing.T) {
	got := render(t, Data{Title: "A <title>", Body: "<p>body</p>\n"})
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>A &lt;title&gt;</title>",
		"<p>body</p>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output misses %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "MathJax") {
		t.Errorf("output includes MathJax without IncludeMathJax:\n%s", got)
	}
}

func TestWrite_MathJax(t *testing.T) {
	got := render(t, Data{Title: "t", Body: "<p>$x$</p>\n", IncludeMathJax: true})
	for _, want := range []string{
		"MathJax.Hub.Config",
		"MathJax.js?config=TeX-AMS_HTML",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output misses %q:\n%s", want, got)
		}
	}
}

func TestWrite_BodyIsNotEscaped(t *testing.T) {
	got := render(t, Data{Body: "<em>hi</em>"})
	if !strings.Contains(got, "<em>hi</em>") {
		t.Errorf("body was escaped:\n%s", got)
	}
}
