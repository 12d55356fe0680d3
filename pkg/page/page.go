// Package page wraps a rendered HTML fragment in a standalone HTML page.
package page

import (
	"html/template"
	"io"
)

// Data fills the page template. Body is inserted as is; it must already be
// well-formed HTML.
type Data struct {
	Title string
	Body  template.HTML
	// IncludeMathJax adds the MathJax loader and its TeX configuration, set
	// up to process the $...$ and $$...$$ delimiters the converter leaves in
	// the output.
	IncludeMathJax bool
}

var tmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { max-width: 42em; margin: 0 auto; padding: 0 1em; line-height: 1.5; }
pre { overflow-x: auto; padding: 0.5em; background: #f6f6f6; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.25em 0.5em; }
figure.image-caption { text-align: center; }
figure.image-caption figcaption { font-size: 0.85em; color: #555; }
section.footnotes { font-size: 0.9em; }
</style>
{{- if .IncludeMathJax}}
<script type="text/x-mathjax-config">
MathJax.Hub.Config({tex2jax: {inlineMath: [["$", "$"]], processEscapes: true}});
</script>
<script async src="https://cdn.jsdelivr.net/npm/mathjax@2.7.9/MathJax.js?config=TeX-AMS_HTML"></script>
{{- end}}
</head>
<body>
{{.Body}}</body>
</html>
`))

// Write renders the page to w.
func Write(w io.Writer, data Data) error {
	return tmpl.Execute(w, data)
}
