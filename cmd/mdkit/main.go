// Command mdkit converts Markdown to HTML.
package main

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mdkit/mdkit/pkg/figure"
	"github.com/mdkit/mdkit/pkg/md"
	"github.com/mdkit/mdkit/pkg/page"
)

type cli struct {
	Input  string `arg:"" optional:"" type:"existingfile" help:"Input file. Reads stdin when omitted."`
	Output string `short:"o" placeholder:"FILE" help:"Output file. Writes stdout when omitted."`

	Standalone    bool   `help:"Wrap the output in a full HTML page."`
	Title         string `help:"Title of the standalone page. Defaults to the title field of the front matter."`
	Figures       bool   `help:"Rewrite standalone images into figures with captions."`
	SoftBreaks    string `enum:"newline,br" default:"newline" help:"Rendering of soft line breaks (newline or br)."`
	TableAlign    string `name:"table-align" enum:"style,class" default:"style" help:"Rendering of table column alignment (style or class)."`
	FootnoteTitle string `default:"Footnotes" help:"Heading of the footnote section."`
	Smart         bool   `help:"Use typographic quotes, dashes and ellipses."`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	var c cli
	parser, err := kong.New(&c, kong.Name("mdkit"),
		kong.Description("Convert Markdown to HTML."))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintln(errOut, "mdkit:", err)
		return 2
	}
	if err := c.run(in, out); err != nil {
		fmt.Fprintln(errOut, "mdkit:", err)
		return 1
	}
	return 0
}

func (c *cli) run(in io.Reader, out io.Writer) error {
	var source []byte
	var err error
	if c.Input != "" {
		source, err = os.ReadFile(c.Input)
	} else {
		source, err = io.ReadAll(in)
	}
	if err != nil {
		return err
	}

	opts := md.Options{
		FootnoteSectionTitle: c.FootnoteTitle,
		SmartPunctuation:     c.Smart,
	}
	if c.SoftBreaks == "br" {
		opts.LineBreak = md.SoftBreakAsBR
	}
	if c.TableAlign == "class" {
		opts.TableAlignment = md.AlignmentClass
	}

	doc := md.Parse(string(source))
	body := md.Render(doc, opts)
	if c.Figures {
		body, err = figure.WrapImages(body)
		if err != nil {
			return err
		}
	}
	if c.Standalone {
		title := c.Title
		if title == "" {
			if t, ok := doc.FrontMatter["title"].(string); ok {
				title = t
			}
		}
		var sb strings.Builder
		err := page.Write(&sb, page.Data{
			Title:          title,
			Body:           template.HTML(body),
			IncludeMathJax: hasMath(doc),
		})
		if err != nil {
			return err
		}
		body = sb.String()
	}

	if c.Output != "" {
		return os.WriteFile(c.Output, []byte(body), 0644)
	}
	_, err = io.WriteString(out, body)
	return err
}

// hasMath reports whether the document contains display or inline math, to
// decide whether the standalone page needs the MathJax loader.
func hasMath(doc *md.Document) bool {
	var anySpans func(spans []md.Inline) bool
	anySpans = func(spans []md.Inline) bool {
		for i := range spans {
			if spans[i].Type == md.InlineMath || anySpans(spans[i].Children) {
				return true
			}
		}
		return false
	}
	var anyBlocks func(bs []*md.Block) bool
	anyBlocks = func(bs []*md.Block) bool {
		for _, b := range bs {
			switch b.Type {
			case md.MathBlock:
				return true
			case md.Paragraph, md.Heading:
				if anySpans(b.Content) {
					return true
				}
			case md.Blockquote, md.FootnoteDefinition:
				if anyBlocks(b.Children) {
					return true
				}
			case md.List:
				for _, item := range b.Items {
					if anyBlocks(item.Children) {
						return true
					}
				}
			case md.Table:
				for i := range b.Table.Header {
					if anySpans(b.Table.Header[i].Content) {
						return true
					}
				}
				for _, row := range b.Table.Rows {
					for i := range row {
						if anySpans(row[i].Content) {
							return true
						}
					}
				}
			}
		}
		return false
	}
	if anyBlocks(doc.Blocks) {
		return true
	}
	for _, fn := range doc.Footnotes {
		if anyBlocks(fn.Blocks) {
			return true
		}
	}
	return false
}
