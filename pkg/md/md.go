// Package md converts Markdown to HTML.
//
// The conversion runs as a pipeline of well separated stages: block parsing
// builds a tree of structural blocks, inline parsing turns the raw text of
// each paragraph, heading and table cell into spans, footnote resolution
// numbers references and collects the footnote section, and rendering walks
// the finished tree once to emit HTML.
//
// Beyond the CommonMark core the dialect covers pipe tables with alignment,
// task lists, footnotes, display and inline math, YAML front matter and
// optional smart punctuation.
package md

import "fmt"

// LineBreakStyle selects how soft line breaks inside a paragraph render.
type LineBreakStyle uint8

const (
	// SoftBreakAsNewline renders a soft break as a newline in the output.
	SoftBreakAsNewline LineBreakStyle = iota
	// SoftBreakAsBR renders a soft break as a <br /> tag.
	SoftBreakAsBR
)

// TableAlignmentStyle selects how table column alignment is expressed.
type TableAlignmentStyle uint8

const (
	// AlignmentInlineStyle emits style="text-align: ..." attributes.
	AlignmentInlineStyle TableAlignmentStyle = iota
	// AlignmentClass emits class="align-..." attributes.
	AlignmentClass
)

// Options control rendering. The zero value is a valid default
// configuration.
type Options struct {
	// LineBreak selects the rendering of soft line breaks.
	LineBreak LineBreakStyle
	// TableAlignment selects the rendering of table column alignment.
	TableAlignment TableAlignmentStyle
	// FootnoteSectionTitle is the heading of the footnote section; empty
	// means "Footnotes".
	FootnoteSectionTitle string
	// SmartPunctuation turns straight quotes, double hyphens and "..." into
	// their typographic forms in text spans.
	SmartPunctuation bool

	// HighlightCodeBlock, if non-nil, renders fenced code blocks. It
	// receives the trimmed info string and the verbatim code and returns
	// HTML that is emitted without further escaping.
	HighlightCodeBlock func(info, code string) string
	// RenderMath, if non-nil, renders math. It receives the verbatim math
	// payload without delimiters and whether it is display (block) math,
	// and returns HTML that is emitted without further escaping.
	RenderMath func(payload string, display bool) string
}

// ConfigError reports an option field set to a value outside its enumeration.
type ConfigError struct {
	Option string
	Value  int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("md: invalid %s value %d", e.Option, e.Value)
}

func (opts *Options) validate() error {
	if opts.LineBreak > SoftBreakAsBR {
		return &ConfigError{Option: "LineBreak", Value: int(opts.LineBreak)}
	}
	if opts.TableAlignment > AlignmentClass {
		return &ConfigError{Option: "TableAlignment", Value: int(opts.TableAlignment)}
	}
	return nil
}

// Convert parses Markdown and renders it as HTML. An error is only returned
// for invalid options; parsing itself never fails, since every input is
// valid Markdown.
func Convert(text string, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	return Render(Parse(text), opts), nil
}

// Parse parses Markdown into a document tree. Inline content is fully parsed
// and footnotes are resolved; the result is ready to render or inspect.
func Parse(text string) *Document {
	frontMatter, body := splitFrontMatter(text)
	doc := parseBlocks(body)
	doc.FrontMatter = frontMatter
	parseInlines(doc)
	resolveFootnotes(doc)
	return doc
}

// Render renders a parsed document as HTML. Invalid enum values in opts fall
// back to their zero defaults; use Convert to have them diagnosed.
func Render(doc *Document, opts Options) string {
	if opts.LineBreak > SoftBreakAsBR {
		opts.LineBreak = SoftBreakAsNewline
	}
	if opts.TableAlignment > AlignmentClass {
		opts.TableAlignment = AlignmentInlineStyle
	}
	return renderHTML(doc, &opts)
}
