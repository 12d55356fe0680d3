package md

// Document is the root of a parsed Markdown document. It owns its block tree
// exclusively; a Document is built by one Parse call and never shared.
type Document struct {
	Blocks []*Block

	// Footnotes holds the resolved footnote section: referenced definitions
	// in ordinal order, then unreferenced definitions in definition order.
	Footnotes []*Footnote

	// FrontMatter holds the parsed YAML front matter, or nil if the document
	// has none.
	FrontMatter map[string]any
}

// BlockType identifies the variant of a Block.
type BlockType uint8

const (
	Paragraph BlockType = iota
	Heading
	CodeFence
	Blockquote
	List
	ThematicBreak
	Table
	MathBlock
	FootnoteDefinition
	HTMLBlock
)

var blockTypeNames = []string{
	Paragraph: "Paragraph", Heading: "Heading", CodeFence: "CodeFence",
	Blockquote: "Blockquote", List: "List", ThematicBreak: "ThematicBreak",
	Table: "Table", MathBlock: "MathBlock",
	FootnoteDefinition: "FootnoteDefinition", HTMLBlock: "HTMLBlock",
}

func (t BlockType) String() string { return blockTypeNames[t] }

// Block is a node in the block tree. It is a tagged variant: Type determines
// which of the other fields are meaningful.
type Block struct {
	Type BlockType

	// Level is the heading level, 1 to 6.
	Level int
	// Info is the trimmed info string of a code fence; the language tag is
	// the first word.
	Info string
	// Lines holds the verbatim content of a CodeFence, MathBlock or
	// HTMLBlock.
	Lines []string
	// MissingCloser records that a CodeFence or MathBlock was closed
	// implicitly at the end of input.
	MissingCloser bool

	// Ordered, Start and Loose describe a List; Items holds its items.
	Ordered bool
	Start   int
	Loose   bool
	Items   []*ListItem

	// Children holds the nested blocks of a Blockquote or
	// FootnoteDefinition.
	Children []*Block

	// Label is the footnote label of a FootnoteDefinition.
	Label string

	// Table holds the cells of a Table block.
	Table *TableData

	// Content holds the parsed inline spans of a Paragraph or Heading.
	Content []Inline

	// Raw inline text, set by the block parser and consumed by the inline
	// parser.
	text string
}

// TaskState is the checkbox state of a list item.
type TaskState uint8

const (
	TaskNone TaskState = iota
	TaskUnchecked
	TaskChecked
)

// ListItem is one item of a List. It owns its own block children, so an item
// may contain nested lists, paragraphs or any other block.
type ListItem struct {
	Task     TaskState
	Children []*Block
}

// Alignment is the column alignment of a table, decided by colon placement
// in the delimiter row.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

var alignmentNames = []string{
	AlignNone: "none", AlignLeft: "left", AlignRight: "right", AlignCenter: "center",
}

func (a Alignment) String() string { return alignmentNames[a] }

// TableData holds the header row, per-column alignment and body rows of a
// table. Body rows may be ragged; the renderer pads or truncates them to the
// header's column count.
type TableData struct {
	Header []TableCell
	Align  []Alignment
	Rows   [][]TableCell
}

// TableCell is a single table cell.
type TableCell struct {
	Content []Inline

	text string
}

// InlineType identifies the variant of an Inline span.
type InlineType uint8

const (
	Text InlineType = iota
	Emphasis
	Strong
	StrongEmphasis
	CodeSpan
	Link
	Image
	FootnoteRef
	InlineMath
	RawHTML
	SoftBreak
	HardBreak
)

var inlineTypeNames = []string{
	Text: "Text", Emphasis: "Emphasis", Strong: "Strong",
	StrongEmphasis: "StrongEmphasis", CodeSpan: "CodeSpan", Link: "Link",
	Image: "Image", FootnoteRef: "FootnoteRef", InlineMath: "InlineMath",
	RawHTML: "RawHTML", SoftBreak: "SoftBreak", HardBreak: "HardBreak",
}

func (t InlineType) String() string { return inlineTypeNames[t] }

// Inline is a span of text-level content. Like Block it is a tagged variant.
// CodeSpan, InlineMath and RawHTML content is verbatim and never re-entered
// into inline parsing.
type Inline struct {
	Type InlineType

	// Text is the content of a Text, CodeSpan, InlineMath or RawHTML span.
	Text string

	// Dest and Title describe a Link or Image.
	Dest  string
	Title string
	// Alt is the flattened alt text of an Image.
	Alt string

	// Label is the footnote label of a FootnoteRef; Ordinal is assigned by
	// the resolver, in order of first reference.
	Label   string
	Ordinal int

	// Children holds the nested spans of an Emphasis, Strong,
	// StrongEmphasis or Link.
	Children []Inline
}

// Footnote is one entry of the rendered footnote section. Ordinal is zero
// for definitions that are never referenced.
type Footnote struct {
	Label   string
	Ordinal int
	Blocks  []*Block
}
