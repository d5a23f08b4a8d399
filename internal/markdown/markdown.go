package markdown

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"codeberg.org/snonux/doctrans/internal/document"
)

// Format opens Markdown files.
type Format struct {
	md goldmark.Markdown
}

// NewFormat creates the Markdown format.
func NewFormat() *Format {
	return &Format{md: goldmark.New()}
}

// Name returns the format name
func (f *Format) Name() string {
	return "markdown"
}

// Extensions returns the handled file extensions
func (f *Format) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Open reads and parses the Markdown file at path.
func (f *Format) Open(path string) (document.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown file: %w", err)
	}
	return f.Parse(src), nil
}

// span is the byte range of one prose block in the source.
type span struct {
	start, stop int
	// continuation is written after every newline of a replacement so the
	// text stays inside its block quote or list item.
	continuation string
	newline      string // "\n" or "\r\n", as used by the source
	heading      bool
}

// Document is a parsed Markdown file.
type Document struct {
	src      []byte
	spans    []span
	segments []document.Segment
	replaced map[int]string
}

// Parse splits src into prose segments.
func (f *Format) Parse(src []byte) *Document {
	d := &Document{src: src, replaced: make(map[int]string)}

	offset := frontMatterEnd(src)
	body := src[offset:]
	root := f.md.Parser().Parse(text.NewReader(body))

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			d.addBlock(n, body, offset)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return d
}

func (d *Document) addBlock(n ast.Node, body []byte, offset int) {
	lines := n.Lines()
	if lines.Len() == 0 {
		return
	}

	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimRight(string(seg.Value(body)), "\r\n"))
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)

	_, heading := n.(*ast.Heading)
	trailing := "\r\n"
	if heading {
		// The space before closing "##" belongs to the marker.
		trailing = "\r\n \t"
		parts[len(parts)-1] = strings.TrimRight(parts[len(parts)-1], " \t")
	}

	start := offset + first.Start
	stop := offset + last.Stop
	for stop > start && strings.IndexByte(trailing, d.src[stop-1]) >= 0 {
		stop--
	}
	if stop <= start {
		return
	}

	d.spans = append(d.spans, span{
		start:        start,
		stop:         stop,
		continuation: continuationPrefix(d.src, start),
		newline:      lineEnding(d.src),
		heading:      heading,
	})
	d.segments = append(d.segments, document.Segment{
		Index:    len(d.segments),
		Text:     strings.Join(parts, "\n"),
		Location: fmt.Sprintf("line %d", bytes.Count(d.src[:start], []byte("\n"))+1),
	})
}

// Segments returns the prose blocks in document order
func (d *Document) Segments() []document.Segment {
	return d.segments
}

// Replace sets the translated text of segment index
func (d *Document) Replace(index int, text string) error {
	if err := document.CheckIndex(index, len(d.segments)); err != nil {
		return err
	}
	d.replaced[index] = text
	return nil
}

// Bytes renders the document with all replacements applied.
func (d *Document) Bytes() []byte {
	var out bytes.Buffer
	out.Grow(len(d.src))

	prev := 0
	for i, sp := range d.spans {
		out.Write(d.src[prev:sp.start])
		if text, ok := d.replaced[i]; ok {
			out.WriteString(sp.render(text))
		} else {
			out.Write(d.src[sp.start:sp.stop])
		}
		prev = sp.stop
	}
	out.Write(d.src[prev:])

	return out.Bytes()
}

// Save writes the rendered document to path
func (d *Document) Save(path string) error {
	return document.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(d.Bytes())
		return err
	})
}

func (sp span) render(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if sp.heading {
		return strings.Join(strings.Fields(text), " ")
	}
	return strings.ReplaceAll(text, "\n", sp.newline+sp.continuation)
}

// lineEnding returns the line ending of the first line of src.
func lineEnding(src []byte) string {
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// continuationPrefix derives the line prefix that keeps a continuation
// line inside the same container as the line holding pos: quote markers
// and tabs are kept, list markers and other characters become spaces.
func continuationPrefix(src []byte, pos int) string {
	lineStart := bytes.LastIndexByte(src[:pos], '\n') + 1
	prefix := append([]byte(nil), src[lineStart:pos]...)
	for i, c := range prefix {
		if c != '>' && c != '\t' {
			prefix[i] = ' '
		}
	}
	return string(prefix)
}

// frontMatterEnd returns the length of a leading YAML front matter block
// ("---" fenced), or 0 when there is none.
func frontMatterEnd(src []byte) int {
	const fence = "---"
	firstEnd := bytes.IndexByte(src, '\n')
	if firstEnd < 0 || strings.TrimRight(string(src[:firstEnd]), "\r ") != fence {
		return 0
	}

	pos := firstEnd + 1
	for pos < len(src) {
		end := bytes.IndexByte(src[pos:], '\n')
		lineEnd := len(src)
		next := len(src)
		if end >= 0 {
			lineEnd = pos + end
			next = lineEnd + 1
		}
		line := strings.TrimRight(string(src[pos:lineEnd]), "\r ")
		if line == fence || line == "..." {
			return next
		}
		pos = next
	}
	return 0
}
