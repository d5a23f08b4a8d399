package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"codeberg.org/snonux/doctrans/internal/document"
)

// Format opens Word documents.
type Format struct{}

// NewFormat creates the DOCX format.
func NewFormat() *Format {
	return &Format{}
}

// Name returns the format name
func (f *Format) Name() string {
	return "docx"
}

// Extensions returns the handled file extensions
func (f *Format) Extensions() []string {
	return []string{".docx"}
}

// Open reads the package at path and indexes its paragraphs.
func (f *Format) Open(path string) (document.Document, error) {
	zr, partName, data, err := readPackage(path)
	if err != nil {
		return nil, err
	}

	body, cells, err := scanParagraphs(data)
	if err != nil {
		return nil, err
	}

	d := &Document{
		zr:         zr,
		partName:   partName,
		xml:        data,
		paragraphs: append(body, cells...),
		replaced:   make(map[int]string),
	}
	d.segments = make([]document.Segment, len(d.paragraphs))
	for i, p := range d.paragraphs {
		d.segments[i] = document.Segment{
			Index:    i,
			Text:     p.text.String(),
			Location: p.location,
		}
	}

	return d, nil
}

// Document is an opened Word package.
type Document struct {
	zr         *zip.Reader
	partName   string
	xml        []byte
	paragraphs []*paragraph
	segments   []document.Segment
	replaced   map[int]string
}

// Segments returns body paragraphs followed by table cell paragraphs
func (d *Document) Segments() []document.Segment {
	return d.segments
}

// Replace sets the text of paragraph index
func (d *Document) Replace(index int, text string) error {
	if err := document.CheckIndex(index, len(d.segments)); err != nil {
		return err
	}
	d.replaced[index] = text
	return nil
}

// DocumentXML renders the main document part with all replacements.
func (d *Document) DocumentXML() []byte {
	indexes := make([]int, 0, len(d.replaced))
	for i := range d.replaced {
		indexes = append(indexes, i)
	}
	sort.Slice(indexes, func(a, b int) bool {
		return d.paragraphs[indexes[a]].start < d.paragraphs[indexes[b]].start
	})

	var out bytes.Buffer
	out.Grow(len(d.xml))
	prev := 0
	for _, i := range indexes {
		p := d.paragraphs[i]
		if p.selfClosing() {
			// Expand <w:p/> so the run lands inside the paragraph.
			out.Write(d.xml[prev : p.end-len("/>")])
			out.WriteString(">")
			writeRun(&out, p.prefix, d.replaced[i])
			out.WriteString("</" + qname(p.prefix, "p") + ">")
			prev = p.end
			continue
		}
		out.Write(d.xml[prev:p.contentStart])
		writeRun(&out, p.prefix, d.replaced[i])
		prev = p.endTagStart
	}
	out.Write(d.xml[prev:])

	return out.Bytes()
}

// Save writes a new package to path, copying every part except the main
// document part unchanged.
func (d *Document) Save(path string) error {
	return document.WriteFileAtomic(path, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		for _, f := range d.zr.File {
			if f.Name != d.partName {
				if err := zw.Copy(f); err != nil {
					return fmt.Errorf("copying %s: %w", f.Name, err)
				}
				continue
			}

			part, err := zw.CreateHeader(&zip.FileHeader{
				Name:     f.Name,
				Method:   zip.Deflate,
				Modified: f.Modified,
			})
			if err != nil {
				return fmt.Errorf("writing %s: %w", f.Name, err)
			}
			if _, err := part.Write(d.DocumentXML()); err != nil {
				return fmt.Errorf("writing %s: %w", f.Name, err)
			}
		}
		return zw.Close()
	})
}

// qname qualifies name with a namespace prefix.
func qname(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + ":" + name
}

// writeRun writes text as one w:r, encoding tabs and line breaks as
// w:tab and w:br elements.
func writeRun(out *bytes.Buffer, prefix, text string) {
	tag := func(name string) string { return qname(prefix, name) }

	out.WriteString("<" + tag("r") + ">")
	var pending strings.Builder
	flush := func() {
		if pending.Len() == 0 {
			return
		}
		out.WriteString("<" + tag("t") + ` xml:space="preserve">`)
		xml.EscapeText(out, []byte(pending.String()))
		out.WriteString("</" + tag("t") + ">")
		pending.Reset()
	}

	for _, r := range text {
		switch r {
		case '\t':
			flush()
			out.WriteString("<" + tag("tab") + "/>")
		case '\n':
			flush()
			out.WriteString("<" + tag("br") + "/>")
		case '\r':
		default:
			pending.WriteRune(r)
		}
	}
	flush()
	out.WriteString("</" + tag("r") + ">")
}
