package pdf

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"

	"codeberg.org/snonux/doctrans/internal/document"
)

const (
	bodyFontSize    = 11.0
	headingFontSize = 14.0
	lineHeight      = 5.5 // mm
	blockSpacing    = 3.0 // mm
	coreFontFamily  = "Helvetica"
	utf8FontFamily  = "doctrans"
)

// ErrFontRequired is returned when text cannot be drawn with the built-in font.
var ErrFontRequired = errors.New("text contains characters outside the built-in PDF font (cp1252); set --pdf-font to a TrueType font")

// Format opens PDF files.
type Format struct {
	// FontFile is a TrueType font used for the translated output. Without
	// it the built-in Helvetica is used, which only covers Latin-1 text.
	FontFile string
}

// NewFormat creates the PDF format. fontFile may be empty.
func NewFormat(fontFile string) *Format {
	return &Format{FontFile: fontFile}
}

// Name returns the format name
func (f *Format) Name() string {
	return "pdf"
}

// Extensions returns the handled file extensions
func (f *Format) Extensions() []string {
	return []string{".pdf"}
}

// Open validates the PDF and extracts its text blocks.
func (f *Format) Open(path string) (document.Document, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, cfg); err != nil {
		return nil, fmt.Errorf("invalid pdf %s: %w", path, err)
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages of %s: %w", path, err)
	}

	pages, err := extractPages(path)
	if err != nil {
		return nil, err
	}

	d := &Document{
		title:     filepath.Base(path),
		fontFile:  f.FontFile,
		pageCount: pageCount,
		pages:     pages,
		replaced:  make(map[int]string),
	}
	for _, p := range pages {
		for i, b := range p.blocks {
			d.segments = append(d.segments, document.Segment{
				Index:    len(d.segments),
				Text:     b.text,
				Location: fmt.Sprintf("page %d block %d", p.number, i+1),
			})
		}
	}

	slog.Debug("Extracted PDF text", "file", path, "pages", pageCount,
		"textPages", len(pages), "blocks", len(d.segments))

	return d, nil
}

// Document is an extracted PDF.
type Document struct {
	title     string
	fontFile  string
	pageCount int
	pages     []pageText
	segments  []document.Segment
	replaced  map[int]string
}

// PageCount returns the number of pages in the source file.
func (d *Document) PageCount() int {
	return d.pageCount
}

// Segments returns the text blocks in page order.
func (d *Document) Segments() []document.Segment {
	return d.segments
}

// Replace sets the text of block index.
func (d *Document) Replace(index int, text string) error {
	if err := document.CheckIndex(index, len(d.segments)); err != nil {
		return err
	}
	d.replaced[index] = text
	return nil
}

// Save renders the blocks, translated where replaced, to a new PDF.
func (d *Document) Save(path string) error {
	out, err := d.render()
	if err != nil {
		return err
	}
	return document.WriteFileAtomic(path, func(w io.Writer) error {
		if err := out.Output(w); err != nil {
			return fmt.Errorf("failed to write pdf: %w", err)
		}
		return nil
	})
}

func (d *Document) render() (*fpdf.Fpdf, error) {
	out := fpdf.New("P", "mm", "A4", "")
	out.SetTitle(d.title, true)
	out.SetCreator("doctrans", true)

	family := coreFontFamily
	encode := out.UnicodeTranslatorFromDescriptor("")
	if d.fontFile != "" {
		out.AddUTF8Font(utf8FontFamily, "", d.fontFile)
		family = utf8FontFamily
		encode = func(s string) string { return s }
	}
	out.SetFont(family, "", bodyFontSize)
	if err := out.Error(); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	core := d.fontFile == ""
	body := medianSize(d.pages)
	next := 0
	for _, p := range d.pages {
		out.AddPage()
		for _, b := range p.blocks {
			text := b.text
			if t, ok := d.replaced[next]; ok {
				text = t
			}
			next++
			if core {
				if r, ok := unencodable(text); ok {
					return nil, fmt.Errorf("page %d: %q: %w", p.number, r, ErrFontRequired)
				}
			}

			size := bodyFontSize
			if body > 0 && b.size >= body*fontSizeRatio {
				size = headingFontSize
			}
			out.SetFontSize(size)
			out.MultiCell(0, lineHeight*size/bodyFontSize, encode(text), "", "L", false)
			out.Ln(blockSpacing)
		}
	}

	if err := out.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return out, nil
}

// unencodable returns the first rune of s missing from Windows-1252.
func unencodable(s string) (rune, bool) {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return r, true
		}
	}
	return 0, false
}
