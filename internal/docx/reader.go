package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

const (
	defaultMainPart      = "word/document.xml"
	officeDocumentRelSfx = "/officeDocument"
)

// paragraph is the location of one w:p element inside the main part.
type paragraph struct {
	start        int // offset of "<w:p"
	contentStart int // offset after the start tag and w:pPr
	endTagStart  int // offset of "</w:p>"
	end          int
	prefix       string // namespace prefix, normally "w"
	text         strings.Builder
	location     string
}

// selfClosing reports whether the element was written as <w:p/>.
func (p *paragraph) selfClosing() bool {
	return p.endTagStart == p.end
}

type relationshipsXML struct {
	Relationships []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// readPackage loads the zip package at filename and returns it together
// with the name and content of its main document part.
func readPackage(filename string) (*zip.Reader, string, []byte, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to read docx file: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, "", nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	if findFile(zr, "[Content_Types].xml") == nil {
		return nil, "", nil, fmt.Errorf("missing required file: [Content_Types].xml")
	}

	partName := mainPartName(zr)
	f := findFile(zr, partName)
	if f == nil {
		return nil, "", nil, fmt.Errorf("missing required file: %s", partName)
	}

	data, err := readZipFile(f)
	if err != nil {
		return nil, "", nil, fmt.Errorf("reading %s: %w", partName, err)
	}

	return zr, partName, data, nil
}

// mainPartName resolves the officeDocument relationship in _rels/.rels,
// falling back to word/document.xml.
func mainPartName(zr *zip.Reader) string {
	f := findFile(zr, "_rels/.rels")
	if f == nil {
		return defaultMainPart
	}
	data, err := readZipFile(f)
	if err != nil {
		return defaultMainPart
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return defaultMainPart
	}
	for _, rel := range rels.Relationships {
		if strings.HasSuffix(rel.Type, officeDocumentRelSfx) && rel.Target != "" {
			return path.Clean(strings.TrimPrefix(rel.Target, "/"))
		}
	}
	return defaultMainPart
}

func findFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// scanParagraphs locates the body paragraphs and the paragraphs of
// top-level table cells in a WordprocessingML main part. Paragraphs nested
// deeper (text boxes, nested tables, content controls) are not returned.
func scanParagraphs(data []byte) (body, cells []*paragraph, err error) {
	d := xml.NewDecoder(bytes.NewReader(data))

	var (
		stack    []string
		cur      *paragraph
		curDepth int
		nested   int
		inText   bool

		table, row, cell, cellPara int
	)

	for {
		off := int(d.InputOffset())
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parsing document XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			depth := len(stack)

			if cur == nil {
				switch {
				case t.Name.Local == "tbl" && inBody(stack, depth):
					table++
					row = 0
				case t.Name.Local == "tr" && depth == 4 && inTable(stack):
					row++
					cell = 0
				case t.Name.Local == "tc" && depth == 5 && inTable(stack):
					cell++
					cellPara = 0
				case t.Name.Local == "p" && inBody(stack, depth):
					cur = &paragraph{location: fmt.Sprintf("paragraph %d", len(body)+1)}
					body = append(body, cur)
				case t.Name.Local == "p" && depth == 6 && inTable(stack) && stack[4] == "tc":
					cellPara++
					cur = &paragraph{location: fmt.Sprintf("table %d row %d cell %d paragraph %d", table, row, cell, cellPara)}
					cells = append(cells, cur)
				}
				if cur != nil {
					cur.start = off
					cur.contentStart = int(d.InputOffset())
					cur.prefix = t.Name.Space
					curDepth = depth
					nested = 0
				}
				continue
			}

			if t.Name.Local == "p" {
				nested++
			}
			if nested > 0 || stack[depth-2] != "r" {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				cur.text.WriteByte('\t')
			case "br", "cr":
				cur.text.WriteByte('\n')
			}

		case xml.EndElement:
			depth := len(stack)
			if depth == 0 {
				return nil, nil, fmt.Errorf("parsing document XML: unexpected </%s>", t.Name.Local)
			}
			if cur != nil {
				switch {
				case depth == curDepth:
					cur.endTagStart = off
					cur.end = int(d.InputOffset())
					cur = nil
				case t.Name.Local == "p" && nested > 0:
					nested--
				case t.Name.Local == "t":
					inText = false
				case t.Name.Local == "pPr" && depth == curDepth+1:
					cur.contentStart = int(d.InputOffset())
				}
			}
			stack = stack[:depth-1]

		case xml.CharData:
			if cur != nil && inText && nested == 0 {
				cur.text.Write(t)
			}
		}
	}

	if cur != nil || len(stack) != 0 {
		return nil, nil, fmt.Errorf("parsing document XML: unexpected end of document")
	}
	return body, cells, nil
}

// inBody reports whether the element at depth is a direct child of w:body.
func inBody(stack []string, depth int) bool {
	return depth == 3 && stack[0] == "document" && stack[1] == "body"
}

func inTable(stack []string) bool {
	return len(stack) >= 4 && stack[0] == "document" && stack[1] == "body" &&
		stack[2] == "tbl" && stack[3] == "tr"
}
