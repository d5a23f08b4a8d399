package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// TranslatedSuffix is inserted before the extension of output files.
const TranslatedSuffix = "_translated"

var (
	// ErrUnsupportedFormat is returned for file extensions no format handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrSegmentIndex is returned when Replace is called with an index
	// outside the document's segment list.
	ErrSegmentIndex = errors.New("segment index out of range")
)

// Segment is one unit of translatable text.
type Segment struct {
	Index    int    // position in Document.Segments
	Text     string // source text
	Location string // human readable position, e.g. "table 1 row 2 cell 1 paragraph 1"
}

// Document is a parsed, mutable document.
type Document interface {
	// Segments returns the text segments in document order.
	Segments() []Segment

	// Replace sets the text of the segment at index.
	Replace(index int, text string) error

	// Save writes the document to path. The source file is never modified.
	Save(path string) error
}

// Format opens documents of one file type.
type Format interface {
	// Name returns the format name
	Name() string

	// Extensions returns the lower-case file extensions handled, with dot.
	Extensions() []string

	// Open parses the file at path.
	Open(path string) (Document, error)
}

// TranslatedPath derives the output path for input: the same directory,
// with "_translated" inserted before the extension.
func TranslatedPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + TranslatedSuffix + ext
}

// CheckIndex validates index against a segment count of n.
func CheckIndex(index, n int) error {
	if index < 0 || index >= n {
		return fmt.Errorf("%w: %d (have %d)", ErrSegmentIndex, index, n)
	}
	return nil
}
