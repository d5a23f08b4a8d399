package pdf

import (
	"fmt"
	"math"
	"sort"
	"strings"

	pdfread "github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

const (
	// A vertical gap larger than this many font sizes starts a new block.
	blockGapFactor = 1.6
	// Font size changes beyond this ratio start a new block (headings).
	fontSizeRatio = 1.2
	// A horizontal gap wider than this many font sizes separates words.
	wordGapFactor = 0.2
)

// textLine is one visual line of glyphs.
type textLine struct {
	y    float64
	size float64
	text string
}

// block is a run of consecutive lines forming one paragraph.
type block struct {
	size float64
	text string
}

// pageText holds the blocks of one source page.
type pageText struct {
	number int
	blocks []block
}

// extractPages reads the text layer of every page. Pages without text are
// omitted.
func extractPages(path string) ([]pageText, error) {
	f, r, err := pdfread.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var pages []pageText
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		lines, err := pageLines(p)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if blocks := groupBlocks(lines); len(blocks) > 0 {
			pages = append(pages, pageText{number: i, blocks: blocks})
		}
	}

	return pages, nil
}

// pageLines groups the page's glyphs into lines by baseline.
func pageLines(p pdfread.Page) (lines []textLine, err error) {
	// The content interpreter panics on malformed streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()

	return assembleLines(p.Content().Text), nil
}

// assembleLines joins glyphs sharing a baseline into lines. Writers that
// position words separately instead of emitting space glyphs leave a
// horizontal gap; a gap wider than wordGapFactor font sizes becomes a space.
func assembleLines(glyphs []pdfread.Text) []textLine {
	var lines []textLine
	var cur *textLine
	var b strings.Builder
	var end float64

	flush := func() {
		if cur == nil {
			return
		}
		cur.text = strings.TrimSpace(b.String())
		if cur.text != "" {
			lines = append(lines, *cur)
		}
		cur = nil
		b.Reset()
	}

	for _, t := range glyphs {
		tolerance := math.Max(t.FontSize*0.5, 1)
		if cur == nil || math.Abs(t.Y-cur.y) > tolerance {
			flush()
			cur = &textLine{y: t.Y, size: t.FontSize}
		} else if t.X-end > t.FontSize*wordGapFactor && !spaceAt(b.String(), t.S) {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		end = t.X + t.W
	}
	flush()

	return lines
}

// spaceAt reports whether joining prev and next already yields whitespace.
func spaceAt(prev, next string) bool {
	return strings.HasSuffix(prev, " ") || strings.HasPrefix(next, " ")
}

// groupBlocks merges consecutive lines into paragraphs, splitting on
// large vertical gaps, upward jumps (new column) and font size changes.
func groupBlocks(lines []textLine) []block {
	var blocks []block
	var parts []string
	var size float64

	flush := func() {
		if len(parts) == 0 {
			return
		}
		blocks = append(blocks, block{
			size: size,
			text: norm.NFC.String(joinLines(parts)),
		})
		parts = nil
	}

	for i, l := range lines {
		if i > 0 {
			prev := lines[i-1]
			gap := prev.y - l.y
			ref := math.Max(math.Max(prev.size, l.size), 1)
			if gap > ref*blockGapFactor || gap < -ref*0.5 || !similarSize(prev.size, l.size) {
				flush()
			}
		}
		if len(parts) == 0 {
			size = l.size
		}
		parts = append(parts, l.text)
	}
	flush()

	return blocks
}

// joinLines joins wrapped lines with spaces, rejoining words hyphenated
// across a line break.
func joinLines(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			prev := parts[i-1]
			if strings.HasSuffix(prev, "-") && !strings.HasSuffix(prev, " -") && len(prev) > 1 {
				s := b.String()
				b.Reset()
				b.WriteString(strings.TrimSuffix(s, "-"))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(p)
	}
	return b.String()
}

func similarSize(a, b float64) bool {
	if a <= 0 || b <= 0 {
		return true
	}
	return math.Max(a, b)/math.Min(a, b) <= fontSizeRatio
}

// medianSize returns the median block font size across pages, used as
// the body text size.
func medianSize(pages []pageText) float64 {
	var sizes []float64
	for _, p := range pages {
		for _, b := range p.blocks {
			if b.size > 0 {
				sizes = append(sizes, b.size)
			}
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	sort.Float64s(sizes)
	return sizes[len(sizes)/2]
}
