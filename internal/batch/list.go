package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one document of a batch list
type Entry struct {
	Path string
	// TargetLang overrides the default target language when set
	TargetLang string
	// Line is the 1-based line number in the batch file
	Line int
}

// ReadBatchFile reads document entries from a batch list file.
// Supports formats:
//   - Path only: "docs/guide.md" (uses the default target language)
//   - With language: "docs/guide.md = German"
//
// Blank lines and lines starting with '#' are ignored. Relative paths are
// resolved against the directory of the batch file.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	baseDir := filepath.Dir(filename)
	var entries []Entry

	for i, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		path, lang, _ := strings.Cut(line, "=")
		path = strings.TrimSpace(path)
		lang = strings.TrimSpace(lang)
		if path == "" {
			return nil, fmt.Errorf("%s:%d: missing document path", filename, i+1)
		}

		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		entries = append(entries, Entry{
			Path:       path,
			TargetLang: lang,
			Line:       i + 1,
		})
	}

	return entries, nil
}

// splitLines splits s on newlines, dropping carriage returns and a final
// empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r", "")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
