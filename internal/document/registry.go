package document

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Registry maps file extensions to formats.
type Registry struct {
	formats map[string]Format
}

// NewRegistry creates a registry holding formats.
func NewRegistry(formats ...Format) *Registry {
	r := &Registry{formats: make(map[string]Format)}
	for _, f := range formats {
		r.Register(f)
	}
	return r
}

// Register adds f under each of its extensions, replacing earlier entries.
func (r *Registry) Register(f Format) {
	for _, ext := range f.Extensions() {
		r.formats[strings.ToLower(ext)] = f
	}
}

// Lookup returns the format for path's extension.
func (r *Registry) Lookup(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := r.formats[ext]; ok {
		return f, nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return nil, fmt.Errorf("%w '%s'. Supported formats: %s",
		ErrUnsupportedFormat, ext, strings.Join(r.Extensions(), ", "))
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.formats))
	for ext := range r.formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
