package translation

import "strings"

// DefaultModel is the tier preset used when none is configured.
const DefaultModel = "flash"

// Presets maps friendly tier names to provider model identifiers.
var Presets = map[string]string{
	"flash": "gemini-2.0-flash",
	"pro":   "gemini-2.5-pro",
}

// ResolveModel maps a tier preset to its model identifier. Names that are
// not presets are returned verbatim so any model id can be used directly.
func ResolveModel(name string) string {
	if id, ok := Presets[strings.ToLower(strings.TrimSpace(name))]; ok {
		return id
	}
	return name
}
