package cli

import "codeberg.org/snonux/doctrans/internal/translation"

// DefaultTargetLang is the translation target when none is configured.
const DefaultTargetLang = "Traditional Chinese"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	BatchFile  string
	DryRun     bool
	ListModels bool
	Verbose    bool

	// Translation flags
	TargetLang string
	Model      string
	APIKey     string

	// Provider flags
	Backend string
	BaseURL string

	// PDF flags
	PDFFont string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		TargetLang: DefaultTargetLang,
		Model:      translation.DefaultModel,
		Backend:    translation.BackendGenAI,
	}
}
