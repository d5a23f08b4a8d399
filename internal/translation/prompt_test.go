package translation

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("Hello, world.", "German")

	want := "Translate the following text into German. Maintain the original tone and style. " +
		"Do not add any explanations or extra text. Just provide the translation.\n\nText: Hello, world."
	if got != want {
		t.Errorf("BuildPrompt() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildPromptKeepsTextVerbatim(t *testing.T) {
	text := "line one\n\n  indented *markdown* {braces} %d"
	got := BuildPrompt(text, "Traditional Chinese")

	if !strings.HasSuffix(got, "Text: "+text) {
		t.Errorf("BuildPrompt() did not end with the source text: %q", got)
	}
	if !strings.Contains(got, "into Traditional Chinese.") {
		t.Errorf("BuildPrompt() missing target language: %q", got)
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"flash", "gemini-2.0-flash"},
		{"pro", "gemini-2.5-pro"},
		{"  Flash ", "gemini-2.0-flash"},
		{"PRO", "gemini-2.5-pro"},
		{"gemini-1.5-pro-002", "gemini-1.5-pro-002"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveModel(tt.name); got != tt.want {
				t.Errorf("ResolveModel(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestDefaultModelIsPreset(t *testing.T) {
	if _, ok := Presets[DefaultModel]; !ok {
		t.Errorf("DefaultModel %q is not a preset", DefaultModel)
	}
}
