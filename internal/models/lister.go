package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/doctrans/internal/translation"
)

const generateAction = "generateContent"

// Lister handles listing available Gemini models
type Lister struct {
	client *genai.Client
}

// NewLister creates a new model lister
func NewLister(ctx context.Context, apiKey string) (*Lister, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, translation.ErrMissingAPIKey
	}
	return newLister(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func newLister(ctx context.Context, cfg *genai.ClientConfig) (*Lister, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Lister{client: client}, nil
}

// ListAvailableModels prints the tier presets and all models supporting
// text generation, grouped into flash, pro and other models.
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	// Categorize models
	flashModels := []string{}
	proModels := []string{}
	otherModels := []string{}

	for model, err := range l.client.Models.All(ctx) {
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		if !supports(model, generateAction) {
			continue
		}

		id := strings.TrimPrefix(model.Name, "models/")
		switch {
		case strings.Contains(id, "flash"):
			flashModels = append(flashModels, id)
		case strings.Contains(id, "pro"):
			proModels = append(proModels, id)
		default:
			otherModels = append(otherModels, id)
		}
	}

	// Sort models
	sort.Strings(flashModels)
	sort.Strings(proModels)
	sort.Strings(otherModels)

	fmt.Fprintln(w, "Model presets:")
	presets := make([]string, 0, len(translation.Presets))
	for name := range translation.Presets {
		presets = append(presets, name)
	}
	sort.Strings(presets)
	for _, name := range presets {
		fmt.Fprintf(w, "  %-6s -> %s\n", name, translation.Presets[name])
	}

	printGroup(w, "Flash models", flashModels)
	printGroup(w, "Pro models", proModels)
	printGroup(w, "Other models", otherModels)

	return nil
}

func printGroup(w io.Writer, title string, models []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(models) == 0 {
		fmt.Fprintln(w, "  none found")
		return
	}
	for _, m := range models {
		fmt.Fprintf(w, "  %s\n", m)
	}
}

func supports(model *genai.Model, action string) bool {
	for _, a := range model.SupportedActions {
		if a == action {
			return true
		}
	}
	return false
}
