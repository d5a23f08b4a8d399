package testutil

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator mocks a text-generation backend. Errors are returned in
// order for the first calls; after that the prompt's text is answered
// with Prefix prepended.
type MockGenerator struct {
	Errors []error
	Prefix string
	Calls  []string
}

// Generate mocks a model call and records the prompt
func (m *MockGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	m.Calls = append(m.Calls, prompt)

	if n := len(m.Calls); n <= len(m.Errors) && m.Errors[n-1] != nil {
		return "", m.Errors[n-1]
	}

	// Models tend to pad answers; callers must trim.
	return fmt.Sprintf("  %s%s\n", m.Prefix, PromptText(prompt)), nil
}

// Name returns the mock backend name
func (m *MockGenerator) Name() string {
	return "mock"
}

// PromptText returns the text under translation in a rendered prompt.
func PromptText(prompt string) string {
	const marker = "\n\nText: "
	if i := strings.Index(prompt, marker); i >= 0 {
		return prompt[i+len(marker):]
	}
	return prompt
}

// MockTranslator mocks the translation client used by document handlers
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
	Languages    []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	m.Calls = append(m.Calls, text)
	m.Languages = append(m.Languages, targetLang)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	// Default mock translation
	return "T:" + text, nil
}
