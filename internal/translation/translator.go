package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codeberg.org/snonux/doctrans/internal"
)

// Backend names accepted in Config.Backend.
const (
	BackendGenAI  = "genai"
	BackendOpenAI = "openai"
)

// Generator sends one prompt to a text-generation model and returns the
// raw response text.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)

	// Name returns the backend name
	Name() string
}

// Config holds the settings needed to build a Translator
type Config struct {
	APIKey  string
	Model   string // tier preset ("flash", "pro") or literal model id
	Backend string // "genai" (default) or "openai"
	BaseURL string // endpoint override for the openai backend

	// Policy overrides DefaultPolicy when set.
	Policy *Policy
	Logger *slog.Logger
}

// Translator translates text segments through a Generator, retrying
// transient provider errors according to its Policy.
type Translator struct {
	generator Generator
	model     string
	policy    Policy
	logger    *slog.Logger
}

// NewTranslator validates cfg and builds a Translator for the configured
// backend. A missing API key fails before any network activity.
func NewTranslator(ctx context.Context, cfg Config) (*Translator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	var (
		gen Generator
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case "", BackendGenAI:
		gen, err = NewGeminiGenerator(ctx, cfg.APIKey)
	case BackendOpenAI:
		gen = NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown provider backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	policy := DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	return New(gen, cfg.Model, policy, cfg.Logger), nil
}

// New builds a Translator around an existing Generator.
func New(gen Generator, model string, policy Policy, logger *slog.Logger) *Translator {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	t := &Translator{
		generator: gen,
		model:     ResolveModel(model),
		policy:    policy,
		logger:    logger,
	}
	if t.policy.OnRetry == nil {
		t.policy.OnRetry = t.logRetry
	}
	return t
}

// Model returns the resolved provider model identifier.
func (t *Translator) Model() string {
	return t.model
}

// Backend returns the name of the underlying generator.
func (t *Translator) Backend() string {
	return t.generator.Name()
}

// Translate translates text into targetLang. Blank text is returned as is
// without contacting the provider.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if internal.IsBlank(text) {
		return text, nil
	}

	prompt := BuildPrompt(text, targetLang)
	out, err := Do(ctx, t.policy, func(ctx context.Context) (string, error) {
		return t.generator.Generate(ctx, t.model, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("%s (%s): %w", t.generator.Name(), t.model, err)
	}

	return strings.TrimSpace(out), nil
}

func (t *Translator) logRetry(attempt int, wait time.Duration, err error) {
	t.logger.Warn("transient provider error, retrying",
		"model", t.model,
		"attempt", attempt,
		"maxAttempts", t.policy.MaxAttempts,
		"wait", wait,
		"error", err)
}
