package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"codeberg.org/snonux/doctrans/internal"
	"codeberg.org/snonux/doctrans/internal/batch"
	"codeberg.org/snonux/doctrans/internal/cli"
	"codeberg.org/snonux/doctrans/internal/document"
	"codeberg.org/snonux/doctrans/internal/docx"
	"codeberg.org/snonux/doctrans/internal/markdown"
	"codeberg.org/snonux/doctrans/internal/pdf"
)

// ErrInputNotFound is returned when the input path does not name a
// regular file.
var ErrInputNotFound = errors.New("input file not found")

const previewLength = 60

// Translator translates one text segment.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Processor handles the main document processing logic
type Processor struct {
	flags      *cli.Flags
	translator Translator
	registry   *document.Registry
	out        io.Writer
}

// NewProcessor creates a new document processor. translator may be nil
// for dry runs.
func NewProcessor(flags *cli.Flags, translator Translator) *Processor {
	return &Processor{
		flags:      flags,
		translator: translator,
		registry:   NewRegistry(flags.PDFFont),
		out:        os.Stdout,
	}
}

// NewRegistry returns a registry with all supported formats.
func NewRegistry(pdfFont string) *document.Registry {
	return document.NewRegistry(
		markdown.NewFormat(),
		docx.NewFormat(),
		pdf.NewFormat(pdfFont),
	)
}

// Process translates one document into the configured target
// language and returns the output path. Dry runs return an empty path.
func (p *Processor) Process(ctx context.Context, input string) (string, error) {
	return p.process(ctx, input, p.flags.TargetLang)
}

// ProcessBatch translates every document listed in the batch file. A
// failing entry is reported and the remaining entries are still
// processed; the returned error counts the failures.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	// Track statistics
	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		lang := entry.TargetLang
		if lang == "" {
			lang = p.flags.TargetLang
		}

		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Path)
		if _, err := p.process(ctx, entry.Path, lang); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing '%s': %v\n", entry.Path, err)
			slog.Debug("Batch entry failed", "file", entry.Path, "line", entry.Line, "error", err)
			errorCount++
			// Continue with next document
			continue
		}
		processedCount++
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total documents: %d\n", len(entries))
	fmt.Fprintf(p.out, "Processed: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "================================\n")

	if errorCount > 0 {
		return fmt.Errorf("%d of %d documents failed", errorCount, len(entries))
	}
	return nil
}

func (p *Processor) process(ctx context.Context, input, targetLang string) (string, error) {
	if err := checkInput(input); err != nil {
		return "", err
	}

	format, err := p.registry.Lookup(input)
	if err != nil {
		return "", err
	}

	doc, err := format.Open(input)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", input, err)
	}
	segments := doc.Segments()

	if p.flags.DryRun {
		p.listSegments(input, format, segments)
		return "", nil
	}
	if p.translator == nil {
		return "", errors.New("no translator configured")
	}

	total := 0
	for _, seg := range segments {
		if !internal.IsBlank(seg.Text) {
			total++
		}
	}

	fmt.Fprintf(p.out, "Starting translation for: %s\n", input)
	fmt.Fprintf(p.out, "  Format: %s, segments: %d\n", format.Name(), total)
	fmt.Fprintf(p.out, "  Target language: %s\n", targetLang)

	done := 0
	for _, seg := range segments {
		if internal.IsBlank(seg.Text) {
			continue
		}
		done++
		fmt.Fprintf(p.out, "  [%d/%d] %s: %s\n", done, total, seg.Location, internal.Preview(seg.Text, previewLength))

		translated, err := p.translator.Translate(ctx, seg.Text, targetLang)
		if err != nil {
			return "", fmt.Errorf("failed to translate %s: %w", seg.Location, err)
		}
		if err := doc.Replace(seg.Index, translated); err != nil {
			return "", err
		}
	}

	output := document.TranslatedPath(input)
	if err := doc.Save(output); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", output, err)
	}

	slog.Debug("Saved translation", "input", input, "output", output, "segments", total)
	fmt.Fprintf(p.out, "Translation completed successfully!\n")
	fmt.Fprintf(p.out, "Output saved to: %s\n", output)
	return output, nil
}

func (p *Processor) listSegments(input string, format document.Format, segments []document.Segment) {
	fmt.Fprintf(p.out, "%s (%s)\n", input, format.Name())
	n := 0
	for _, seg := range segments {
		if internal.IsBlank(seg.Text) {
			continue
		}
		n++
		fmt.Fprintf(p.out, "  %s: %s\n", seg.Location, internal.Preview(seg.Text, previewLength))
	}
	fmt.Fprintf(p.out, "%d segments would be translated\n", n)
}

func checkInput(input string) error {
	info, err := os.Stat(input)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: '%s'", ErrInputNotFound, input)
	}
	if err != nil {
		return fmt.Errorf("failed to check input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: '%s' is a directory", ErrInputNotFound, input)
	}
	return nil
}
