package processor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"codeberg.org/snonux/doctrans/internal/cli"
	"codeberg.org/snonux/doctrans/internal/document"
	"codeberg.org/snonux/doctrans/internal/docx"
	"codeberg.org/snonux/doctrans/internal/pdf"
	"codeberg.org/snonux/doctrans/internal/testutil"
	"codeberg.org/snonux/doctrans/internal/translation"
)

func newTestProcessor(flags *cli.Flags, tr Translator) (*Processor, *bytes.Buffer) {
	p := NewProcessor(flags, tr)
	var out bytes.Buffer
	p.out = &out
	return p, &out
}

func TestNewProcessor(t *testing.T) {
	flags := cli.NewFlags()
	tr := &testutil.MockTranslator{}
	p := NewProcessor(flags, tr)

	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
	if p.flags != flags {
		t.Error("Processor flags not set correctly")
	}
	if p.registry == nil {
		t.Fatal("Registry not initialized")
	}

	want := []string{".docx", ".markdown", ".md", ".pdf"}
	if got := p.registry.Extensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}
}

func TestProcess_Markdown(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "guide.md")
	src := "# Title\n\nHello world.\n\n```\nkeep me\n```\n"
	testutil.CreateTestFile(t, input, []byte(src))

	flags := cli.NewFlags()
	flags.TargetLang = "German"
	tr := &testutil.MockTranslator{}
	p, out := newTestProcessor(flags, tr)

	output, err := p.Process(context.Background(), input)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if want := filepath.Join(dir, "guide_translated.md"); output != want {
		t.Errorf("output = %q, want %q", output, want)
	}

	testutil.AssertFileContent(t, output, []byte("# T:Title\n\nT:Hello world.\n\n```\nkeep me\n```\n"))
	testutil.AssertFileContent(t, input, []byte(src))
	testutil.AssertNoTempFiles(t, dir)

	if !reflect.DeepEqual(tr.Calls, []string{"Title", "Hello world."}) {
		t.Errorf("translated %q", tr.Calls)
	}
	for _, lang := range tr.Languages {
		if lang != "German" {
			t.Errorf("target language = %q, want German", lang)
		}
	}
	if !strings.Contains(out.String(), "Output saved to: "+output) {
		t.Errorf("missing success message in %q", out.String())
	}
}

func TestProcess_DOCXSkipsBlankParagraphs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "report.docx")
	body := testutil.Paragraph("Heading1", "Report") +
		testutil.Paragraph("") +
		testutil.Paragraph("", "   ") +
		testutil.Paragraph("", "Plain ", "bold", " text") +
		testutil.Table([][]string{{"A1", "B1"}, {"A2", ""}})
	testutil.CreateTestDOCX(t, input, testutil.DocumentXML(body), nil)

	tr := &testutil.MockTranslator{}
	p, _ := newTestProcessor(cli.NewFlags(), tr)

	output, err := p.Process(context.Background(), input)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := []string{"Report", "Plain bold text", "A1", "B1", "A2"}
	if !reflect.DeepEqual(tr.Calls, want) {
		t.Errorf("translated %q, want %q", tr.Calls, want)
	}
	for _, lang := range tr.Languages {
		if lang != cli.DefaultTargetLang {
			t.Errorf("target language = %q, want default", lang)
		}
	}

	doc, err := docx.NewFormat().Open(output)
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}
	var texts []string
	for _, s := range doc.Segments() {
		texts = append(texts, s.Text)
	}
	wantTexts := []string{"T:Report", "", "   ", "T:Plain bold text", "T:A1", "T:B1", "T:A2", ""}
	if !reflect.DeepEqual(texts, wantTexts) {
		t.Errorf("output segments = %q, want %q", texts, wantTexts)
	}
}

func TestProcess_PDF(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "slides.pdf")
	testutil.CreateTestPDF(t, input, [][]string{{"Page one."}, nil, {"Page three."}})

	tr := &testutil.MockTranslator{}
	p, _ := newTestProcessor(cli.NewFlags(), tr)

	output, err := p.Process(context.Background(), input)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	testutil.AssertFileExists(t, output)
	if !reflect.DeepEqual(tr.Calls, []string{"Page one.", "Page three."}) {
		t.Errorf("translated %q", tr.Calls)
	}
}

func TestProcess_PDFNeedsFontForChinese(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "slides.pdf")
	testutil.CreateTestPDF(t, input, [][]string{{"Page one."}})

	tr := &testutil.MockTranslator{Translations: map[string]string{"Page one.": "\u7b2c\u4e00\u9801"}}
	p, _ := newTestProcessor(cli.NewFlags(), tr)

	if _, err := p.Process(context.Background(), input); !errors.Is(err, pdf.ErrFontRequired) {
		t.Fatalf("Process() error = %v, want pdf.ErrFontRequired", err)
	}
	testutil.AssertFileNotExists(t, document.TranslatedPath(input))
	testutil.AssertNoTempFiles(t, dir)
}

func TestProcess_InputErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	testutil.CreateTestFile(t, txt, []byte("hello"))

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"unsupported extension", txt, document.ErrUnsupportedFormat},
		{"missing file", filepath.Join(dir, "missing.md"), ErrInputNotFound},
		{"directory", dir, ErrInputNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &testutil.MockTranslator{}
			p, _ := newTestProcessor(cli.NewFlags(), tr)

			_, err := p.Process(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Process() error = %v, want %v", err, tt.wantErr)
			}
			if len(tr.Calls) != 0 {
				t.Errorf("translator called %d times", len(tr.Calls))
			}
			testutil.AssertFileNotExists(t, document.TranslatedPath(tt.input))
		})
	}
}

func TestProcess_UnsupportedMessage(t *testing.T) {
	input := filepath.Join(t.TempDir(), "notes.txt")
	testutil.CreateTestFile(t, input, []byte("hello"))

	p, _ := newTestProcessor(cli.NewFlags(), &testutil.MockTranslator{})
	_, err := p.Process(context.Background(), input)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "unsupported file format '.txt'. Supported formats: .docx, .markdown, .md, .pdf"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestProcess_FailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "guide.md")
	testutil.CreateTestFile(t, input, []byte("First.\n\nSecond.\n\nThird.\n"))

	tr := &testutil.MockTranslator{
		Errors: map[string]error{"Second.": translation.ErrBlocked},
	}
	p, _ := newTestProcessor(cli.NewFlags(), tr)

	_, err := p.Process(context.Background(), input)
	if !errors.Is(err, translation.ErrBlocked) {
		t.Fatalf("Process() error = %v, want ErrBlocked", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error does not name the failing segment: %v", err)
	}
	if !reflect.DeepEqual(tr.Calls, []string{"First.", "Second."}) {
		t.Errorf("translated %q, want processing to stop at the failure", tr.Calls)
	}
	testutil.AssertFileNotExists(t, document.TranslatedPath(input))
	testutil.AssertNoTempFiles(t, dir)
}

func TestProcess_DryRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "guide.md")
	testutil.CreateTestFile(t, input, []byte("# Title\n\nBody text.\n"))

	flags := cli.NewFlags()
	flags.DryRun = true
	p, out := newTestProcessor(flags, nil)

	output, err := p.Process(context.Background(), input)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if output != "" {
		t.Errorf("dry run returned output path %q", output)
	}
	testutil.AssertFileNotExists(t, document.TranslatedPath(input))

	for _, want := range []string{"line 1: Title", "line 3: Body text.", "2 segments would be translated"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("dry run output missing %q:\n%s", want, out.String())
		}
	}
}

func TestProcess_NoTranslator(t *testing.T) {
	input := filepath.Join(t.TempDir(), "guide.md")
	testutil.CreateTestFile(t, input, []byte("Body.\n"))

	p, _ := newTestProcessor(cli.NewFlags(), nil)
	if _, err := p.Process(context.Background(), input); err == nil {
		t.Error("expected error without translator")
	}
}

func TestProcessBatch(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestFile(t, filepath.Join(dir, "a.md"), []byte("Alpha.\n"))
	testutil.CreateTestFile(t, filepath.Join(dir, "b.md"), []byte("Beta.\n"))
	testutil.CreateTestFile(t, filepath.Join(dir, "c.txt"), []byte("Gamma.\n"))

	list := filepath.Join(dir, "batch.txt")
	testutil.CreateTestFile(t, list, []byte("# docs\na.md = French\nmissing.md\nc.txt\nb.md\n"))

	flags := cli.NewFlags()
	flags.BatchFile = list
	flags.TargetLang = "German"
	tr := &testutil.MockTranslator{}
	p, out := newTestProcessor(flags, tr)

	var err error
	_, stderr := testutil.CaptureOutput(t, func() {
		err = p.ProcessBatch(context.Background())
	})
	if err == nil || !strings.Contains(err.Error(), "2 of 4 documents failed") {
		t.Errorf("ProcessBatch() error = %v, want 2 of 4 failures", err)
	}

	testutil.AssertFileContent(t, filepath.Join(dir, "a_translated.md"), []byte("T:Alpha.\n"))
	testutil.AssertFileContent(t, filepath.Join(dir, "b_translated.md"), []byte("T:Beta.\n"))
	testutil.AssertFileNotExists(t, filepath.Join(dir, "c_translated.txt"))

	if !reflect.DeepEqual(tr.Languages, []string{"French", "German"}) {
		t.Errorf("languages = %q, want [French German]", tr.Languages)
	}
	if !strings.Contains(stderr, "missing.md") || !strings.Contains(stderr, "c.txt") {
		t.Errorf("failures not reported on stderr: %q", stderr)
	}
	for _, want := range []string{"Total documents: 4", "Processed: 2", "Errors: 2"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, out.String())
		}
	}
}

func TestProcessBatch_AllSucceed(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestFile(t, filepath.Join(dir, "a.md"), []byte("Alpha.\n"))
	list := filepath.Join(dir, "batch.txt")
	testutil.CreateTestFile(t, list, []byte("a.md\n"))

	flags := cli.NewFlags()
	flags.BatchFile = list
	p, out := newTestProcessor(flags, &testutil.MockTranslator{})

	if err := p.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	if strings.Contains(out.String(), "Errors:") {
		t.Errorf("summary reports errors:\n%s", out.String())
	}
}

func TestProcessBatch_MissingList(t *testing.T) {
	flags := cli.NewFlags()
	flags.BatchFile = filepath.Join(t.TempDir(), "nope.txt")
	p, _ := newTestProcessor(flags, &testutil.MockTranslator{})

	if err := p.ProcessBatch(context.Background()); err == nil {
		t.Error("expected error for missing batch file")
	}
}

func TestProcessBatch_Cancelled(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestFile(t, filepath.Join(dir, "a.md"), []byte("Alpha.\n"))
	list := filepath.Join(dir, "batch.txt")
	testutil.CreateTestFile(t, list, []byte("a.md\n"))

	flags := cli.NewFlags()
	flags.BatchFile = list
	tr := &testutil.MockTranslator{}
	p, _ := newTestProcessor(flags, tr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.ProcessBatch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ProcessBatch() error = %v, want context.Canceled", err)
	}
	if len(tr.Calls) != 0 {
		t.Errorf("translator called after cancellation")
	}
	if _, err := os.Stat(filepath.Join(dir, "a_translated.md")); err == nil {
		t.Error("output written after cancellation")
	}
}
