package renderer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/pkg/errors"
)

func testDoc() (doc resume.Document) {
	doc = resume.Document{
		Contact: resume.Contact{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100", Links: []string{"github.com/jane"}},
		Summary: "Platform engineer.",
		Skills:  []string{"Go", "C#"},
		Experience: []resume.ExperienceEntry{
			{Title: "Staff Engineer", Organization: "Initech", DateRange: "2020 - Present", Bullets: []string{"Cut deploys to 5 min", "Saved $1M"}},
		},
		Education: []resume.EducationEntry{{Institution: "State U", Credential: "BSc", DateRange: "2011 - 2015"}},
	}
	return doc
}

// fakePandoc records the arguments and writes content to the -o path.
func fakePandoc(content string, calls *[][]string) (run runFunc) {
	run = func(_ context.Context, _ string, _ []string, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, append([]string{name}, args...))
		for i, arg := range args {
			if arg == "-o" && i+1 < len(args) {
				return nil, os.WriteFile(args[i+1], []byte(content), 0600)
			}
		}
		return nil, errors.New("no output path")
	}
	return run
}

func TestWriteMarkdown(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")
	testContent := "# Test Markdown\n\nThis is a test."

	err := WriteMarkdown(testContent, testFile)
	if err != nil {
		t.Fatalf("Failed to write markdown: %v", err)
	}

	// Verify content.
	data, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}

	if string(data) != testContent {
		t.Errorf("Expected content '%s', got '%s'", testContent, string(data))
	}
}

func TestWriteMarkdownCreatesDir(t *testing.T) {
	tmpDir := t.TempDir()
	nestedPath := filepath.Join(tmpDir, "nested", "dir", "test.md")

	err := WriteMarkdown("test", nestedPath)
	if err != nil {
		t.Fatalf("Failed to write markdown: %v", err)
	}

	// Verify file exists.
	_, err = os.Stat(nestedPath)
	if os.IsNotExist(err) {
		t.Error("Markdown file was not created in nested directory")
	}
}

func TestValidateFiles(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	err := os.WriteFile(existingFile, []byte("test"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Test with existing file.
	err = validateFiles(existingFile)
	if err != nil {
		t.Errorf("Expected no error for existing file, got %v", err)
	}

	// Test with multiple files.
	err = validateFiles(existingFile, "/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error when one file doesn't exist, got nil")
	}
}

func TestRenderPDFArgs(t *testing.T) {
	tmpDir := t.TempDir()
	template := filepath.Join(tmpDir, "resume.latex")
	class := filepath.Join(tmpDir, "classes", "resume.cls")
	if err := WriteMarkdown("tpl", template); err != nil {
		t.Fatal(err)
	}
	if err := WriteMarkdown("cls", class); err != nil {
		t.Fatal(err)
	}

	var calls [][]string
	p := NewPandoc(template, class, "")
	p.run = fakePandoc("%PDF-fake", &calls)

	out, err := p.Render(context.Background(), testDoc(), FormatPDF)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if string(out) != "%PDF-fake" {
		t.Errorf("Expected rendered bytes, got '%s'", string(out))
	}

	if len(calls) != 1 {
		t.Fatalf("Expected 1 pandoc call, got %d", len(calls))
	}

	cmdline := strings.Join(calls[0], " ")
	if !strings.Contains(cmdline, "-t pdf") {
		t.Errorf("Expected pdf target, got: %s", cmdline)
	}

	if !strings.Contains(cmdline, "--template "+template) {
		t.Errorf("Expected template flag, got: %s", cmdline)
	}
}

func TestRenderDOCXArgs(t *testing.T) {
	var calls [][]string
	p := NewPandoc("", "", "")
	p.run = fakePandoc("PK-fake", &calls)

	_, err := p.Render(context.Background(), testDoc(), FormatDOCX)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	cmdline := strings.Join(calls[0], " ")
	if !strings.Contains(cmdline, "-t docx") {
		t.Errorf("Expected docx target, got: %s", cmdline)
	}

	if strings.Contains(cmdline, "--template") {
		t.Errorf("DOCX should not use the LaTeX template: %s", cmdline)
	}
}

func TestRenderMarkdownSkipsPandoc(t *testing.T) {
	var calls [][]string
	p := NewPandoc("", "", "")
	p.run = fakePandoc("unused", &calls)

	out, err := p.Render(context.Background(), testDoc(), FormatMarkdown)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(calls) != 0 {
		t.Error("Markdown output should not invoke pandoc")
	}

	if !strings.HasPrefix(string(out), "# Jane Doe") {
		t.Errorf("Unexpected markdown: %s", string(out))
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	p := NewPandoc("/nonexistent/template.latex", "", "")

	_, err := p.Render(context.Background(), testDoc(), FormatPDF)
	if err == nil {
		t.Fatal("Expected error for missing template")
	}
}

func TestRenderPandocFailure(t *testing.T) {
	p := NewPandoc("", "", "")
	p.run = func(_ context.Context, _ string, _ []string, _ string, _ ...string) ([]byte, error) {
		return []byte("! LaTeX Error: boom"), errors.New("exit status 43")
	}

	_, err := p.Render(context.Background(), testDoc(), FormatPDF)
	if err == nil {
		t.Fatal("Expected error from pandoc failure")
	}

	if !strings.Contains(err.Error(), "LaTeX Error") {
		t.Errorf("Expected pandoc output in error, got: %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"pdf": FormatPDF, ".DOCX": FormatDOCX, "word": FormatDOCX, "markdown": FormatMarkdown}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseFormat("rtf"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestCheckPandoc(t *testing.T) {
	// This test will pass if pandoc is installed, skip otherwise.
	err := CheckPandoc(context.Background())
	if err != nil {
		t.Skip("Pandoc not installed, skipping test")
	}
}
