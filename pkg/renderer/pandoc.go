package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/pkg/errors"
)

// Format is an output document format.
type Format string

const (
	// FormatPDF renders through LaTeX.
	FormatPDF Format = "pdf"
	// FormatDOCX renders a Word document.
	FormatDOCX Format = "docx"
	// FormatMarkdown returns the intermediate markdown.
	FormatMarkdown Format = "md"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (format Format, err error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "pdf":
		format = FormatPDF
	case "docx", "word":
		format = FormatDOCX
	case "md", "markdown":
		format = FormatMarkdown
	default:
		err = errors.Errorf("unsupported format: %s", name)
	}
	return format, err
}

// runFunc executes a command and returns its combined output.
type runFunc func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)

// Pandoc renders resumes by shelling out to pandoc.
type Pandoc struct {
	// TemplatePath is an optional LaTeX template for PDF output.
	TemplatePath string
	// ClassPath is an optional .cls file the template loads.
	ClassPath string
	// ReferenceDoc is an optional reference .docx for DOCX styling.
	ReferenceDoc string

	run runFunc
}

// NewPandoc creates a pandoc renderer. Empty paths fall back to pandoc's defaults.
func NewPandoc(templatePath, classPath, referenceDoc string) (p *Pandoc) {
	p = &Pandoc{
		TemplatePath: templatePath,
		ClassPath:    classPath,
		ReferenceDoc: referenceDoc,
		run:          execRun,
	}
	return p
}

// Render returns doc rendered as format.
func (p *Pandoc) Render(ctx context.Context, doc resume.Document, format Format) (out []byte, err error) {
	md := Markdown(doc)
	if format == FormatMarkdown {
		out = []byte(md)
		return out, err
	}

	err = p.validate(format)
	if err != nil {
		return out, err
	}

	var workDir string
	workDir, err = os.MkdirTemp("", "onepage-render-*")
	if err != nil {
		err = errors.Wrap(err, "failed to create render directory")
		return out, err
	}
	defer os.RemoveAll(workDir)

	markdownPath := filepath.Join(workDir, "resume.md")
	err = WriteMarkdown(md, markdownPath)
	if err != nil {
		return out, err
	}

	outputPath := filepath.Join(workDir, "resume."+string(format))
	args := p.args(format, markdownPath, outputPath)

	env := os.Environ()
	if p.ClassPath != "" {
		// Set TEXINPUTS to include directory with .cls file
		classDir := filepath.Dir(p.ClassPath)
		env = append(env, "TEXINPUTS="+classDir+":"+os.Getenv("TEXINPUTS"))
	}

	var output []byte
	output, err = p.run(ctx, workDir, env, "pandoc", args...)
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Wrap(ctx.Err(), "pandoc interrupted")
			return out, err
		}
		err = errors.Wrapf(err, "pandoc failed: %s", string(output))
		return out, err
	}

	out, err = os.ReadFile(outputPath)
	if err != nil {
		err = errors.Wrapf(err, "pandoc produced no %s output", format)
		return out, err
	}

	return out, err
}

func (p *Pandoc) args(format Format, markdownPath, outputPath string) (args []string) {
	args = []string{
		"-f", "markdown",
		"-t", string(format),
		"-o", outputPath,
	}

	switch format {
	case FormatPDF:
		if p.TemplatePath != "" {
			args = append(args, "--template", p.TemplatePath)
		} else {
			args = append(args, "-V", "geometry:margin=0.6in", "-V", "fontsize=10pt", "-V", "pagestyle=empty")
		}
		args = append(args, "--number-sections=false")
	case FormatDOCX:
		if p.ReferenceDoc != "" {
			args = append(args, "--reference-doc", p.ReferenceDoc)
		}
	case FormatMarkdown:
	}

	args = append(args, markdownPath)
	return args
}

func (p *Pandoc) validate(format Format) (err error) {
	switch format {
	case FormatPDF:
		var paths []string
		for _, path := range []string{p.TemplatePath, p.ClassPath} {
			if path != "" {
				paths = append(paths, path)
			}
		}
		err = validateFiles(paths...)
	case FormatDOCX:
		if p.ReferenceDoc != "" {
			err = validateFiles(p.ReferenceDoc)
		}
	case FormatMarkdown:
	default:
		err = errors.Errorf("unsupported format: %s", format)
	}
	return err
}

func execRun(ctx context.Context, dir string, env []string, name string, args ...string) (output []byte, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = env
	output, err = cmd.CombinedOutput()
	return output, err
}

// CheckPandoc verifies pandoc is installed.
func CheckPandoc(ctx context.Context) (err error) {
	err = exec.CommandContext(ctx, "pandoc", "--version").Run()
	if err != nil {
		err = errors.New("pandoc not found in PATH (install pandoc to generate PDFs)")
		return err
	}
	return err
}

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}

// WriteMarkdown writes markdown content to a file.
func WriteMarkdown(content, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write markdown file: %s", outputPath)
		return err
	}

	return err
}
