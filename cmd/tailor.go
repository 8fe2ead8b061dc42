package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikogura/onepage-tailor/pkg/condense"
	"github.com/nikogura/onepage-tailor/pkg/config"
	"github.com/nikogura/onepage-tailor/pkg/history"
	"github.com/nikogura/onepage-tailor/pkg/jd"
	"github.com/nikogura/onepage-tailor/pkg/llm"
	"github.com/nikogura/onepage-tailor/pkg/renderer"
	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/nikogura/onepage-tailor/pkg/scorer"
	"github.com/nikogura/onepage-tailor/pkg/tailor"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var company string

//nolint:gochecknoglobals // Cobra boilerplate
var role string

//nolint:gochecknoglobals // Cobra boilerplate
var location string

//nolint:gochecknoglobals // Cobra boilerplate
var workType string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var masterPath string

//nolint:gochecknoglobals // Cobra boilerplate
var formats []string

//nolint:gochecknoglobals // Cobra boilerplate
var skipRender bool

//nolint:gochecknoglobals // Cobra boilerplate
var tailorCmd = &cobra.Command{
	Use:   "tailor <jd-file-or-url>",
	Short: "Tailor the master resume to a job description",
	Long: `Tailor the master resume to a job description and fit it on one page.

The job description can be provided as:
- A file path (e.g., jd.txt, posting.html)
- A URL (e.g., https://example.com/jobs/123)

Example:
  onepage-tailor tailor jd.txt --company "Acme Corp" --role "Staff Engineer"
  onepage-tailor tailor https://example.com/jobs/123 --company "Acme" --role "SRE" --format pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runTailor,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(tailorCmd)
	tailorCmd.Flags().StringVar(&company, "company", "", "Company name (prompted if not provided)")
	tailorCmd.Flags().StringVar(&role, "role", "", "Role title (prompted if not provided)")
	tailorCmd.Flags().StringVar(&location, "location", "", "Job location for the application log")
	tailorCmd.Flags().StringVar(&workType, "work-type", "", "Work type for the application log (e.g. Remote, Hybrid)")
	tailorCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	tailorCmd.Flags().StringVar(&masterPath, "resume", "", "Master resume file (default from config)")
	tailorCmd.Flags().StringSliceVar(&formats, "format", nil, "Output formats: pdf, docx, md (default from config)")
	tailorCmd.Flags().BoolVar(&skipRender, "skip-render", false, "Write the tailored resume data only")
}

func runTailor(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	logger := newLogger()

	if masterPath == "" {
		masterPath = cfg.MasterResume
	}

	var master resume.Document
	master, err = resume.Load(masterPath)
	if err != nil {
		return err
	}

	var jobDescription string
	jobDescription, err = fetchAndLogJD(args[0])
	if err != nil {
		return err
	}

	if company == "" {
		company = promptForInput("Company")
	}
	if role == "" {
		role = promptForInput("Role")
	}
	if company == "" || role == "" {
		err = errors.New("company and role are required")
		return err
	}

	var outFormats []renderer.Format
	outFormats, err = parseFormats(cfg)
	if err != nil {
		return err
	}

	job := jd.NewTarget(jobDescription, cfg.Defaults.KeywordLimit)
	if getVerbose() {
		fmt.Printf("Keywords: %s\n", strings.Join(job.Keywords(), ", "))
	}

	var gen llm.Generator
	gen, err = llm.NewGenerator(ctx, cfg.GeneratorSettings())
	if err != nil {
		return err
	}

	pandoc := renderer.NewPandoc(cfg.Pandoc.TemplatePath, cfg.Pandoc.ClassFile, cfg.Pandoc.ReferenceDoc)
	engine := condense.New(
		renderer.NewPageMeasurer(pandoc, cfg.Condense.MaxPages),
		condense.WithSummarySentences(cfg.Condense.SummarySentences),
		condense.WithLogger(logger),
	)
	tailorer := tailor.New(gen, engine, tailor.WithLogger(logger.WithField("provider", cfg.Provider)))

	var result tailor.Result
	err = withSpinner(fmt.Sprintf("Tailoring resume with %s and fitting to one page...", cfg.Provider), func() (runErr error) {
		result, runErr = tailorer.Tailor(ctx, master, job)
		return runErr
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Tailoring complete (%s, %d page(s))\n", result.Status, result.Outcome.Measurement.PageCount)
	if len(result.Outcome.Steps) > 0 {
		fmt.Println("Condensation steps:")
		printSteps(result.Outcome.Steps)
	}
	if result.Outcome.Overflow() {
		fmt.Println("Warning: could not fit the resume on one page; review the output before sending")
	}

	sc := scorer.NewScorer()
	report := sc.Score(master, result.Candidate, job)
	fmt.Printf("Fit score: %d/100 (%s), keyword coverage %d%%\n", report.Score, report.Band, report.Coverage)
	for _, lesson := range sc.Lessons(report) {
		fmt.Printf("  - %s\n", lesson)
	}

	baseOutDir := outputDir
	if baseOutDir == "" {
		baseOutDir = cfg.Defaults.OutputDir
	}

	var outDir string
	outDir, err = createCompanyOutputDir(baseOutDir, company)
	if err != nil {
		return err
	}

	base := fmt.Sprintf("%s-%s-%s", time.Now().Format("2006-01-02"), sanitizeFilename(role), "resume")
	outputs := []string{filepath.Join(outDir, base+".yaml")}

	err = resume.Save(outputs[0], result.Candidate)
	if err != nil {
		return err
	}

	if !skipRender {
		var artifacts []renderer.Artifact
		err = withSpinner("Rendering documents...", func() (renderErr error) {
			artifacts, renderErr = renderer.RenderAll(ctx, pandoc, result.Candidate, outDir, base, outFormats)
			return renderErr
		})
		if err != nil {
			return err
		}
		for _, a := range artifacts {
			outputs = append(outputs, a.Path)
		}
	}

	fmt.Println("\nFiles written:")
	for _, path := range outputs {
		fmt.Printf("  %s\n", path)
	}

	recordRun(baseOutDir, result, report, cfg.Provider, outputs, logger)

	return err
}

func parseFormats(cfg config.Config) (out []renderer.Format, err error) {
	names := formats
	if len(names) == 0 {
		names = cfg.Defaults.Formats
	}

	for _, name := range names {
		var format renderer.Format
		format, err = renderer.ParseFormat(name)
		if err != nil {
			return out, err
		}
		out = append(out, format)
	}
	return out, err
}

// recordRun appends the run to the application log. Failures are reported but do not fail the command.
func recordRun(baseOutDir string, result tailor.Result, report scorer.Report, provider string, outputs []string, logger logrus.FieldLogger) {
	store, err := history.NewStore(baseOutDir)
	if err == nil {
		_, err = store.Append(history.Record{
			JobTitle: role,
			Company:  company,
			Location: location,
			WorkType: workType,
			Provider: provider,
			Status:   result.Status.String(),
			Pages:    result.Outcome.Measurement.PageCount,
			Steps:    len(result.Outcome.Steps),
			FitPct:   report.Score,
			Band:     report.Band,
			Outputs:  outputs,
			Lessons:  scorer.NewScorer().Lessons(report),
		})
	}
	if err != nil {
		logger.WithError(err).Warn("failed to update application log")
		fmt.Printf("Warning: failed to update application log: %v\n", err)
	}
}
