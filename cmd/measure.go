package cmd

import (
	"fmt"

	"github.com/nikogura/onepage-tailor/pkg/condense"
	"github.com/nikogura/onepage-tailor/pkg/config"
	"github.com/nikogura/onepage-tailor/pkg/renderer"
	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var fitOutput string

//nolint:gochecknoglobals // Cobra boilerplate
var measureCmd = &cobra.Command{
	Use:   "measure <resume-file>",
	Short: "Report how many pages a resume renders to",
	Long: `Render a resume (JSON or YAML) to PDF and report its page count.

With --fit, the resume is condensed to one page without calling a model and the
result is written to the given file.

Example:
  onepage-tailor measure master.yaml
  onepage-tailor measure master.yaml --fit master-onepage.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runMeasure,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(measureCmd)
	measureCmd.Flags().StringVar(&fitOutput, "fit", "", "Condense to one page and write the result here")
}

func runMeasure(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	// Pandoc settings are optional here, so a missing config is not fatal.
	cfg, cfgErr := config.Load(getConfigFile())
	if cfgErr != nil && getVerbose() {
		fmt.Printf("Using pandoc defaults: %v\n", cfgErr)
	}

	var doc resume.Document
	doc, err = resume.Load(args[0])
	if err != nil {
		return err
	}

	err = renderer.CheckPandoc(ctx)
	if err != nil {
		return err
	}

	pandoc := renderer.NewPandoc(cfg.Pandoc.TemplatePath, cfg.Pandoc.ClassFile, cfg.Pandoc.ReferenceDoc)
	measurer := renderer.NewPageMeasurer(pandoc, cfg.Condense.MaxPages)

	var m condense.Measurement
	m, err = measurer.Measure(ctx, doc)
	if err != nil {
		return err
	}

	fmt.Printf("%s renders to %d page(s)\n", args[0], m.PageCount)

	if fitOutput == "" {
		return err
	}

	engine := condense.New(measurer,
		condense.WithSummarySentences(cfg.Condense.SummarySentences),
		condense.WithLogger(newLogger()),
	)

	var outcome condense.Outcome
	err = withSpinner("Fitting to one page...", func() (fitErr error) {
		outcome, fitErr = engine.Fit(ctx, doc)
		return fitErr
	})
	if err != nil {
		err = errors.Wrap(err, "fitting failed")
		return err
	}

	printSteps(outcome.Steps)

	err = resume.Save(fitOutput, outcome.Candidate)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s: %d page(s), written to %s\n", outcome.Status, outcome.Measurement.PageCount, fitOutput)
	return err
}
