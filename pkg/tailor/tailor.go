// Package tailor runs one tailoring request: generate, parse, merge, then fit to a single page.
package tailor

import (
	"context"

	"github.com/nikogura/onepage-tailor/pkg/condense"
	"github.com/nikogura/onepage-tailor/pkg/llm"
	"github.com/nikogura/onepage-tailor/pkg/logging"
	"github.com/nikogura/onepage-tailor/pkg/merge"
	"github.com/nikogura/onepage-tailor/pkg/patch"
	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PromptBuilder renders the generation request for a master resume and job.
type PromptBuilder func(master resume.Document, job resume.JobTarget) string

// Result is what a tailoring request hands back to the caller.
type Result struct {
	Candidate resume.Document
	Status    condense.Status
	Patch     patch.Patch
	Repaired  bool
	Outcome   condense.Outcome
}

// Tailorer wires a Generator to the parse, merge and condense stages. It holds no per-request state
// and may be shared across goroutines if its Generator and Measurer can.
type Tailorer struct {
	gen    llm.Generator
	engine *condense.Engine
	prompt PromptBuilder
	logger logrus.FieldLogger
}

// Option configures a Tailorer.
type Option func(t *Tailorer)

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) (opt Option) {
	opt = func(t *Tailorer) {
		if logger != nil {
			t.logger = logger
		}
	}
	return opt
}

// WithPromptBuilder replaces the default tailoring prompt.
func WithPromptBuilder(builder PromptBuilder) (opt Option) {
	opt = func(t *Tailorer) {
		if builder != nil {
			t.prompt = builder
		}
	}
	return opt
}

// New creates a Tailorer.
func New(gen llm.Generator, engine *condense.Engine, opts ...Option) (t *Tailorer) {
	t = &Tailorer{
		gen:    gen,
		engine: engine,
		prompt: llm.BuildTailoringPrompt,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tailor produces a one-page candidate for job from master. master is never modified.
//
// Generation, parse and shape failures abort the request; the master content is never returned in
// place of a tailored candidate. An Exhausted status is reported in the result, not as an error.
func (t *Tailorer) Tailor(ctx context.Context, master resume.Document, job resume.JobTarget) (result Result, err error) {
	err = resume.Validate(master)
	if err != nil {
		err = errors.Wrap(err, "invalid master resume")
		return result, err
	}

	working := resume.Clone(master)
	log := t.logger.WithField("keywords", len(job.Keywords()))

	log.Debug("requesting tailored content")
	var raw string
	raw, err = t.gen.Generate(ctx, t.prompt(working, job))
	if err != nil {
		err = errors.Wrap(err, "generation failed")
		return result, err
	}

	parsed := patch.Parse(raw, working)
	if parsed.Status != patch.OK {
		log.WithField("status", parsed.Status.String()).Warn("rejected generation output")
		err = errors.Wrap(parsed.Err, "tailored content rejected")
		return result, err
	}
	if parsed.Repaired {
		log.Info("generation output needed repair")
	}

	candidate := merge.Merge(working, parsed.Patch)

	var outcome condense.Outcome
	outcome, err = t.engine.Fit(ctx, candidate)
	result = Result{
		Candidate: outcome.Candidate,
		Status:    outcome.Status,
		Patch:     parsed.Patch,
		Repaired:  parsed.Repaired,
		Outcome:   outcome,
	}
	if err != nil {
		err = errors.Wrap(err, "fitting to one page")
		return result, err
	}

	log.WithFields(logrus.Fields{
		"status": outcome.Status.String(),
		"pages":  outcome.Measurement.PageCount,
	}).Info("tailoring finished")

	return result, err
}
