// Package condense shrinks a candidate resume until the rendering oracle reports it fits on one page.
//
// Edits come from a fixed ladder ordered from least to most lossy. After every single edit the
// candidate is re-measured, so the first sufficient reduction wins and nothing further is removed.
package condense

import (
	"context"
	"fmt"

	"github.com/nikogura/onepage-tailor/pkg/logging"
	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultSummarySentences is the sentence cap used when shortening the summary.
const DefaultSummarySentences = 2

// Measurement is the oracle's verdict for one candidate.
type Measurement struct {
	Fits      bool
	PageCount int
}

// Measurer lays a candidate out and reports whether it fits on one page.
type Measurer interface {
	Measure(ctx context.Context, doc resume.Document) (Measurement, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(ctx context.Context, doc resume.Document) (Measurement, error)

// Measure calls f.
func (f MeasurerFunc) Measure(ctx context.Context, doc resume.Document) (m Measurement, err error) {
	m, err = f(ctx, doc)
	return m, err
}

// Status is the state of the fitting state machine.
type Status int

const (
	// Fitting is the initial state while edits are still being tried.
	Fitting Status = iota
	// Fits means the candidate fits on one page.
	Fits
	// Exhausted means every edit was tried without fitting. The candidate is the most reduced one.
	Exhausted
)

func (s Status) String() (name string) {
	switch s {
	case Fitting:
		name = "fitting"
	case Fits:
		name = "fits"
	case Exhausted:
		name = "exhausted"
	default:
		name = fmt.Sprintf("status(%d)", int(s))
	}
	return name
}

// Step records one ladder edit and the measurements around it.
type Step struct {
	Action     Action
	Target     string
	Before     Measurement
	After      Measurement
	RolledBack bool
}

// Outcome is the result of a fitting run.
type Outcome struct {
	Candidate   resume.Document
	Status      Status
	Measurement Measurement
	Steps       []Step
}

// Overflow reports whether the candidate still spills past one page.
func (o Outcome) Overflow() (overflow bool) {
	overflow = o.Status != Fits
	return overflow
}

// InvalidCandidateError is returned when Fit is handed a document that fails validation.
// It indicates a caller bug.
type InvalidCandidateError struct {
	Cause error
}

func (e *InvalidCandidateError) Error() (msg string) {
	msg = fmt.Sprintf("condense: invalid candidate: %v", e.Cause)
	return msg
}

// Unwrap returns the validation error.
func (e *InvalidCandidateError) Unwrap() (err error) {
	err = e.Cause
	return err
}

// Engine runs the reduction ladder against a Measurer.
type Engine struct {
	measurer         Measurer
	summarySentences int
	logger           logrus.FieldLogger
}

// Option configures an Engine.
type Option func(e *Engine)

// WithSummarySentences sets the sentence cap for the summary shortening step.
func WithSummarySentences(n int) (opt Option) {
	opt = func(e *Engine) {
		if n > 0 {
			e.summarySentences = n
		}
	}
	return opt
}

// WithLogger sets the logger used to trace ladder steps.
func WithLogger(logger logrus.FieldLogger) (opt Option) {
	opt = func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
	return opt
}

// New creates an Engine.
func New(measurer Measurer, opts ...Option) (engine *Engine) {
	engine = &Engine{
		measurer:         measurer,
		summarySentences: DefaultSummarySentences,
		logger:           logging.Discard(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Fit brings candidate within one page, editing a private copy.
//
// Exhausted is a normal outcome, not an error. An error is returned only for an invalid
// candidate, a failing measurement, or a cancelled context; in the latter two cases the
// outcome still holds the last fully applied candidate.
func (e *Engine) Fit(ctx context.Context, candidate resume.Document) (outcome Outcome, err error) {
	err = resume.Validate(candidate)
	if err != nil {
		outcome = Outcome{Candidate: candidate, Status: Exhausted}
		err = &InvalidCandidateError{Cause: err}
		return outcome, err
	}

	outcome = Outcome{Candidate: resume.Clone(candidate), Status: Fitting}

	outcome.Measurement, err = e.measure(ctx, outcome.Candidate)
	if err != nil {
		outcome.Status = Exhausted
		return outcome, err
	}

	lad := newLadder(e.summarySentences)

	for outcome.Status == Fitting {
		if outcome.Measurement.Fits {
			outcome.Status = Fits
			break
		}

		edit, ok := lad.next(outcome.Candidate)
		if !ok {
			outcome.Status = Exhausted
			break
		}

		var m Measurement
		m, err = e.measure(ctx, edit.doc)
		if err != nil {
			outcome.Status = Exhausted
			return outcome, err
		}

		step := Step{Action: edit.action, Target: edit.target, Before: outcome.Measurement, After: m}

		if m.PageCount > outcome.Measurement.PageCount {
			// Never commit an edit that makes the layout longer.
			step.RolledBack = true
			lad.skipPhase()
		} else {
			outcome.Candidate = edit.doc
			outcome.Measurement = m
		}

		outcome.Steps = append(outcome.Steps, step)
		e.logger.WithFields(logrus.Fields{
			"action":      step.Action,
			"target":      step.Target,
			"pages":       m.PageCount,
			"fits":        m.Fits,
			"rolled_back": step.RolledBack,
		}).Debug("condense step")
	}

	e.logger.WithFields(logrus.Fields{
		"status": outcome.Status.String(),
		"pages":  outcome.Measurement.PageCount,
		"steps":  len(outcome.Steps),
	}).Info("condensation finished")

	return outcome, err
}

func (e *Engine) measure(ctx context.Context, doc resume.Document) (m Measurement, err error) {
	err = ctx.Err()
	if err != nil {
		err = errors.Wrap(err, "condensation interrupted")
		return m, err
	}

	m, err = e.measurer.Measure(ctx, doc)
	if err != nil {
		err = errors.Wrap(err, "page measurement failed")
		return m, err
	}

	return m, err
}
